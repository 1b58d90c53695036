// Package extractor derives referenced component names from raw source
// text. It is deliberately heuristic: two regular expressions stand in
// for a real parser, which is accurate enough for dependency hints and
// keeps the sync pipeline independent of any language toolchain.
package extractor

import (
	"regexp"
	"strings"
)

var (
	// Matches `import { A, B as C } from "..."` and `import D from "..."`.
	// Group 1 captures the named binding list, group 2 a default binding.
	importPattern = regexp.MustCompile(`import\s+(?:\{([^}]+)\}|(\w+))\s+from`)

	// Matches markup open tags whose first character is uppercase.
	// Lowercase-initial tags are native markup, not component references.
	tagPattern = regexp.MustCompile(`<([A-Z]\w+)`)

	aliasPattern = regexp.MustCompile(`\s+as\s+`)
)

// ExtractNames scans source text for referenced identifiers and returns
// them deduplicated in first-seen order. Import bindings are scanned over
// the whole text before tag references; aliased bindings contribute the
// original name, not the alias.
func ExtractNames(code string) []string {
	names := make([]string, 0, 8)
	seen := make(map[string]struct{})

	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, m := range importPattern.FindAllStringSubmatch(code, -1) {
		if m[1] != "" {
			for _, binding := range strings.Split(m[1], ",") {
				original := aliasPattern.Split(strings.TrimSpace(binding), 2)[0]
				add(strings.TrimSpace(original))
			}
		}
		if m[2] != "" {
			add(m[2])
		}
	}

	for _, m := range tagPattern.FindAllStringSubmatch(code, -1) {
		add(m[1])
	}

	return names
}
