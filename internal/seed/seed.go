// Package seed loads a small starter catalog: core design tokens, the
// base component set across all three tiers, and the token-usage links
// between them. Intended for fresh databases and demos.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/internal/syncer"
	"github.com/uxforge/designctx-mcp/pkg/types"
)

type tokenSpec struct {
	name        string
	category    string
	value       string
	description string
}

type usageLink struct {
	component string
	token     string
	property  string
}

var seedTokens = []tokenSpec{
	{"color.primary.500", "color", "#3B82F6", "Primary brand blue"},
	{"color.neutral.900", "color", "#111827", "Dark text color"},
	{"color.neutral.100", "color", "#F3F4F6", "Light background"},
	{"spacing.sm", "spacing", "8px", "Small spacing unit"},
	{"spacing.md", "spacing", "16px", "Medium spacing unit"},
	{"spacing.lg", "spacing", "24px", "Large spacing unit"},
	{"radius.md", "radius", "8px", "Medium border radius"},
	{"font.size.sm", "typography", "14px", "Small font size"},
	{"font.size.base", "typography", "16px", "Base font size"},
	{"font.size.lg", "typography", "20px", "Large font size"},
}

var seedLinks = []usageLink{
	{"Button", "color.primary.500", "background-color"},
	{"Button", "radius.md", "border-radius"},
	{"Button", "spacing.sm", "padding"},
	{"Text", "font.size.base", "font-size"},
	{"Text", "color.neutral.900", "color"},
	{"Input", "spacing.sm", "padding"},
	{"Input", "radius.md", "border-radius"},
	{"Input", "font.size.base", "font-size"},
	{"Card", "spacing.md", "padding"},
	{"Card", "radius.md", "border-radius"},
	{"Card", "color.neutral.100", "background-color"},
	{"Header", "spacing.lg", "padding"},
	{"Header", "color.neutral.100", "background-color"},
}

// Run seeds the catalog. Components sync through the regular pipeline,
// so they arrive with embeddings, change-log state, and dependency
// edges exactly as a live sync would produce.
func Run(ctx context.Context, store storage.Storage, engine *syncer.Engine) error {
	log.Println("Seeding tokens...")
	tokenIDs := make(map[string]int64, len(seedTokens))
	for _, t := range seedTokens {
		desc := t.description
		tok := &storage.Token{
			Name:        t.name,
			Category:    t.category,
			Value:       t.value,
			Description: &desc,
		}
		if err := engine.AddToken(ctx, tok); err != nil {
			return fmt.Errorf("seed token %s: %w", t.name, err)
		}
		tokenIDs[t.name] = tok.ID
	}

	log.Println("Seeding atoms...")
	if err := syncAll(ctx, engine, atoms()); err != nil {
		return err
	}

	log.Println("Seeding molecules...")
	if err := syncAll(ctx, engine, molecules()); err != nil {
		return err
	}

	log.Println("Seeding organisms...")
	if err := syncAll(ctx, engine, organisms()); err != nil {
		return err
	}

	log.Println("Linking token usage...")
	for _, link := range seedLinks {
		comp, err := store.GetComponentByName(ctx, link.component)
		if err != nil {
			return fmt.Errorf("link %s -> %s: %w", link.component, link.token, err)
		}
		property := link.property
		usage := &storage.TokenUsage{
			ComponentID: comp.ID,
			TokenID:     tokenIDs[link.token],
			Property:    &property,
		}
		if err := store.UpsertTokenUsage(ctx, usage); err != nil {
			return fmt.Errorf("link %s -> %s: %w", link.component, link.token, err)
		}
	}

	log.Println("Seed complete")
	return nil
}

func syncAll(ctx context.Context, engine *syncer.Engine, inputs []types.SyncInput) error {
	for i := range inputs {
		if _, err := engine.SyncComponent(ctx, &inputs[i]); err != nil {
			return fmt.Errorf("seed component %s: %w", inputs[i].Name, err)
		}
	}
	return nil
}

func strp(s string) *string { return &s }

func atoms() []types.SyncInput {
	return []types.SyncInput{
		{
			Name:   "Button",
			Tier:   types.TierAtom,
			Source: types.SourceManual,
			Code: `import { forwardRef } from "react";

export const Button = forwardRef<HTMLButtonElement, ButtonProps>(({ variant = "primary", size = "md", children, ...props }, ref) => (
  <button ref={ref} className={` + "`btn btn--${variant} btn--${size}`" + `} {...props}>
    {children}
  </button>
));`,
			UsageRules:   strp("Use Button for all clickable actions. Primary variant for main CTAs, secondary for less prominent actions. Always provide accessible labels."),
			Requirements: strp("Must support disabled state, loading state, and keyboard navigation. Renders as <button> by default."),
			Examples:     strp("<Button variant=\"primary\">Save</Button>\n<Button variant=\"secondary\" disabled>Cancel</Button>"),
		},
		{
			Name:   "Icon",
			Tier:   types.TierAtom,
			Source: types.SourceManual,
			Code: `import { LucideIcon } from "lucide-react";

export const Icon = ({ icon: IconComponent, size = 20, ...props }: IconProps) => (
  <IconComponent size={size} {...props} />
);`,
			UsageRules:   strp("Use Icon to render Lucide icons consistently. Always pair with aria-label when used standalone (not next to text)."),
			Requirements: strp("Must accept any Lucide icon component. Supports size and color props."),
		},
		{
			Name:   "Text",
			Tier:   types.TierAtom,
			Source: types.SourceManual,
			Code: `export const Text = ({ as: Tag = "p", size = "base", children, ...props }: TextProps) => (
  <Tag className={` + "`text text--${size}`" + `} {...props}>{children}</Tag>
);`,
			UsageRules:   strp("Use Text for all typography. Choose semantic HTML tags via the 'as' prop. Use size tokens for consistent sizing."),
			Requirements: strp("Must support all heading levels and paragraph. Must apply design token font sizes."),
		},
		{
			Name:   "Input",
			Tier:   types.TierAtom,
			Source: types.SourceManual,
			Code: `import { forwardRef } from "react";

export const Input = forwardRef<HTMLInputElement, InputProps>(({ label, error, ...props }, ref) => (
  <div className="input-wrapper">
    {label && <label className="input-label">{label}</label>}
    <input ref={ref} className={` + "`input ${error ? \"input--error\" : \"\"}`" + `} {...props} />
    {error && <span className="input-error">{error}</span>}
  </div>
));`,
			UsageRules:   strp("Use Input for all single-line text inputs. Always provide a label for accessibility. Show error messages inline."),
			Requirements: strp("Must support ref forwarding. Must show validation errors. Must be accessible with proper label association."),
		},
	}
}

func molecules() []types.SyncInput {
	return []types.SyncInput{
		{
			Name:   "SearchBar",
			Tier:   types.TierMolecule,
			Source: types.SourceManual,
			Code: `import { Input } from "./Input";
import { Button } from "./Button";
import { Icon } from "./Icon";
import { Search } from "lucide-react";

export const SearchBar = ({ onSearch, ...props }: SearchBarProps) => (
  <form className="search-bar" onSubmit={(e) => { e.preventDefault(); onSearch(e.currentTarget.query.value); }}>
    <Input name="query" placeholder="Search..." {...props} />
    <Button type="submit" variant="primary">
      <Icon icon={Search} size={16} />
    </Button>
  </form>
);`,
			UsageRules:   strp("Use SearchBar for search interfaces. Place at the top of content areas. Submits on Enter or button click."),
			Requirements: strp("Must call onSearch with the query string. Must be a semantic form element."),
		},
		{
			Name:   "Card",
			Tier:   types.TierMolecule,
			Source: types.SourceManual,
			Code: `import { Text } from "./Text";

export const Card = ({ title, children, ...props }: CardProps) => (
  <div className="card" {...props}>
    {title && <Text as="h3" size="lg" className="card-title">{title}</Text>}
    <div className="card-body">{children}</div>
  </div>
);`,
			UsageRules:   strp("Use Card to group related content. Always provide a title for context. Cards can be nested inside grid layouts."),
			Requirements: strp("Must have a distinct visual boundary (border or shadow). Title is optional but recommended."),
		},
		{
			Name:   "FormField",
			Tier:   types.TierMolecule,
			Source: types.SourceManual,
			Code: `import { Input } from "./Input";
import { Text } from "./Text";

export const FormField = ({ label, hint, error, ...inputProps }: FormFieldProps) => (
  <div className="form-field">
    <Input label={label} error={error} {...inputProps} />
    {hint && <Text size="sm" className="form-field-hint">{hint}</Text>}
  </div>
);`,
			UsageRules:   strp("Use FormField for labeled form inputs with optional hints. Combine into form layouts."),
			Requirements: strp("Must show label, optional hint text, and error messages. Must forward all input props."),
		},
	}
}

func organisms() []types.SyncInput {
	return []types.SyncInput{
		{
			Name:   "Header",
			Tier:   types.TierOrganism,
			Source: types.SourceManual,
			Code: `import { Button } from "./Button";
import { Icon } from "./Icon";
import { Text } from "./Text";
import { SearchBar } from "./SearchBar";
import { Menu } from "lucide-react";

export const Header = ({ title, onMenuClick, onSearch }: HeaderProps) => (
  <header className="header">
    <Button variant="ghost" onClick={onMenuClick}>
      <Icon icon={Menu} />
    </Button>
    <Text as="h1" size="lg">{title}</Text>
    <SearchBar onSearch={onSearch} />
  </header>
);`,
			UsageRules:   strp("Use Header at the top of every page. Contains navigation trigger, page title, and search. Sticky on scroll."),
			Requirements: strp("Must include menu button, title, and search. Must be responsive, with search collapsing on mobile."),
		},
		{
			Name:   "LoginForm",
			Tier:   types.TierOrganism,
			Source: types.SourceManual,
			Code: `import { FormField } from "./FormField";
import { Button } from "./Button";
import { Text } from "./Text";
import { Card } from "./Card";

export const LoginForm = ({ onSubmit }: LoginFormProps) => (
  <Card title="Sign In">
    <form onSubmit={onSubmit} className="login-form">
      <FormField label="Email" type="email" name="email" required />
      <FormField label="Password" type="password" name="password" required />
      <Button type="submit" variant="primary">Sign In</Button>
      <Text size="sm">Forgot your password?</Text>
    </form>
  </Card>
);`,
			UsageRules:   strp("Use LoginForm on the authentication page. Center it vertically and horizontally. Show server errors above the submit button."),
			Requirements: strp("Must validate email format and password length client-side. Must handle loading/submitting state. Must be accessible."),
		},
	}
}
