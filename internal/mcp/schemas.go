package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var tierEnum = []string{"atom", "molecule", "organism"}

// componentInputProperties is the shared argument schema for the
// component upsert tools.
func componentInputProperties() map[string]interface{} {
	return map[string]interface{}{
		"name": map[string]interface{}{
			"type":        "string",
			"description": "Unique component name (e.g. 'SearchBar')",
		},
		"tier": map[string]interface{}{
			"type":        "string",
			"description": "Compositional level of the component",
			"enum":        tierEnum,
		},
		"code": map[string]interface{}{
			"type":        "string",
			"description": "Full component source code",
		},
		"source": map[string]interface{}{
			"type":        "string",
			"description": "Where this definition came from",
			"enum":        []string{"figma", "codebase", "manual"},
		},
		"propsSchema": map[string]interface{}{
			"type":        "object",
			"description": "JSON schema of the component's props",
		},
		"usageRules": map[string]interface{}{
			"type":        "string",
			"description": "When and how to use this component",
		},
		"requirements": map[string]interface{}{
			"type":        "string",
			"description": "Accessibility or behavioral requirements",
		},
		"examples": map[string]interface{}{
			"type":        "string",
			"description": "Example usages",
		},
		"version": map[string]interface{}{
			"type":        "string",
			"description": "Component version label",
		},
		"imports": map[string]interface{}{
			"type":        "string",
			"description": "Import statements associated with the component",
		},
	}
}

func getComponentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_component",
		Description: "Get a component by name or id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Component name",
				},
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Component id",
				},
			},
		},
	}
}

func listComponentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_components",
		Description: "List components, optionally filtered by tier",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tier": map[string]interface{}{
					"type":        "string",
					"description": "Only return components of this tier",
					"enum":        tierEnum,
				},
			},
		},
	}
}

func getComponentDependenciesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_component_dependencies",
		Description: "Get the child components used by a given component",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Component name",
				},
			},
			Required: []string{"name"},
		},
	}
}

func getComponentDependentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_component_dependents",
		Description: "Get the parent components that use a given component",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Component name",
				},
			},
			Required: []string{"name"},
		},
	}
}

func getComponentTokensTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_component_tokens",
		Description: "Get the design tokens used by a component",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Component name",
				},
			},
			Required: []string{"name"},
		},
	}
}

func getComponentHistoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_component_history",
		Description: "Get the change log for a component",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Component name",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of entries to return",
					"default":     20,
				},
			},
			Required: []string{"name"},
		},
	}
}

func syncComponentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sync_component",
		Description: "Upsert a component from any source (figma, codebase, manual). Diffs code, logs changes, detects dependencies, re-embeds.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: componentInputProperties(),
			Required:   []string{"name", "tier", "code", "source"},
		},
	}
}

func addComponentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_component",
		Description: "Insert a new component with code and metadata",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: componentInputProperties(),
			Required:   []string{"name", "tier", "code", "source"},
		},
	}
}

func bulkSyncComponentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "bulk_sync_components",
		Description: "Batch upsert multiple components at once",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"components": map[string]interface{}{
					"type":        "array",
					"description": "Component definitions to sync in order",
					"items": map[string]interface{}{
						"type":       "object",
						"properties": componentInputProperties(),
						"required":   []string{"name", "tier", "code", "source"},
					},
				},
			},
			Required: []string{"components"},
		},
	}
}

func detectDependenciesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "detect_dependencies",
		Description: "Re-parse a component's code and rebuild its dependency edges",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Component name",
				},
			},
			Required: []string{"name"},
		},
	}
}

func updateComponentContextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_component_context",
		Description: "Update usage_rules, requirements, or examples on a component. Re-generates embedding.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Component name",
				},
				"usageRules": map[string]interface{}{
					"type":        "string",
					"description": "New usage rules",
				},
				"requirements": map[string]interface{}{
					"type":        "string",
					"description": "New requirements",
				},
				"examples": map[string]interface{}{
					"type":        "string",
					"description": "New examples",
				},
			},
			Required: []string{"name"},
		},
	}
}

func reindexEmbeddingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reindex_embeddings",
		Description: "Regenerate every stored embedding with the current provider, e.g. after switching providers",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func searchComponentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_components",
		Description: "Semantic search across components using natural language",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query",
				},
				"tier": map[string]interface{}{
					"type":        "string",
					"description": "Only return components of this tier",
					"enum":        tierEnum,
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results",
					"default":     10,
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity score (exclusive)",
					"default":     0.3,
				},
			},
			Required: []string{"query"},
		},
	}
}

func searchTokensTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_tokens",
		Description: "Semantic search across design tokens using natural language",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results",
					"default":     10,
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity score (exclusive)",
					"default":     0.3,
				},
			},
			Required: []string{"query"},
		},
	}
}

func addTokenTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_token",
		Description: "Insert a new design token",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Token name (e.g. 'color-primary')",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Token category (e.g. 'color', 'spacing')",
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "Token value (e.g. '#2563EB', '16px')",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "What the token is for",
				},
			},
			Required: []string{"name", "category", "value"},
		},
	}
}

func getTokenUsageTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_token_usage",
		Description: "Get which components use a given design token",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Token name",
				},
			},
			Required: []string{"name"},
		},
	}
}
