package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uxforge/designctx-mcp/internal/storage"
	"github.com/uxforge/designctx-mcp/pkg/types"
)

// Every tool returns a structured payload: successes carry the data,
// failures carry {"error": message} with the result's error flag set.
// Not-found is reported as a plain data result so callers can branch on
// it without error handling.

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// jsonResult wraps a success payload
func jsonResult(data interface{}) *mcp.CallToolResult {
	return mcp.NewToolResultText(formatJSON(data))
}

// errorResult wraps a failure message
func errorResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(formatJSON(map[string]interface{}{"error": message}))
}

// notFoundResult is the data-shaped payload for absent entities
func notFoundResult() *mcp.CallToolResult {
	return jsonResult(map[string]interface{}{"error": "Not found"})
}

// requestArgs extracts the argument map from a tool request
func requestArgs(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	return args, ok
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}

// optionalString extracts a string parameter as a pointer, nil when absent
func optionalString(args map[string]interface{}, key string) *string {
	if val, ok := args[key].(string); ok {
		return &val
	}
	return nil
}

// syncInputFromArgs builds a sync input from raw tool arguments.
// Absent optional fields stay nil so the engine carries stored values
// forward on update.
func syncInputFromArgs(args map[string]interface{}) (*types.SyncInput, error) {
	in := &types.SyncInput{
		Name:         getStringDefault(args, "name", ""),
		Tier:         types.Tier(getStringDefault(args, "tier", "")),
		Code:         getStringDefault(args, "code", ""),
		Source:       types.Source(getStringDefault(args, "source", "")),
		UsageRules:   optionalString(args, "usageRules"),
		Requirements: optionalString(args, "requirements"),
		Examples:     optionalString(args, "examples"),
		Version:      optionalString(args, "version"),
		Imports:      optionalString(args, "imports"),
	}

	if raw, ok := args["propsSchema"]; ok && raw != nil {
		schema, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid propsSchema: %w", err)
		}
		in.PropsSchema = schema
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// Conversions from storage rows to outward shapes. The stored embedding
// never crosses this boundary.

func componentDetail(c *storage.Component) types.ComponentDetail {
	return types.ComponentDetail{
		ID:           c.ID,
		Name:         c.Name,
		Tier:         types.Tier(c.Tier),
		Code:         c.Code,
		Imports:      c.Imports,
		PropsSchema:  json.RawMessage(c.PropsSchema),
		UsageRules:   c.UsageRules,
		Requirements: c.Requirements,
		Examples:     c.Examples,
		Version:      c.Version,
		Source:       types.Source(c.Source),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func componentSummaries(rows []*storage.ComponentSummary) []types.ComponentSummary {
	out := make([]types.ComponentSummary, len(rows))
	for i, row := range rows {
		out[i] = types.ComponentSummary{
			ID:        row.ID,
			Name:      row.Name,
			Tier:      types.Tier(row.Tier),
			Version:   row.Version,
			Source:    types.Source(row.Source),
			UpdatedAt: row.UpdatedAt,
		}
	}
	return out
}

func dependencyRows(rows []*storage.DependencyRow) []types.DependencyRow {
	out := make([]types.DependencyRow, len(rows))
	for i, row := range rows {
		out[i] = types.DependencyRow{
			ID:      row.ID,
			Name:    row.Name,
			Tier:    types.Tier(row.Tier),
			Context: row.Context,
		}
	}
	return out
}

func changeLogRows(rows []*storage.ChangeLogEntry) []types.ChangeLogRow {
	out := make([]types.ChangeLogRow, len(rows))
	for i, row := range rows {
		out[i] = types.ChangeLogRow{
			ID:            row.ID,
			ComponentID:   row.ComponentID,
			Source:        types.Source(row.Source),
			CodeBefore:    row.CodeBefore,
			CodeAfter:     row.CodeAfter,
			FieldsChanged: row.FieldsChanged,
			CreatedAt:     row.CreatedAt,
		}
	}
	return out
}

func componentTokenRows(rows []*storage.ComponentTokenRow) []types.ComponentTokenRow {
	out := make([]types.ComponentTokenRow, len(rows))
	for i, row := range rows {
		out[i] = types.ComponentTokenRow{
			TokenID:   row.TokenID,
			TokenName: row.TokenName,
			Category:  row.Category,
			Value:     row.Value,
			Property:  row.Property,
		}
	}
	return out
}

func tokenUsageRows(rows []*storage.TokenUsageRow) []types.TokenUsageRow {
	out := make([]types.TokenUsageRow, len(rows))
	for i, row := range rows {
		out[i] = types.TokenUsageRow{
			ComponentID:   row.ComponentID,
			ComponentName: row.ComponentName,
			Tier:          types.Tier(row.Tier),
			Property:      row.Property,
		}
	}
	return out
}

func tokenDetail(tok *storage.Token) types.TokenDetail {
	return types.TokenDetail{
		ID:          tok.ID,
		Name:        tok.Name,
		Category:    tok.Category,
		Value:       tok.Value,
		Description: tok.Description,
	}
}
