package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// splitFileTool returns the tool definition for split_file
func splitFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "split_file",
		Description: "Split a monolithic source file into module files and generate its manifest",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"plan_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a YAML split plan; omit to use the built-in plan",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the monolith; overrides the plan's source",
				},
				"out_dir": map[string]interface{}{
					"type":        "string",
					"description": "Directory for per-section module files; overrides the plan",
				},
				"manifest_path": map[string]interface{}{
					"type":        "string",
					"description": "Destination for the generated manifest; overrides the plan",
				},
			},
		},
	}
}

// extractSectionTool returns the tool definition for extract_section
func extractSectionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_section",
		Description: "Extract one marker-delimited section from a source file without writing anything",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the source file",
				},
				"start_marker": map[string]interface{}{
					"type":        "string",
					"description": "Literal substring identifying the first line of the section",
				},
				"end_marker": map[string]interface{}{
					"type":        "string",
					"description": "Literal substring identifying the line after the section; omit for rest-of-file",
				},
			},
			Required: []string{"source", "start_marker"},
		},
	}
}

// getRunStatusTool returns the tool definition for get_run_status
func getRunStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_run_status",
		Description: "Query the split-run ledger: last run for a source file, or overall statistics",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source path to look up; omit for ledger-wide statistics",
				},
			},
		},
	}
}
