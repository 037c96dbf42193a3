package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/muyuanjin/modsplit/internal/config"
	"github.com/muyuanjin/modsplit/internal/engine"
	"github.com/muyuanjin/modsplit/internal/ledger"
	"github.com/muyuanjin/modsplit/internal/splitter"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeSourceMissing = -32001 // Source file does not exist or is unreadable
	ErrorCodeRunInProgress = -32002 // Another split run is already active
	ErrorCodeNoRunRecorded = -32003 // No run recorded for the requested source
)

// handleSplitFile handles the split_file tool invocation
func (s *Server) handleSplitFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	plan, err := resolvePlan(args)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid plan", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := validateSource(plan.Source); err != nil {
		return nil, newMCPError(ErrorCodeSourceMissing, "source not readable", map[string]interface{}{
			"param":  "source",
			"reason": err.Error(),
		})
	}

	if !s.runLock.TryAcquire() {
		return nil, newMCPError(ErrorCodeRunInProgress, "a split run is already in progress", nil)
	}
	defer s.runLock.Release()

	// Progress goes to stderr; stdout is reserved for the MCP protocol.
	result, err := engine.New(plan, s.ledger, os.Stderr).Run(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "split failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run_id":         result.RunID,
		"mode":           string(result.Mode),
		"source_lines":   result.SourceLines,
		"header_lines":   result.HeaderLines,
		"manifest_path":  result.ManifestPath,
		"manifest_bytes": result.ManifestBytes,
		"duration_ms":    result.Duration.Milliseconds(),
	}
	if len(result.Sections) > 0 {
		sections := make([]map[string]interface{}, 0, len(result.Sections))
		for _, sec := range result.Sections {
			sections = append(sections, map[string]interface{}{
				"name":       sec.Name,
				"path":       sec.Path,
				"start_line": sec.StartLine,
				"end_line":   sec.EndLine,
				"size_bytes": sec.SizeBytes,
			})
		}
		response["sections"] = sections
	}
	if result.Probe != nil {
		response["probe_outcome"] = string(result.Probe.Outcome)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleExtractSection handles the extract_section tool invocation
func (s *Server) handleExtractSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok || source == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or empty",
		})
	}
	startMarker, ok := args["start_marker"].(string)
	if !ok || startMarker == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "start_marker parameter is required", map[string]interface{}{
			"param":  "start_marker",
			"reason": "missing or empty",
		})
	}
	endMarker := getStringDefault(args, "end_marker", "")

	if err := validateSource(source); err != nil {
		return nil, newMCPError(ErrorCodeSourceMissing, "source not readable", map[string]interface{}{
			"param":  "source",
			"reason": err.Error(),
		})
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read source", map[string]interface{}{
			"error": err.Error(),
		})
	}

	section := splitter.ExtractSection(splitter.SplitLines(string(raw)), startMarker, endMarker)

	response := map[string]interface{}{
		"outcome": string(section.Outcome),
		"found":   section.Found(),
	}
	if section.Found() {
		response["start_line"] = section.StartLine
		response["end_line"] = section.EndLine
		response["line_count"] = section.LineCount()
		response["text"] = section.Text
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetRunStatus handles the get_run_status tool invocation
func (s *Server) handleGetRunStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source := getStringDefault(args, "source", "")
	if source == "" {
		status, err := s.ledger.GetStatus(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to read ledger status", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response := map[string]interface{}{
			"runs_count":     status.RunsCount,
			"sections_count": status.SectionsCount,
			"db_size_bytes":  status.DBSizeBytes,
		}
		if !status.LastRunAt.IsZero() {
			response["last_run_at"] = status.LastRunAt.Format("2006-01-02T15:04:05Z07:00")
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	run, err := s.ledger.LastRun(ctx, source)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNoRunRecorded, "no run recorded for source", map[string]interface{}{
			"source": source,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	sections, err := s.ledger.ListSections(ctx, run.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list sections", map[string]interface{}{
			"error": err.Error(),
		})
	}

	sectionInfo := make([]map[string]interface{}, 0, len(sections))
	for _, sec := range sections {
		info := map[string]interface{}{
			"name":       sec.Name,
			"outcome":    sec.Outcome,
			"start_line": sec.StartLine,
			"end_line":   sec.EndLine,
		}
		if sec.OutputPath != "" {
			info["output_path"] = sec.OutputPath
		}
		sectionInfo = append(sectionInfo, info)
	}

	response := map[string]interface{}{
		"run_id":         run.ID,
		"source":         run.SourcePath,
		"mode":           string(run.Mode),
		"source_lines":   run.SourceLines,
		"manifest_path":  run.ManifestPath,
		"manifest_bytes": run.ManifestBytes,
		"started_at":     run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		"sections":       sectionInfo,
	}
	if !run.FinishedAt.IsZero() {
		response["finished_at"] = run.FinishedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// resolvePlan builds the split plan from tool arguments: an explicit plan
// file when given, the built-in plan otherwise, with per-argument overrides
// applied on top.
func resolvePlan(args map[string]interface{}) (*config.Plan, error) {
	var plan *config.Plan
	var err error
	if planPath := getStringDefault(args, "plan_path", ""); planPath != "" {
		plan, err = config.Load(planPath)
		if err != nil {
			return nil, err
		}
	} else {
		plan = config.Default()
		plan.ApplyEnv()
	}

	if v := getStringDefault(args, "source", ""); v != "" {
		plan.Source = v
	}
	if v := getStringDefault(args, "out_dir", ""); v != "" {
		plan.OutDir = v
	}
	if v := getStringDefault(args, "manifest_path", ""); v != "" {
		plan.ManifestPath = v
	}
	return plan, nil
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateSource checks that a source path exists and is a readable file
func validateSource(path string) error {
	if path == "" {
		return ErrSourceRequired
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrSourceNotFound
	}
	if err != nil {
		return ErrSourceNotReadable
	}
	if info.IsDir() {
		return ErrSourceIsDirectory
	}
	f, err := os.Open(path)
	if err != nil {
		return ErrSourceNotReadable
	}
	_ = f.Close()
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrSourceRequired    = errors.New("source is required")
	ErrSourceNotFound    = errors.New("source does not exist")
	ErrSourceNotReadable = errors.New("source is not readable")
	ErrSourceIsDirectory = errors.New("source is a directory")
)
