package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monolith = `// Engine monolith.
use std::sync::Arc;

fn spawn_worker() {
    loop {}
}

fn process_transcode_job() {
}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.ledger.Close() })
	return s
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "tool result should be text content")
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	return decoded
}

func TestNewServer_CreatesComponents(t *testing.T) {
	s := newTestServer(t)

	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.ledger)
}

func TestHandleExtractSection(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "engine.rs")
	require.NoError(t, os.WriteFile(source, []byte(monolith), 0644))

	result, err := s.handleExtractSection(context.Background(), callRequest("extract_section", map[string]interface{}{
		"source":       source,
		"start_marker": "fn spawn_worker",
		"end_marker":   "fn process_transcode_job",
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, "bounded", response["outcome"])
	assert.Equal(t, true, response["found"])
	assert.Equal(t, float64(3), response["start_line"])
	assert.Contains(t, response["text"], "fn spawn_worker")
}

func TestHandleExtractSection_NotFound(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "engine.rs")
	require.NoError(t, os.WriteFile(source, []byte(monolith), 0644))

	result, err := s.handleExtractSection(context.Background(), callRequest("extract_section", map[string]interface{}{
		"source":       source,
		"start_marker": "fn does_not_exist",
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, "not_found", response["outcome"])
	assert.Equal(t, false, response["found"])
	assert.NotContains(t, response, "text")
}

func TestHandleExtractSection_Validation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]interface{}
		code int
	}{
		{
			name: "missing source",
			args: map[string]interface{}{"start_marker": "x"},
			code: ErrorCodeInvalidParams,
		},
		{
			name: "missing start marker",
			args: map[string]interface{}{"source": "/tmp/x.rs"},
			code: ErrorCodeInvalidParams,
		},
		{
			name: "source does not exist",
			args: map[string]interface{}{
				"source":       filepath.Join(t.TempDir(), "absent.rs"),
				"start_marker": "x",
			},
			code: ErrorCodeSourceMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleExtractSection(ctx, callRequest("extract_section", tt.args))
			require.Error(t, err)
			var mcpErr *MCPError
			require.ErrorAs(t, err, &mcpErr)
			assert.Equal(t, tt.code, mcpErr.Code)
		})
	}
}

func TestHandleSplitFile_ManifestOnly(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "engine.rs")
	require.NoError(t, os.WriteFile(source, []byte(monolith), 0644))
	manifestPath := filepath.Join(dir, "engine", "mod.rs")

	result, err := s.handleSplitFile(context.Background(), callRequest("split_file", map[string]interface{}{
		"source":        source,
		"out_dir":       filepath.Join(dir, "engine"),
		"manifest_path": manifestPath,
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, "manifest_only", response["mode"])
	assert.NotEmpty(t, response["run_id"])
	assert.Equal(t, "bounded", response["probe_outcome"])

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mod worker;")
}

func TestHandleSplitFile_WithPlan(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "engine.rs")
	require.NoError(t, os.WriteFile(source, []byte(monolith), 0644))

	planYAML := `source: ` + source + `
out_dir: ` + filepath.Join(dir, "engine") + `
manifest_path: ` + filepath.Join(dir, "engine", "mod.rs") + `
sections:
  - name: worker
    start_marker: "fn spawn_worker"
  - name: job_runner
    start_marker: "fn process_transcode_job"
`
	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte(planYAML), 0644))

	result, err := s.handleSplitFile(context.Background(), callRequest("split_file", map[string]interface{}{
		"plan_path": planPath,
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, "full_split", response["mode"])
	sections, ok := response["sections"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sections, 2)

	_, err = os.Stat(filepath.Join(dir, "engine", "worker.rs"))
	assert.NoError(t, err)
}

func TestHandleSplitFile_SourceMissing(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleSplitFile(context.Background(), callRequest("split_file", map[string]interface{}{
		"source": filepath.Join(t.TempDir(), "absent.rs"),
	}))

	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeSourceMissing, mcpErr.Code)
}

func TestHandleGetRunStatus_EmptyLedger(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetRunStatus(context.Background(), callRequest("get_run_status", map[string]interface{}{}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, float64(0), response["runs_count"])
	assert.NotContains(t, response, "last_run_at")
}

func TestHandleGetRunStatus_AfterSplit(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	source := filepath.Join(dir, "engine.rs")
	require.NoError(t, os.WriteFile(source, []byte(monolith), 0644))

	_, err := s.handleSplitFile(context.Background(), callRequest("split_file", map[string]interface{}{
		"source":        source,
		"out_dir":       filepath.Join(dir, "engine"),
		"manifest_path": filepath.Join(dir, "engine", "mod.rs"),
	}))
	require.NoError(t, err)

	result, err := s.handleGetRunStatus(context.Background(), callRequest("get_run_status", map[string]interface{}{
		"source": source,
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, source, response["source"])
	assert.Equal(t, "manifest_only", response["mode"])
	assert.NotEmpty(t, response["finished_at"])
	sections, ok := response["sections"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sections, 1)
}

func TestHandleGetRunStatus_UnknownSource(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleGetRunStatus(context.Background(), callRequest("get_run_status", map[string]interface{}{
		"source": "/nowhere/engine.rs",
	}))

	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeNoRunRecorded, mcpErr.Code)
}
