// Package mcp implements the Model Context Protocol (MCP) server for modsplit.
//
// The MCP server exposes three tools to AI coding assistants:
//   - split_file: run the split engine against a monolith and write output
//   - extract_section: preview one marker-delimited section, read-only
//   - get_run_status: query the split-run ledger
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates on standard input/output; progress from the split
// engine goes to stderr so the protocol stream stays clean.
//
// # Tool: split_file
//
//	Request:
//	{
//	  "name": "split_file",
//	  "arguments": {
//	    "plan_path": "/path/to/plan.yaml",
//	    "source": "/path/to/engine.rs"
//	  }
//	}
//
//	Response:
//	{
//	  "run_id": "…",
//	  "mode": "full_split",
//	  "source_lines": 1490,
//	  "manifest_path": "engine/mod.rs",
//	  "sections": [{"name": "worker", "path": "engine/worker.rs", ...}]
//	}
//
// # Tool: extract_section
//
// Extracts without writing anything, so an operator can check a marker pair
// before committing it to a plan:
//
//	Request:
//	{
//	  "name": "extract_section",
//	  "arguments": {
//	    "source": "/path/to/engine.rs",
//	    "start_marker": "fn spawn_worker",
//	    "end_marker": "fn process_transcode_job"
//	  }
//	}
//
// The response's "outcome" field distinguishes a bounded match from the
// rest-of-file fallback and from a complete miss.
//
// # Tool: get_run_status
//
// With a "source" argument, returns the most recent run for that monolith
// and its recorded sections; without one, returns ledger-wide statistics.
//
// # Concurrency
//
// One split runs at a time. A split_file call arriving while another run is
// active fails with a run-in-progress error rather than queueing.
package mcp
