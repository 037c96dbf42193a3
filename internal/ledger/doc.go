// Package ledger persists split-run history in a local SQLite database.
//
// A one-shot refactoring aid leaves no trace of what it did; the ledger
// fixes that. Every engine run records the monolith's content hash, the
// sections it extracted with their line ranges and outcomes, and where the
// output went. The MCP status tool reads the same database.
//
// # Storage
//
// Two tables, migrated through a semver-ordered migration list:
//
//   - runs: one row per invocation (source path + hash, mode, timings)
//   - sections: one row per extracted section (markers, range, outcome,
//     content hash, output path)
//
// # Drivers
//
// The SQLite driver is selected at build time. The default pure Go build
// uses modernc.org/sqlite and needs no C toolchain; building with the
// cgo_sqlite tag switches to github.com/mattn/go-sqlite3. See
// build_purego.go and build_cgo.go.
//
// # Usage
//
//	l, err := ledger.NewSQLiteLedger("/home/me/.modsplit/runs.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Close()
//
//	err = l.RecordRun(ctx, &ledger.Run{ID: runID, SourcePath: src, ...})
package ledger
