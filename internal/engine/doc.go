// Package engine orchestrates one split run against one monolith.
//
// The engine reads the source once, indexes it into lines, harvests the
// header block, extracts sections, writes module files and the manifest,
// and records the run in the ledger. Components below it are pure; the
// engine owns all side effects.
//
// Two modes, selected by the plan:
//
//   - manifest-only: no section rules configured. The engine performs the
//     illustrative probe extraction, emits only the manifest, and prints
//     guidance that per-module extraction remains to be configured.
//   - full split: the document is partitioned by the ordered rule list and
//     one module file is written per section, each carrying the monolith's
//     import preamble. The partition is strict — every line of the source
//     ends up in exactly one output.
//
// Failure is immediate and unrecoverable: a read or write error aborts the
// run with no retry and no cleanup of partial output. There is no
// transient-failure domain here to justify anything gentler.
package engine
