// Package splitter locates textual section boundaries in a line-oriented
// source document using literal substring markers.
//
// The splitter performs no syntactic parsing. All logic operates on line
// indices produced by SplitLines, never byte offsets, and markers match by
// substring containment — not equality, not regular expressions.
//
// # Basic Usage
//
//	lines := splitter.SplitLines(content)
//	section := splitter.ExtractSection(lines, "fn spawn_worker", "fn process_transcode_job")
//	if !section.Found() {
//	    // start marker absent from every line
//	}
//
// # Header Harvesting
//
// HarvestHeader collects the leading run of comment and import-declaration
// lines so the import preamble of the monolith can be carried into each
// split module:
//
//	header := splitter.HarvestHeader(lines, splitter.HeaderOptions{})
//
// # Full Partitioning
//
// Partition decomposes the whole document into named, contiguous sections
// driven by an ordered rule list. The result satisfies a coverage invariant:
// no line is lost, duplicated, or left unassigned, and Reassemble returns
// the original text byte-for-byte.
package splitter
