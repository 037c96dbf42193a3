// Package types provides shared type definitions for modsplit.
//
// This package defines the domain vocabulary used across components: markers,
// sections, section rules, and extraction outcomes.
//
// # Sections and Outcomes
//
// Section represents a contiguous half-open line range located by literal
// substring markers:
//
//	section := splitter.ExtractSection(lines, "fn spawn_worker", "fn process_job")
//	switch section.Outcome {
//	case types.OutcomeBounded:
//	    // both markers matched
//	case types.OutcomeUnbounded:
//	    // section runs to end of document
//	case types.OutcomeNotFound:
//	    // start marker never matched; section.Text is empty
//	}
//
// The Outcome field exists so callers can distinguish a genuine miss from a
// rest-of-file fallback instead of inferring it from string emptiness.
//
// # Section Rules
//
// SectionRule is the operator-facing description of one target module: a name
// and the marker line that begins it. An ordered rule list drives the
// partitioner, which assigns every line of the source document to exactly one
// section (or to the preamble before the first match).
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := rule.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
