package splitter

import (
	"fmt"
	"strings"

	"github.com/muyuanjin/modsplit/pkg/types"
)

// PartitionedSection is one named slice of a partitioned document.
type PartitionedSection struct {
	Name      string
	StartLine int // inclusive, 0-based
	EndLine   int // exclusive
	Text      string
}

// PartitionResult is a complete, gap-free decomposition of a document:
// preamble lines before the first matched rule, then one section per rule in
// document order. JoinLines(Preamble) + sections reproduces the original
// text exactly.
type PartitionResult struct {
	Preamble []string
	Sections []PartitionedSection
}

// Reassemble joins preamble and sections back into the original document
// text. Used by callers and tests to assert the coverage invariant.
func (r *PartitionResult) Reassemble() string {
	parts := make([]string, 0, len(r.Sections)+1)
	if len(r.Preamble) > 0 {
		parts = append(parts, JoinLines(r.Preamble))
	}
	for _, s := range r.Sections {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, LineSeparator)
}

// Partition assigns every line of the document to exactly one section.
//
// Rules are taken in the given order. Each rule's start line is the first
// line containing its start marker, scanning forward from the previous
// rule's start line (exclusive), so matches are strictly increasing by
// construction. A section's end is the next section's start; the last
// section runs to the end of the document. Lines before the first match form
// the preamble.
//
// Unlike single-section extraction, partitioning is strict: a rule whose
// marker never matches is an error, not a silent miss, because a full split
// must account for the whole document.
func Partition(lines []string, rules []types.SectionRule) (*PartitionResult, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	starts := make([]int, len(rules))
	from := 0
	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		idx := -1
		for j := from; j < len(lines); j++ {
			if strings.Contains(lines[j], rule.StartMarker) {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: section %q marker %q (searched from line %d)",
				ErrMarkerNotFound, rule.Name, rule.StartMarker, from)
		}
		starts[i] = idx
		from = idx + 1
	}

	result := &PartitionResult{
		Preamble: lines[:starts[0]],
		Sections: make([]PartitionedSection, len(rules)),
	}
	for i, rule := range rules {
		end := len(lines)
		if i+1 < len(rules) {
			end = starts[i+1]
		}
		result.Sections[i] = PartitionedSection{
			Name:      rule.Name,
			StartLine: starts[i],
			EndLine:   end,
			Text:      JoinLines(lines[starts[i]:end]),
		}
	}

	if err := verifyCoverage(lines, result); err != nil {
		return nil, err
	}
	return result, nil
}

// verifyCoverage asserts the no-overlap, no-gap invariant: the preamble and
// sections must tile [0, len(lines)) exactly.
func verifyCoverage(lines []string, result *PartitionResult) error {
	cursor := len(result.Preamble)
	for _, s := range result.Sections {
		if s.StartLine != cursor {
			return fmt.Errorf("%w: section %q starts at line %d, expected %d",
				ErrCoverageBroken, s.Name, s.StartLine, cursor)
		}
		if s.EndLine < s.StartLine {
			return fmt.Errorf("%w: section %q has negative extent", ErrCoverageBroken, s.Name)
		}
		cursor = s.EndLine
	}
	if cursor != len(lines) {
		return fmt.Errorf("%w: sections end at line %d, document has %d lines",
			ErrCoverageBroken, cursor, len(lines))
	}
	return nil
}
