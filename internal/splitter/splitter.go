package splitter

import (
	"strings"

	"github.com/muyuanjin/modsplit/pkg/types"
)

const (
	// LineSeparator is the separator the indexer splits and joins on. Carriage
	// returns are preserved as part of the line text, never normalized.
	LineSeparator = "\n"
)

// SplitLines turns file text into an ordered sequence of lines. No trimming,
// no normalization of trailing whitespace. An empty input yields a single
// empty line, consistent with strings.Split semantics, so that JoinLines is
// an exact inverse for any input.
func SplitLines(text string) []string {
	return strings.Split(text, LineSeparator)
}

// JoinLines is the inverse of SplitLines: joining the indexed lines
// reproduces the original text byte-for-byte.
func JoinLines(lines []string) string {
	return strings.Join(lines, LineSeparator)
}

// ExtractSection locates a named section by substring markers.
//
// The first line containing startMarker begins the section. If endMarker is
// non-empty, the scan continues strictly after the start line for the first
// line containing endMarker; the section is the half-open range up to that
// line. If endMarker is empty or never matches, the section runs to the end
// of the document and the outcome is OutcomeUnbounded. If startMarker never
// matches, the outcome is OutcomeNotFound and the text is empty.
//
// Markers match by first-occurrence substring containment only. A marker
// string appearing inside a comment or unrelated text produces a false match
// with no disambiguation; that is an accepted limitation of substring-based
// boundary detection.
func ExtractSection(lines []string, startMarker, endMarker string) types.Section {
	section := types.Section{
		StartMarker: startMarker,
		EndMarker:   endMarker,
	}

	startIdx := -1
	for i, line := range lines {
		if strings.Contains(line, startMarker) {
			startIdx = i
			break
		}
	}

	if startIdx < 0 {
		section.Outcome = types.OutcomeNotFound
		return section
	}

	section.StartLine = startIdx
	section.EndLine = len(lines)
	section.Outcome = types.OutcomeUnbounded

	if endMarker != "" {
		for i := startIdx + 1; i < len(lines); i++ {
			if strings.Contains(lines[i], endMarker) {
				section.EndLine = i
				section.Outcome = types.OutcomeBounded
				break
			}
		}
	}

	section.Text = JoinLines(lines[section.StartLine:section.EndLine])
	return section
}
