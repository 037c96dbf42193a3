package types

// Outcome reports how a section extraction resolved.
type Outcome string

const (
	// OutcomeNotFound means the start marker never matched; the section text is empty.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeBounded means both markers matched and the section is the half-open
	// range from the start line up to (excluding) the end line.
	OutcomeBounded Outcome = "bounded"
	// OutcomeUnbounded means the start marker matched but the section runs to the
	// end of the document, either because no end marker was given or because the
	// end marker never matched after the start line.
	OutcomeUnbounded Outcome = "unbounded"
)

// Section is a contiguous half-open line range [StartLine, EndLine) of a
// document, plus the joined text of those lines. Line numbers are 0-based
// indices into the document's line slice, not editor line numbers.
type Section struct {
	// Markers used to locate the section
	StartMarker string
	EndMarker   string // empty when the caller wanted rest-of-file

	// Location
	StartLine int
	EndLine   int

	// Content
	Text string

	// How the range was resolved
	Outcome Outcome
}

// Found reports whether the start marker matched at all.
func (s *Section) Found() bool {
	return s.Outcome != OutcomeNotFound
}

// LineCount returns the number of lines covered by the section.
func (s *Section) LineCount() int {
	if !s.Found() {
		return 0
	}
	return s.EndLine - s.StartLine
}

// Validate checks internal consistency of a resolved section.
func (s *Section) Validate() error {
	if s.Outcome == OutcomeNotFound {
		if s.Text != "" {
			return ErrSectionInconsistent
		}
		return nil
	}
	if s.StartLine < 0 || s.EndLine < s.StartLine {
		return ErrInvalidLineRange
	}
	return nil
}

// SectionRule names a section and the marker that begins it. Rules are
// supplied by the operator in document order; the partitioner assigns each
// section every line up to the next rule's match.
type SectionRule struct {
	Name        string `yaml:"name"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker,omitempty"`
}

// Validate checks that the rule can be matched against a document.
func (r *SectionRule) Validate() error {
	if r.Name == "" {
		return ErrRuleNameRequired
	}
	if r.StartMarker == "" {
		return ErrRuleMarkerRequired
	}
	return nil
}
