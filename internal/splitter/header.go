package splitter

import "strings"

const (
	// DefaultCommentToken is the line-comment prefix assumed when none is
	// configured. The reference workload is Rust source.
	DefaultCommentToken = "//"
	// DefaultImportToken is the import-declaration prefix assumed when none
	// is configured ("use " for Rust, "import " for Go or TypeScript).
	DefaultImportToken = "use "
)

// HeaderOptions configures what counts as a header line.
type HeaderOptions struct {
	CommentToken string // line-comment prefix, matched after left-trim
	ImportToken  string // import-declaration prefix, matched after left-trim, case-sensitive
}

// withDefaults fills zero-value fields.
func (o HeaderOptions) withDefaults() HeaderOptions {
	if o.CommentToken == "" {
		o.CommentToken = DefaultCommentToken
	}
	if o.ImportToken == "" {
		o.ImportToken = DefaultImportToken
	}
	return o
}

// HarvestHeader extracts the leading contiguous run of comment and
// import-declaration lines from the top of a document — the reusable import
// preamble of the original file.
//
// A line continues the header when it is a comment line, an import
// declaration (both matched as a case-sensitive prefix after left-trim), or
// entirely whitespace (blank lines commonly separate grouped imports and are
// kept, not skipped). The first line matching none of these terminates the
// scan and is excluded. If no line terminates the scan, the entire document
// is the header.
//
// Returned lines preserve original order and original text, so harvesting
// the header of its own output returns that output unchanged.
func HarvestHeader(lines []string, opts HeaderOptions) []string {
	opts = opts.withDefaults()

	end := len(lines)
	for i, line := range lines {
		if !isHeaderLine(line, opts) {
			end = i
			break
		}
	}
	return lines[:end]
}

func isHeaderLine(line string, opts HeaderOptions) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return true
	}
	return strings.HasPrefix(trimmed, opts.CommentToken) ||
		strings.HasPrefix(trimmed, opts.ImportToken)
}
