package splitter

import "errors"

var (
	// ErrNoRules is returned when Partition is called with an empty rule list.
	ErrNoRules = errors.New("no section rules given")
	// ErrMarkerNotFound is returned when a partition rule's marker never
	// matches. Single-section extraction reports this condition through the
	// section outcome instead.
	ErrMarkerNotFound = errors.New("section marker not found")
	// ErrCoverageBroken is returned when the partition result does not tile
	// the document exactly.
	ErrCoverageBroken = errors.New("partition does not cover document")
)
