package types

import "errors"

// Domain errors for type validation
var (
	// Section errors
	ErrSectionInconsistent = errors.New("section marked not found but carries text")
	ErrInvalidLineRange    = errors.New("section line range is invalid")

	// Rule errors
	ErrRuleNameRequired   = errors.New("section rule name is required")
	ErrRuleMarkerRequired = errors.New("section rule start marker is required")
)
