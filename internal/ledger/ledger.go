package ledger

import (
	"context"
	"time"
)

// Ledger records split runs and the sections they produced, so a later
// operator (or the MCP status tool) can see what was extracted from which
// monolith, and whether a marker silently degraded to rest-of-file.
type Ledger interface {
	// Run operations
	RecordRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time, manifestBytes int64) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	LastRun(ctx context.Context, sourcePath string) (*Run, error)

	// Section operations
	RecordSection(ctx context.Context, section *SectionRecord) error
	ListSections(ctx context.Context, runID string) ([]*SectionRecord, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
}

// RunMode distinguishes a manifest-only run from a full per-section split.
type RunMode string

const (
	ModeManifestOnly RunMode = "manifest_only"
	ModeFullSplit    RunMode = "full_split"
)

// Run is one invocation of the split engine against one monolith.
type Run struct {
	ID            string // UUID
	SourcePath    string
	SourceHash    [32]byte // SHA-256 of the monolith text
	SourceLines   int
	ManifestPath  string
	ManifestBytes int64
	Mode          RunMode
	StartedAt     time.Time
	FinishedAt    time.Time
	CreatedAt     time.Time
}

// SectionRecord is one extracted section within a run.
type SectionRecord struct {
	ID          int64
	RunID       string
	Name        string
	StartMarker string
	EndMarker   string
	StartLine   int
	EndLine     int
	Outcome     string // types.Outcome value
	ContentHash [32]byte
	OutputPath  string // empty for probe extractions that were not written
	CreatedAt   time.Time
}

// Status contains statistics about the ledger database.
type Status struct {
	RunsCount     int
	SectionsCount int
	LastRunAt     time.Time
	DBSizeBytes   int64
}
