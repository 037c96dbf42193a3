package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/muyuanjin/modsplit/internal/config"
	"github.com/muyuanjin/modsplit/internal/ledger"
	"github.com/muyuanjin/modsplit/internal/manifest"
	"github.com/muyuanjin/modsplit/internal/splitter"
	"github.com/muyuanjin/modsplit/pkg/types"
)

var (
	// ErrRunInProgress is returned when a run is started while another is active.
	ErrRunInProgress = errors.New("a split run is already in progress")
)

// Engine sequences one split run: read -> index -> harvest -> extract ->
// write -> record. It owns the two side effects (one read of the monolith,
// the output writes); everything it calls into is a pure function.
type Engine struct {
	plan   *config.Plan
	ledger ledger.Ledger // nil disables run recording
	out    io.Writer
	lock   RunLock
}

// New creates an engine for one plan. led may be nil to disable the ledger;
// out may be nil to discard progress output.
func New(plan *config.Plan, led ledger.Ledger, out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}
	return &Engine{plan: plan, ledger: led, out: out}
}

// WrittenSection describes one module file produced by a full split.
type WrittenSection struct {
	Name      string
	Path      string
	StartLine int
	EndLine   int
	SizeBytes int
}

// Result summarizes a completed run.
type Result struct {
	RunID         string
	Mode          ledger.RunMode
	SourceLines   int
	HeaderLines   int
	Probe         *types.Section // nil when the plan has no probe
	Sections      []WrittenSection
	ManifestPath  string
	ManifestBytes int
	Duration      time.Duration
}

// Run executes the plan. Read and write failures are fatal: they propagate
// wrapped, with no retry and no cleanup of partial output. Marker misses are
// not errors in manifest-only mode (the probe just reports its outcome) but
// are errors in full-split mode, where every rule must account for its part
// of the document.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if !e.lock.TryAcquire() {
		return nil, ErrRunInProgress
	}
	defer e.lock.Release()

	if err := e.plan.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	result := &Result{
		RunID:        uuid.NewString(),
		ManifestPath: e.plan.ManifestPath,
		Mode:         ledger.ModeManifestOnly,
	}
	if len(e.plan.Sections) > 0 {
		result.Mode = ledger.ModeFullSplit
	}

	e.progressf("Reading %s...", e.plan.Source)
	raw, err := os.ReadFile(e.plan.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	content := string(raw)
	lines := splitter.SplitLines(content)
	result.SourceLines = len(lines)

	if err := e.recordRun(ctx, result, content, started); err != nil {
		return nil, err
	}

	header := splitter.HarvestHeader(lines, splitter.HeaderOptions{
		CommentToken: e.plan.Header.CommentToken,
		ImportToken:  e.plan.Header.ImportToken,
	})
	result.HeaderLines = len(header)
	e.progressf("Harvested %d header lines", len(header))

	if e.plan.Probe != nil {
		probe := splitter.ExtractSection(lines, e.plan.Probe.StartMarker, e.plan.Probe.EndMarker)
		result.Probe = &probe
		e.progressf("Probe section %q: outcome=%s, %d lines",
			e.plan.Probe.Name, probe.Outcome, probe.LineCount())
		// Probe names may repeat a full-split section name, which would
		// collide with the per-run uniqueness constraint; only record the
		// probe when it is the sole extraction.
		if result.Mode == ledger.ModeManifestOnly {
			if err := e.recordSection(ctx, result.RunID, e.plan.Probe.Name, &probe, ""); err != nil {
				return nil, err
			}
		}
	}

	if result.Mode == ledger.ModeFullSplit {
		written, err := e.splitSections(ctx, lines, header, result.RunID)
		if err != nil {
			return nil, err
		}
		result.Sections = written
	}

	e.progressf("Creating %s...", e.plan.ManifestPath)
	manifestText := manifest.Render(e.plan.Manifest)
	if err := writeFile(e.plan.ManifestPath, []byte(manifestText)); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	result.ManifestBytes = len(manifestText)
	e.progressf("Created %s", e.plan.ManifestPath)

	if result.Mode == ledger.ModeManifestOnly {
		e.progressf("No sections configured: emitted manifest only.")
		e.progressf("Add section rules to the plan to split %s into per-module files.", e.plan.Source)
	}

	result.Duration = time.Since(started)
	if err := e.finishRun(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// splitSections partitions the document and writes one module file per
// section, with the harvested header prepended as the import preamble.
// Files are written concurrently; the first failure cancels the rest.
func (e *Engine) splitSections(ctx context.Context, lines, header []string, runID string) ([]WrittenSection, error) {
	partition, err := splitter.Partition(lines, e.plan.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to partition source: %w", err)
	}

	written := make([]WrittenSection, len(partition.Sections))
	g, gctx := errgroup.WithContext(ctx)
	for i, section := range partition.Sections {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(e.plan.OutDir, section.Name+e.plan.ModuleExtension)
			content := moduleContent(header, section.Text)
			if err := writeFile(path, []byte(content)); err != nil {
				return fmt.Errorf("failed to write section %q: %w", section.Name, err)
			}
			written[i] = WrittenSection{
				Name:      section.Name,
				Path:      path,
				StartLine: section.StartLine,
				EndLine:   section.EndLine,
				SizeBytes: len(content),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, section := range partition.Sections {
		e.progressf("Wrote %s (lines %d-%d)", written[i].Path, section.StartLine, section.EndLine)
		record := types.Section{
			StartMarker: e.plan.Sections[i].StartMarker,
			StartLine:   section.StartLine,
			EndLine:     section.EndLine,
			Text:        section.Text,
			Outcome:     types.OutcomeBounded,
		}
		if i == len(partition.Sections)-1 {
			record.Outcome = types.OutcomeUnbounded
		}
		if err := e.recordSection(ctx, runID, section.Name, &record, written[i].Path); err != nil {
			return nil, err
		}
	}
	return written, nil
}

// moduleContent assembles one module file: the monolith's header block (its
// comment banner and import preamble), a separating blank line, then the
// section text, normalized to end with a newline.
func moduleContent(header []string, sectionText string) string {
	content := sectionText
	if len(header) > 0 {
		content = splitter.JoinLines(header) + "\n\n" + sectionText
	}
	if len(content) == 0 || content[len(content)-1] != '\n' {
		content += "\n"
	}
	return content
}

// writeFile writes the whole file, creating parent directories as needed.
// Directory creation is idempotent; a pre-existing file is overwritten.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (e *Engine) progressf(format string, args ...interface{}) {
	fmt.Fprintf(e.out, format+"\n", args...)
}

func (e *Engine) recordRun(ctx context.Context, result *Result, content string, started time.Time) error {
	if e.ledger == nil {
		return nil
	}
	run := &ledger.Run{
		ID:           result.RunID,
		SourcePath:   e.plan.Source,
		SourceHash:   sha256.Sum256([]byte(content)),
		SourceLines:  result.SourceLines,
		ManifestPath: e.plan.ManifestPath,
		Mode:         result.Mode,
		StartedAt:    started,
	}
	if err := e.ledger.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

func (e *Engine) recordSection(ctx context.Context, runID, name string, section *types.Section, outputPath string) error {
	if e.ledger == nil {
		return nil
	}
	record := &ledger.SectionRecord{
		RunID:       runID,
		Name:        name,
		StartMarker: section.StartMarker,
		EndMarker:   section.EndMarker,
		StartLine:   section.StartLine,
		EndLine:     section.EndLine,
		Outcome:     string(section.Outcome),
		ContentHash: sha256.Sum256([]byte(section.Text)),
		OutputPath:  outputPath,
	}
	if err := e.ledger.RecordSection(ctx, record); err != nil {
		return fmt.Errorf("failed to record section %q: %w", name, err)
	}
	return nil
}

func (e *Engine) finishRun(ctx context.Context, result *Result) error {
	if e.ledger == nil {
		return nil
	}
	if err := e.ledger.FinishRun(ctx, result.RunID, time.Now(), int64(result.ManifestBytes)); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}
