package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteLedger implements the Ledger interface using SQLite
type SQLiteLedger struct {
	db     *sql.DB
	dbPath string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteLedger creates a new SQLite ledger instance
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteLedger{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// RecordRun inserts a new run row
func (l *SQLiteLedger) RecordRun(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO runs (id, source_path, source_hash, source_lines, manifest_path, mode, started_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := l.db.ExecContext(ctx, query,
		run.ID, run.SourcePath, run.SourceHash[:], run.SourceLines,
		run.ManifestPath, string(run.Mode), run.StartedAt, now)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	run.CreatedAt = now
	return nil
}

// FinishRun stamps a run with its completion time and manifest size
func (l *SQLiteLedger) FinishRun(ctx context.Context, runID string, finishedAt time.Time, manifestBytes int64) error {
	result, err := l.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ?, manifest_bytes = ? WHERE id = ?",
		finishedAt, manifestBytes, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const runColumns = `id, source_path, source_hash, source_lines, manifest_path, manifest_bytes, mode, started_at, finished_at, created_at`

func scanRun(row *sql.Row) (*Run, error) {
	var run Run
	var hash []byte
	var mode string
	var finishedAt sql.NullTime

	err := row.Scan(&run.ID, &run.SourcePath, &hash, &run.SourceLines,
		&run.ManifestPath, &run.ManifestBytes, &mode, &run.StartedAt, &finishedAt, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	copy(run.SourceHash[:], hash)
	run.Mode = RunMode(mode)
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}

// GetRun retrieves a run by ID
func (l *SQLiteLedger) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := l.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ?", runID)
	return scanRun(row)
}

// LastRun retrieves the most recent run for a source path
func (l *SQLiteLedger) LastRun(ctx context.Context, sourcePath string) (*Run, error) {
	row := l.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE source_path = ? ORDER BY started_at DESC LIMIT 1",
		sourcePath)
	return scanRun(row)
}

// RecordSection inserts a section row for a run
func (l *SQLiteLedger) RecordSection(ctx context.Context, section *SectionRecord) error {
	query := `
		INSERT INTO sections (run_id, name, start_marker, end_marker, start_line, end_line, outcome, content_hash, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := l.db.ExecContext(ctx, query,
		section.RunID, section.Name, section.StartMarker, section.EndMarker,
		section.StartLine, section.EndLine, section.Outcome,
		section.ContentHash[:], section.OutputPath, now)
	if err != nil {
		return fmt.Errorf("failed to record section: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	section.ID = id
	section.CreatedAt = now
	return nil
}

// ListSections returns all sections of a run in insertion order
func (l *SQLiteLedger) ListSections(ctx context.Context, runID string) ([]*SectionRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, run_id, name, start_marker, end_marker, start_line, end_line, outcome, content_hash, output_path, created_at
		FROM sections WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sections []*SectionRecord
	for rows.Next() {
		var s SectionRecord
		var hash []byte
		var endMarker, outputPath sql.NullString
		err := rows.Scan(&s.ID, &s.RunID, &s.Name, &s.StartMarker, &endMarker,
			&s.StartLine, &s.EndLine, &s.Outcome, &hash, &outputPath, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		copy(s.ContentHash[:], hash)
		s.EndMarker = endMarker.String
		s.OutputPath = outputPath.String
		sections = append(sections, &s)
	}
	return sections, rows.Err()
}

// GetStatus returns ledger-wide statistics
func (l *SQLiteLedger) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{}

	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&status.RunsCount); err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sections").Scan(&status.SectionsCount); err != nil {
		return nil, fmt.Errorf("failed to count sections: %w", err)
	}

	var lastRun sql.NullTime
	if err := l.db.QueryRowContext(ctx, "SELECT MAX(started_at) FROM runs").Scan(&lastRun); err != nil {
		return nil, fmt.Errorf("failed to read last run time: %w", err)
	}
	if lastRun.Valid {
		status.LastRunAt = lastRun.Time
	}

	if info, err := os.Stat(l.dbPath); err == nil {
		status.DBSizeBytes = info.Size()
	}

	return status, nil
}
