// Package history keeps a local ledger of transfer runs in SQLite. The
// ledger is informational: it never gates a transfer, and a run that
// cannot be recorded still counts as whatever the pipeline said it was.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	// Pure-Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Run directions.
const (
	DirectionDownload = "download"
	DirectionUpload   = "upload"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

const (
	sqlInsertRun = `INSERT INTO runs
		(id, direction, remote_folder, files, bytes, outcome, detail, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	sqlRecentRuns = `SELECT id, direction, remote_folder, files, bytes,
		outcome, detail, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id LIMIT ?`
)

// Run is one recorded transfer run.
type Run struct {
	ID           string
	Direction    string
	RemoteFolder string
	Files        int
	Bytes        int64
	Outcome      string
	Detail       string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Ledger is the sole writer to the run-history database.
type Ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite ledger at dbPath and runs
// migrations. The database uses WAL mode with synchronous=FULL for
// crash-safe durability.
func Open(dbPath string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: creating ledger directory: %w", err)
		}
	}

	// DSN parameters ensure pragmas apply to every connection from the pool.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"+
			"&_pragma=busy_timeout(5000)",
		dbPath,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: opening database %s: %w", dbPath, err)
	}

	// Sole-writer pattern: only one connection writes at a time.
	db.SetMaxOpenConns(1)

	if err := runMigrations(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db, logger: logger}, nil
}

// Record inserts one run. A zero ID is filled with a fresh UUID; the
// filled ID is written back to the caller's struct.
func (l *Ledger) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := l.db.ExecContext(ctx, sqlInsertRun,
		run.ID,
		run.Direction,
		run.RemoteFolder,
		run.Files,
		run.Bytes,
		run.Outcome,
		run.Detail,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: recording run: %w", err)
	}

	l.logger.Debug("run recorded",
		slog.String("id", run.ID),
		slog.String("direction", run.Direction),
		slog.String("outcome", run.Outcome),
	)

	return nil
}

// Recent returns up to limit runs, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, sqlRecentRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("history: querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var (
			run      Run
			started  string
			finished string
		)

		if err := rows.Scan(&run.ID, &run.Direction, &run.RemoteFolder,
			&run.Files, &run.Bytes, &run.Outcome, &run.Detail,
			&started, &finished); err != nil {
			return nil, fmt.Errorf("history: scanning run: %w", err)
		}

		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("history: parsing started_at: %w", err)
		}

		if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("history: parsing finished_at: %w", err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterating runs: %w", err)
	}

	return runs, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("history: closing database: %w", err)
	}

	return nil
}
