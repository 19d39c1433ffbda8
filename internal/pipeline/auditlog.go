package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AuditLog is the plain-text record of per-file download outcomes: one
// human-readable line per file. A fresh log is started for every download
// run (the previous run's log is truncated); within a run it is
// append-only. The pipeline never parses it back — it exists for CI log
// readers and post-mortems.
type AuditLog struct {
	f       *os.File
	nowFunc func() time.Time
}

// OpenAuditLog creates (or truncates) the audit log at path, creating
// parent directories as needed.
func OpenAuditLog(path string) (*AuditLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("pipeline: creating audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pipeline: opening audit log %q: %w", path, err)
	}

	return &AuditLog{f: f, nowFunc: time.Now}, nil
}

// Success records one completed transfer.
func (l *AuditLog) Success(name, localPath string) error {
	return l.line("success %s -> %s", name, localPath)
}

// Failure records one failed transfer with its reason.
func (l *AuditLog) Failure(name string, cause error) error {
	return l.line("failure %s: %v", name, cause)
}

// Note records a run-level event (start, listing result) that is not tied
// to a single file.
func (l *AuditLog) Note(format string, args ...any) error {
	return l.line(format, args...)
}

func (l *AuditLog) line(format string, args ...any) error {
	stamp := l.nowFunc().UTC().Format(time.RFC3339)

	if _, err := fmt.Fprintf(l.f, "%s %s\n", stamp, fmt.Sprintf(format, args...)); err != nil {
		return fmt.Errorf("pipeline: writing audit log: %w", err)
	}

	return nil
}

// Close flushes and finalizes the log.
func (l *AuditLog) Close() error {
	if err := l.f.Sync(); err != nil {
		l.f.Close()
		return fmt.Errorf("pipeline: syncing audit log: %w", err)
	}

	if err := l.f.Close(); err != nil {
		return fmt.Errorf("pipeline: closing audit log: %w", err)
	}

	return nil
}
