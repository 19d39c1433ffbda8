package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileOutcome records one file's transfer result for the audit trail and
// the final report.
type FileOutcome struct {
	Name      string
	LocalPath string
	Bytes     int64
	Err       error
}

// Report aggregates the per-file outcomes of one download run. It is
// returned even when the run fails so callers can still record it.
type Report struct {
	RemoteFolder string
	LocalFolder  string
	Outcomes     []FileOutcome
	Bytes        int64
}

// Succeeded returns the number of files that landed locally.
func (r *Report) Succeeded() int {
	var n int

	for i := range r.Outcomes {
		if r.Outcomes[i].Err == nil {
			n++
		}
	}

	return n
}

// Failed returns the number of files whose transfer failed.
func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Downloader pulls every file from one remote folder into one local
// folder. Transfers are best-effort per file: a single file's failure
// does not halt the loop, but the run as a whole only succeeds if the
// destination folder is non-empty afterward.
type Downloader struct {
	client Transferer
	logger *slog.Logger
}

// NewDownloader creates a Downloader over the given transfer client.
func NewDownloader(client Transferer, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Downloader{client: client, logger: logger}
}

// Run executes the download sequence: list the remote folder, transfer
// each listed file in listing order, then verify the destination. Every
// listed file gets exactly one audit line, success or failure. An empty
// listing is not an error by itself — the verdict is deferred to the
// final verification so the audit log still shows a run that saw zero
// files.
func (d *Downloader) Run(ctx context.Context, remoteFolder, localFolder string, audit *AuditLog) (*Report, error) {
	report := &Report{RemoteFolder: remoteFolder, LocalFolder: localFolder}

	if err := os.MkdirAll(localFolder, 0o755); err != nil {
		return report, fmt.Errorf("%w: creating local folder %q: %w", ErrConfiguration, localFolder, err)
	}

	if err := audit.Note("listing %s", remoteFolder); err != nil {
		return report, err
	}

	entries, err := d.client.ListFolder(ctx, remoteFolder)
	if err != nil {
		return report, classify(err)
	}

	d.logger.Info("remote folder listed",
		slog.String("folder", remoteFolder),
		slog.Int("files", len(entries)),
	)

	for i := range entries {
		entry := &entries[i]
		localPath := filepath.Join(localFolder, entry.Name)

		n, dlErr := d.downloadOne(ctx, entry.PathLower, localPath)
		report.Outcomes = append(report.Outcomes, FileOutcome{
			Name:      entry.Name,
			LocalPath: localPath,
			Bytes:     n,
			Err:       dlErr,
		})

		if dlErr != nil {
			d.logger.Warn("file download failed",
				slog.String("name", entry.Name),
				slog.String("error", dlErr.Error()),
			)

			if aErr := audit.Failure(entry.Name, dlErr); aErr != nil {
				return report, aErr
			}

			continue
		}

		report.Bytes += n

		if aErr := audit.Success(entry.Name, localPath); aErr != nil {
			return report, aErr
		}
	}

	if err := d.verify(localFolder, report); err != nil {
		return report, err
	}

	d.logger.Info("download run verified",
		slog.Int("succeeded", report.Succeeded()),
		slog.Int("failed", report.Failed()),
		slog.Int64("bytes", report.Bytes),
	)

	return report, nil
}

// downloadOne transfers a single remote file to localPath. A file that
// fails mid-stream is removed so partial content never counts toward the
// final non-empty verdict.
func (d *Downloader) downloadOne(ctx context.Context, remotePath, localPath string) (int64, error) {
	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("%w: creating %q: %w", ErrConfiguration, dir, err)
		}
	}

	f, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("%w: creating %q: %w", ErrConfiguration, localPath, err)
	}

	n, dlErr := d.client.Download(ctx, remotePath, f)

	if closeErr := f.Close(); closeErr != nil && dlErr == nil {
		dlErr = closeErr
	}

	if dlErr != nil {
		os.Remove(localPath)
		return 0, classify(dlErr)
	}

	return n, nil
}

// verify implements the terminal state decision: the run succeeded iff
// the destination folder holds at least one file after the loop.
func (d *Downloader) verify(localFolder string, report *Report) error {
	entries, err := os.ReadDir(localFolder)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %w", ErrVerification, localFolder, err)
	}

	if len(entries) == 0 {
		return fmt.Errorf("%w: no files retrieved from %q into %q",
			ErrVerification, report.RemoteFolder, localFolder)
	}

	return nil
}
