package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fluidsim-ci/dropsync/internal/archive"
	"github.com/fluidsim-ci/dropsync/internal/dropbox"
	"github.com/fluidsim-ci/dropsync/pkg/contenthash"
)

// Uploader pushes one archive into the fixed remote folder. Every step is
// fatal on failure — the upload leg has no partial-success path.
type Uploader struct {
	client Transferer
	logger *slog.Logger
}

// NewUploader creates an Uploader over the given transfer client.
func NewUploader(client Transferer, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Uploader{client: client, logger: logger}
}

// Run verifies the local archive, uploads it, and checks the returned
// metadata. The archive precondition runs before the client is touched,
// so a missing or empty archive — the signature of a failed archival step
// upstream — never costs a network call.
func (u *Uploader) Run(ctx context.Context, archivePath, remoteFolder string) (*dropbox.Entry, error) {
	size, err := archive.Verify(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	localHash, err := contenthash.File(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening archive %q: %w", ErrConfiguration, archivePath, err)
	}
	defer f.Close()

	remotePath := strings.TrimSuffix(remoteFolder, "/") + "/" + filepath.Base(archivePath)

	u.logger.Info("uploading archive",
		slog.String("archive", archivePath),
		slog.String("remote_path", remotePath),
		slog.Int64("size", size),
	)

	entry, err := u.client.Upload(ctx, remotePath, f, size)
	if err != nil {
		return nil, classify(err)
	}

	// Post-upload verification: the stored file must be at least as large
	// as the local archive, and when the backend reports a content hash it
	// must match the locally computed one.
	if entry.Size < size {
		return entry, fmt.Errorf("%w: remote size %d is smaller than local archive size %d",
			ErrVerification, entry.Size, size)
	}

	if entry.ContentHash != "" && entry.ContentHash != localHash {
		return entry, fmt.Errorf("%w: content hash mismatch after upload of %q",
			ErrVerification, remotePath)
	}

	u.logger.Info("upload verified",
		slog.String("remote_path", entry.PathLower),
		slog.Int64("size", entry.Size),
	)

	return entry, nil
}
