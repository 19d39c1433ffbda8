package pipeline

import (
	"context"
	"io"

	"github.com/fluidsim-ci/dropsync/internal/dropbox"
)

// Transferer is the slice of the Dropbox client the pipeline consumes.
// Defined at the consumer per Go convention "accept interfaces, return
// structs"; tests substitute a recording fake to prove that precondition
// failures never reach the network.
type Transferer interface {
	ListFolder(ctx context.Context, folder string) ([]dropbox.Entry, error)
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
	Upload(ctx context.Context, path string, r io.Reader, size int64) (*dropbox.Entry, error)
}
