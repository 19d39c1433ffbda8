package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/fluidsim-ci/dropsync/internal/dropbox"
)

// fakeTransfer is a recording Transferer. Each call appends to calls so
// tests can prove which operations were (or were not) attempted.
type fakeTransfer struct {
	calls []string

	entries []dropbox.Entry
	listErr error

	contents  map[string]string // remote path -> file bytes
	downloads map[string]error  // remote path -> forced failure

	uploadEntry *dropbox.Entry
	uploadErr   error
	uploaded    []byte
}

func (f *fakeTransfer) ListFolder(_ context.Context, folder string) ([]dropbox.Entry, error) {
	f.calls = append(f.calls, "list "+folder)

	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.entries, nil
}

func (f *fakeTransfer) Download(_ context.Context, path string, w io.Writer) (int64, error) {
	f.calls = append(f.calls, "download "+path)

	if err := f.downloads[path]; err != nil {
		return 0, err
	}

	content, ok := f.contents[path]
	if !ok {
		return 0, fmt.Errorf("fake: no content for %q: %w", path, dropbox.ErrNotFound)
	}

	n, err := io.WriteString(w, content)

	return int64(n), err
}

func (f *fakeTransfer) Upload(_ context.Context, path string, r io.Reader, _ int64) (*dropbox.Entry, error) {
	f.calls = append(f.calls, "upload "+path)

	if f.uploadErr != nil {
		return nil, f.uploadErr
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	f.uploaded = body

	return f.uploadEntry, nil
}

// fileEntry builds a remote file entry under folder.
func fileEntry(folder, name string, size int64) dropbox.Entry {
	return dropbox.Entry{
		ID:          "id:" + name,
		Name:        name,
		PathLower:   folder + "/" + name,
		PathDisplay: folder + "/" + name,
		Size:        size,
	}
}
