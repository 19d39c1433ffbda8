package dropbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Request/response types for Dropbox API JSON serialization.
type listFolderRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

type listFolderContinueRequest struct {
	Cursor string `json:"cursor"`
}

type listFolderResponse struct {
	Entries []metadataResponse `json:"entries"`
	Cursor  string             `json:"cursor"`
	HasMore bool               `json:"has_more"`
}

type downloadArg struct {
	Path string `json:"path"`
}

type uploadArg struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Mute bool   `json:"mute"`
}

// ListFolder returns every file directly under folder, in the order the
// API returns them, following cursor pagination until has_more is false.
// Listing is not recursive and folder entries are skipped — transfers
// operate on files only. An empty folder yields an empty slice, not an
// error.
func (c *Client) ListFolder(ctx context.Context, folder string) ([]Entry, error) {
	c.logger.Info("listing folder", slog.String("folder", folder))

	var files []Entry

	var page listFolderResponse
	if err := c.rpc(ctx, "/files/list_folder", listFolderRequest{Path: folder}, &page); err != nil {
		return nil, err
	}

	files = appendFiles(files, page.Entries, c.logger)

	cursor, hasMore := page.Cursor, page.HasMore
	for hasMore {
		var next listFolderResponse
		if err := c.rpc(ctx, "/files/list_folder/continue", listFolderContinueRequest{Cursor: cursor}, &next); err != nil {
			return nil, err
		}

		files = appendFiles(files, next.Entries, c.logger)
		cursor, hasMore = next.Cursor, next.HasMore
	}

	c.logger.Debug("listing complete",
		slog.String("folder", folder),
		slog.Int("files", len(files)),
	)

	return files, nil
}

// appendFiles normalizes a page of wire entries, keeping files only.
func appendFiles(files []Entry, page []metadataResponse, logger *slog.Logger) []Entry {
	for i := range page {
		entry := page[i].toEntry(logger)
		if entry.IsFolder {
			continue
		}

		files = append(files, entry)
	}

	return files
}

// Download streams the remote file's full bytes to w and returns the
// number of bytes written. A file that disappeared between list and
// download surfaces as an error wrapping ErrNotFound.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	c.logger.Info("downloading file", slog.String("path", path))

	resp, err := c.content(ctx, "/files/download", downloadArg{Path: path}, http.NoBody, 0)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, copyErr := io.Copy(w, resp.Body)
	if copyErr != nil {
		c.logger.Error("streaming download content failed",
			slog.String("path", path),
			slog.Int64("bytes_before_error", n),
			slog.String("error", copyErr.Error()),
		)

		return n, fmt.Errorf("dropbox: streaming download content: %w", copyErr)
	}

	c.logger.Debug("download complete",
		slog.String("path", path),
		slog.Int64("bytes", n),
	)

	return n, nil
}

// Upload stores size bytes from r at path as a full-file overwrite: if a
// file of the same name exists it is replaced, with no partial state
// visible to other readers. Zero-byte uploads are rejected before any
// network call — an empty payload means the step that produced it is
// broken. Returns the normalized metadata of the stored file.
func (c *Client) Upload(ctx context.Context, path string, r io.Reader, size int64) (*Entry, error) {
	if size == 0 {
		return nil, fmt.Errorf("dropbox: refusing to upload zero-byte file to %q", path)
	}

	c.logger.Info("uploading file",
		slog.String("path", path),
		slog.Int64("size", size),
	)

	arg := uploadArg{Path: path, Mode: "overwrite", Mute: true}

	resp, err := c.content(ctx, "/files/upload", arg, r, size)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var meta metadataResponse
	if decErr := json.NewDecoder(resp.Body).Decode(&meta); decErr != nil {
		return nil, fmt.Errorf("dropbox: decoding upload response: %w", decErr)
	}

	entry := meta.toEntry(c.logger)

	c.logger.Debug("upload complete",
		slog.String("path", entry.PathLower),
		slog.Int64("size", entry.Size),
	)

	return &entry, nil
}
