package dropbox

import (
	"log/slog"
	"time"
)

// Entry represents one remote file or folder. Fields are normalized from
// the API response — callers never see raw wire data.
type Entry struct {
	ID             string
	Name           string
	PathLower      string // canonical lowercase path, used for API calls
	PathDisplay    string // cased path for display
	Size           int64
	ContentHash    string // hex, Dropbox block hash; empty for folders
	ServerModified time.Time
	IsFolder       bool
}

// metadataResponse mirrors the Dropbox metadata JSON exactly.
// Unexported — callers use Entry via toEntry() normalization.
type metadataResponse struct {
	Tag            string `json:".tag"` //nolint:tagliatelle // Dropbox union tag key
	ID             string `json:"id"`
	Name           string `json:"name"`
	PathLower      string `json:"path_lower"`
	PathDisplay    string `json:"path_display"`
	Size           int64  `json:"size"`
	ContentHash    string `json:"content_hash"`
	ServerModified string `json:"server_modified"`
}

// toEntry normalizes a wire metadata object into our Entry type.
func (m *metadataResponse) toEntry(logger *slog.Logger) Entry {
	entry := Entry{
		ID:          m.ID,
		Name:        m.Name,
		PathLower:   m.PathLower,
		PathDisplay: m.PathDisplay,
		Size:        m.Size,
		ContentHash: m.ContentHash,
		IsFolder:    m.Tag == "folder",
	}

	if m.ServerModified != "" {
		t, err := time.Parse(time.RFC3339, m.ServerModified)
		if err != nil {
			logger.Warn("invalid server_modified timestamp",
				slog.String("raw", m.ServerModified),
				slog.String("path", m.PathLower),
			)
		} else {
			entry.ServerModified = t
		}
	}

	return entry
}
