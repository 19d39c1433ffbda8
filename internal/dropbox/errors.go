// Package dropbox provides a thin authenticated client for the Dropbox
// HTTP API v2: folder listing, file download, and whole-file overwrite
// upload. Every call is a single attempt — retry policy belongs to the
// caller, and the pipeline performs none.
package dropbox

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for API error classification.
// Use errors.Is(err, dropbox.ErrNotFound) to check.
var (
	ErrBadRequest        = errors.New("dropbox: bad request")
	ErrUnauthorized      = errors.New("dropbox: unauthorized")
	ErrForbidden         = errors.New("dropbox: forbidden")
	ErrNotFound          = errors.New("dropbox: not found")
	ErrConflict          = errors.New("dropbox: conflict")
	ErrTooManyRequests   = errors.New("dropbox: too many requests")
	ErrInsufficientSpace = errors.New("dropbox: insufficient space")
	ErrServerError       = errors.New("dropbox: server error")
)

// APIError wraps a sentinel error with the HTTP status code and the
// error_summary the API returned, for debugging.
type APIError struct {
	StatusCode int
	Summary    string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dropbox: HTTP %d: %s", e.StatusCode, e.Summary)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// statusInsufficientSpace is 507 Insufficient Storage, returned when the
// account's quota is exhausted.
const statusInsufficientSpace = 507

// classify maps an HTTP status code plus the API's error_summary to a
// sentinel error. Dropbox reports route-specific failures (including a
// missing path) as HTTP 409, so the summary disambiguates a vanished file
// from a genuine conflict.
func classify(code int, summary string) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		switch {
		case strings.Contains(summary, "not_found"):
			return ErrNotFound
		case strings.Contains(summary, "insufficient_space"):
			return ErrInsufficientSpace
		}

		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	case statusInsufficientSpace:
		return ErrInsufficientSpace
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}
