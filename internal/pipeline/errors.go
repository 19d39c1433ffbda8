// Package pipeline implements the artifact transfer stages wrapping the
// Dropbox client: bulk download with a per-file audit trail, and
// single-archive upload with post-transfer verification.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/fluidsim-ci/dropsync/internal/dropbox"
)

// Failure kinds. Every stage error wraps exactly one of these so the
// process boundary can translate it into an exit status and tests can
// assert on the class instead of message text. None of them is ever
// retried within a run — a failed run is re-triggered externally.
var (
	// ErrConfiguration: missing credentials, missing source directory.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication: bad or expired refresh token. Retrying cannot
	// help — the token will not become valid by asking again.
	ErrAuthentication = errors.New("authentication error")

	// ErrTransfer: network or backend failure during a transfer call.
	// Non-fatal per file during bulk download, fatal during upload.
	ErrTransfer = errors.New("transfer error")

	// ErrVerification: an expected artifact is absent or wrong after an
	// operation that should have produced it.
	ErrVerification = errors.New("verification error")
)

// classify maps a client error onto the pipeline taxonomy: token and
// authorization failures are authentication errors, everything else from
// the wire is a transfer error.
func classify(err error) error {
	if errors.Is(err, dropbox.ErrUnauthorized) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	return fmt.Errorf("%w: %w", ErrTransfer, err)
}
