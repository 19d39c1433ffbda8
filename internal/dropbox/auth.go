package dropbox

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
)

// tokenURL is the Dropbox OAuth2 token endpoint. Short-lived access
// tokens are minted here from the long-lived refresh token.
const tokenURL = "https://api.dropbox.com/oauth2/token"

// TokenSource provides OAuth2 bearer tokens. Defined at the consumer
// (dropbox package) per Go convention "accept interfaces, return structs".
type TokenSource interface {
	Token() (string, error)
}

// NewTokenSource builds a TokenSource from app credentials using the
// OAuth2 refresh-token grant: the app key and secret act as client id and
// client secret. The access token lives in process memory for the
// duration of one client session and dies with the process — nothing is
// ever written to disk.
//
// The credential strings are accepted individually so this package stays
// decoupled from the config package; the caller validates them first.
//
// ctx must outlive the TokenSource — if ctx is canceled, token acquisition
// will fail.
func NewTokenSource(ctx context.Context, appKey, appSecret, refreshToken string, logger *slog.Logger) TokenSource {
	cfg := &oauth2.Config{
		ClientID:     appKey,
		ClientSecret: appSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: tokenURL,
		},
	}

	return newTokenSource(ctx, cfg, refreshToken, logger)
}

// newTokenSource accepts a pre-built oauth2.Config so tests can inject a
// mock token endpoint.
func newTokenSource(ctx context.Context, cfg *oauth2.Config, refreshToken string, logger *slog.Logger) TokenSource {
	if logger == nil {
		logger = slog.Default()
	}

	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	return &tokenBridge{src: src, logger: logger}
}

// tokenBridge adapts oauth2.TokenSource to dropbox.TokenSource.
// Acquisition failures wrap ErrUnauthorized: a bad or expired refresh
// token will not become valid by retrying, so callers treat this as fatal.
type tokenBridge struct {
	src    oauth2.TokenSource
	logger *slog.Logger
}

func (b *tokenBridge) Token() (string, error) {
	t, err := b.src.Token()
	if err != nil {
		b.logger.Warn("access token acquisition failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: obtaining access token: %w", ErrUnauthorized, err)
	}

	b.logger.Debug("access token acquired",
		slog.Time("expiry", t.Expiry),
		slog.Bool("valid", t.Valid()),
	)

	return t.AccessToken, nil
}
