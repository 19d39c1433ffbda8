package config

import (
	"fmt"
	"log/slog"
	"os"
)

// Credentials is the long-lived Dropbox app credential set: app key, app
// secret, and the account's OAuth2 refresh token. Supplied once per
// process invocation, held only in memory, and never persisted or logged.
type Credentials struct {
	AppKey       string
	AppSecret    string
	RefreshToken string
}

// CredentialsFromEnv reads APP_KEY, APP_SECRET, and REFRESH_TOKEN.
// Missing values are caught by Validate, not here, so the caller gets one
// consistent error path.
func CredentialsFromEnv() Credentials {
	return Credentials{
		AppKey:       os.Getenv(EnvAppKey),
		AppSecret:    os.Getenv(EnvAppSecret),
		RefreshToken: os.Getenv(EnvRefreshToken),
	}
}

// Validate reports the first missing credential field. A missing
// credential is a configuration error and must fail the run before any
// network call is attempted.
func (c Credentials) Validate() error {
	switch {
	case c.AppKey == "":
		return fmt.Errorf("config: %s is not set", EnvAppKey)
	case c.AppSecret == "":
		return fmt.Errorf("config: %s is not set", EnvAppSecret)
	case c.RefreshToken == "":
		return fmt.Errorf("config: %s is not set", EnvRefreshToken)
	}

	return nil
}

// String implements fmt.Stringer with full redaction so a Credentials
// value passed to %v or %s can never leak secrets.
func (c Credentials) String() string {
	return "dropbox credentials [redacted]"
}

// LogValue keeps slog output redacted as well.
func (c Credentials) LogValue() slog.Value {
	return slog.StringValue(c.String())
}
