package config

import "os"

// Environment variable names. The three credential variables are secrets
// supplied by the CI environment and are never echoed to logs.
const (
	EnvAppKey       = "APP_KEY"
	EnvAppSecret    = "APP_SECRET"
	EnvRefreshToken = "REFRESH_TOKEN"
	EnvConfig       = "DROPSYNC_CONFIG"
)

// EnvOverrides holds non-secret values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // DROPSYNC_CONFIG: override config file path
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify the Config; callers apply the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
	}
}
