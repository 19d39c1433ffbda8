package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigPath is the repo-local config file the pipeline looks for
// when nothing overrides it. A missing file is fine — defaults apply.
const DefaultConfigPath = "dropsync.toml"

// CLIOverrides holds values supplied via CLI flags. Flags always win over
// the config file and environment.
type CLIOverrides struct {
	ConfigPath string
}

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Fields not present in the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values. CI checkouts usually carry
// no config file at all.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration applying the override chain:
// defaults -> config file -> environment variables -> CLI flags.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Config, error) {
	path := DefaultConfigPath
	if env.ConfigPath != "" {
		path = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		path = cli.ConfigPath
	}

	return LoadOrDefault(path)
}

// validLogLevels are the accepted values for [logging] level.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures: the remote folder must be an absolute Dropbox path,
// every local path must be non-empty, and the log level must be known.
func Validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.Remote.Folder, "/") {
		return fmt.Errorf("remote folder %q must start with '/'", cfg.Remote.Folder)
	}

	if cfg.Paths.LocalFolder == "" {
		return errors.New("paths local_folder must not be empty")
	}

	if cfg.Paths.SourceDir == "" {
		return errors.New("paths source_dir must not be empty")
	}

	if cfg.Paths.Archive == "" {
		return errors.New("paths archive must not be empty")
	}

	if cfg.Paths.AuditLog == "" {
		return errors.New("paths audit_log must not be empty")
	}

	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("unknown log level %q", cfg.Logging.Level)
	}

	return nil
}
