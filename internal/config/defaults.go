package config

// Default values for configuration options. These mirror the CI pipeline's
// fixed layout: one remote mailbox folder, one input/output directory, and
// a deterministically named output archive.
const (
	defaultRemoteFolder = "/engineering_simulations_pipeline"
	defaultLocalFolder  = "data/testing-input-output"
	defaultSourceDir    = "data/testing-input-output/navier_stokes_output"
	defaultArchive      = "data/testing-input-output/navier_stokes_output.zip"
	defaultAuditLog     = "data/testing-input-output/download_log.txt"
	defaultHistoryDB    = "data/testing-input-output/dropsync_history.db"
	defaultLogLevel     = "info"
)

// DefaultConfig returns a Config populated with all default values.
// This is used both as the starting point for TOML decoding (so unset
// fields retain defaults) and as the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			Folder: defaultRemoteFolder,
		},
		Paths: PathsConfig{
			LocalFolder: defaultLocalFolder,
			SourceDir:   defaultSourceDir,
			Archive:     defaultArchive,
			AuditLog:    defaultAuditLog,
			HistoryDB:   defaultHistoryDB,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
	}
}
