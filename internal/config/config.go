// Package config implements TOML configuration loading, environment
// credential handling, and validation for dropsync. Configuration follows
// an override chain: built-in defaults, then the config file, then
// environment variables, then CLI flags. Defaults match the standard CI
// pipeline layout so a bare checkout works without a config file.
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Remote  RemoteConfig  `toml:"remote"`
	Paths   PathsConfig   `toml:"paths"`
	Logging LoggingConfig `toml:"logging"`
}

// RemoteConfig names the Dropbox folder used as the single mailbox for
// both transfer directions. Downloads and uploads within one pipeline run
// always target the same folder.
type RemoteConfig struct {
	Folder string `toml:"folder"`
}

// PathsConfig holds the local filesystem layout of one pipeline run.
type PathsConfig struct {
	// LocalFolder is where downloaded solver inputs land.
	LocalFolder string `toml:"local_folder"`

	// SourceDir is the solver output directory the archive stage packages.
	SourceDir string `toml:"source_dir"`

	// Archive is the destination path of the output archive.
	Archive string `toml:"archive"`

	// AuditLog is the per-run download audit trail.
	AuditLog string `toml:"audit_log"`

	// HistoryDB is the local run ledger database.
	HistoryDB string `toml:"history_db"`
}

// LoggingConfig controls diagnostic log output.
type LoggingConfig struct {
	Level string `toml:"level"`
}
