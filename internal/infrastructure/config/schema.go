// Package config loads, validates and watches the careshell configuration.
package config

import "time"

// StorageBackend selects where tab snapshots are kept.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageFile   StorageBackend = "file"
	StorageMemory StorageBackend = "memory"
)

// Config is the complete careshell configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" toml:"server" json:"server"`
	Storage   StorageConfig   `mapstructure:"storage" toml:"storage" json:"storage"`
	Workspace WorkspaceConfig `mapstructure:"workspace" toml:"workspace" json:"workspace"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging" json:"logging"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:8420".
	Addr string `mapstructure:"addr" toml:"addr" json:"addr" jsonschema:"description=HTTP listen address"`
	// CookieName holds the client id.
	CookieName string `mapstructure:"cookie_name" toml:"cookie_name" json:"cookie_name"`
	// AllowedOrigins for cross-origin calls to /api. Empty disables CORS.
	AllowedOrigins  []string      `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" toml:"shutdown_timeout" json:"shutdown_timeout"`
}

// StorageConfig configures snapshot persistence.
type StorageConfig struct {
	Backend StorageBackend `mapstructure:"backend" toml:"backend" json:"backend" jsonschema:"enum=sqlite,enum=file,enum=memory"`
	// Path of the database or store file. Defaults to the XDG data dir.
	Path      string `mapstructure:"path" toml:"path" json:"path"`
	KeyPrefix string `mapstructure:"key_prefix" toml:"key_prefix" json:"key_prefix"`
}

// WorkspaceConfig configures namespace handling and workspace lifetime.
type WorkspaceConfig struct {
	// Namespaces are the path roots a workspace falls back to when its
	// last tab closes.
	Namespaces      []string `mapstructure:"namespaces" toml:"namespaces" json:"namespaces"`
	DefaultBasePath string   `mapstructure:"default_base_path" toml:"default_base_path" json:"default_base_path"`
	// IdleTimeout unmounts a client's workspace after this long without a
	// request. Its tabs come back from storage on the next visit. 0 keeps
	// workspaces for the life of the server.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" toml:"idle_timeout" json:"idle_timeout"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// File additionally writes JSON lines to a rotating file.
	File LogFileConfig `mapstructure:"file" toml:"file" json:"file"`
}

// LogFileConfig configures the rotating log file.
type LogFileConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Dir defaults to $XDG_DATA_HOME/careshell/logs.
	Dir        string `mapstructure:"dir" toml:"dir" json:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" toml:"max_age_days" json:"max_age_days" jsonschema:"minimum=0"`
	Compress   bool   `mapstructure:"compress" toml:"compress" json:"compress"`
}
