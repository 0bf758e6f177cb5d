package config

import (
	"time"

	"github.com/bnema/careshell/internal/domain/entity"
	"github.com/spf13/viper"
)

const (
	defaultAddr            = "127.0.0.1:8420"
	defaultCookieName      = "careshell_client"
	defaultKeyPrefix       = "careshell.tabs"
	defaultShutdownTimeout = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Minute
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 5
	defaultLogMaxAgeDays   = 14
)

// DefaultConfig returns the built-in configuration. Storage.Path is left
// empty and resolved against the XDG data dir at load time.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            defaultAddr,
			CookieName:      defaultCookieName,
			AllowedOrigins:  []string{},
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Storage: StorageConfig{
			Backend:   StorageSQLite,
			KeyPrefix: defaultKeyPrefix,
		},
		Workspace: WorkspaceConfig{
			Namespaces:      append([]string(nil), entity.DefaultNamespaceRoots...),
			DefaultBasePath: entity.DefaultRootPath,
			IdleTimeout:     defaultIdleTimeout,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File: LogFileConfig{
				MaxSizeMB:  defaultLogMaxSizeMB,
				MaxBackups: defaultLogMaxBackups,
				MaxAgeDays: defaultLogMaxAgeDays,
				Compress:   true,
			},
		},
	}
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.cookie_name", defaults.Server.CookieName)
	v.SetDefault("server.allowed_origins", defaults.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	v.SetDefault("storage.backend", string(defaults.Storage.Backend))
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.key_prefix", defaults.Storage.KeyPrefix)

	v.SetDefault("workspace.namespaces", defaults.Workspace.Namespaces)
	v.SetDefault("workspace.default_base_path", defaults.Workspace.DefaultBasePath)
	v.SetDefault("workspace.idle_timeout", defaults.Workspace.IdleTimeout)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file.enabled", defaults.Logging.File.Enabled)
	v.SetDefault("logging.file.dir", defaults.Logging.File.Dir)
	v.SetDefault("logging.file.max_size_mb", defaults.Logging.File.MaxSizeMB)
	v.SetDefault("logging.file.max_backups", defaults.Logging.File.MaxBackups)
	v.SetDefault("logging.file.max_age_days", defaults.Logging.File.MaxAgeDays)
	v.SetDefault("logging.file.compress", defaults.Logging.File.Compress)
}
