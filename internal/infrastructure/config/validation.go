package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// validateConfig collects every problem before failing, so one run
// reports them all.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateStorage(config)...)
	validationErrors = append(validationErrors, validateWorkspace(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateServer(config *Config) []string {
	var validationErrors []string
	if _, _, err := net.SplitHostPort(config.Server.Addr); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("server.addr %q is not host:port", config.Server.Addr))
	}
	if strings.TrimSpace(config.Server.CookieName) == "" {
		validationErrors = append(validationErrors, "server.cookie_name cannot be empty")
	}
	if config.Server.ShutdownTimeout < 0 {
		validationErrors = append(validationErrors, "server.shutdown_timeout must be non-negative")
	}
	return validationErrors
}

func validateStorage(config *Config) []string {
	var validationErrors []string
	switch config.Storage.Backend {
	case StorageSQLite, StorageFile:
		if config.Storage.Path == "" {
			validationErrors = append(validationErrors, "storage.path cannot be empty")
		}
	case StorageMemory:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("storage.backend must be one of sqlite, file, memory (got %q)", config.Storage.Backend))
	}
	if strings.TrimSpace(config.Storage.KeyPrefix) == "" {
		validationErrors = append(validationErrors, "storage.key_prefix cannot be empty")
	}
	return validationErrors
}

func validateWorkspace(config *Config) []string {
	var validationErrors []string
	for _, ns := range config.Workspace.Namespaces {
		if !strings.HasPrefix(ns, "/") || ns == "/" {
			validationErrors = append(validationErrors,
				fmt.Sprintf("workspace.namespaces entry %q must be an absolute path below /", ns))
		}
	}
	if !strings.HasPrefix(config.Workspace.DefaultBasePath, "/") {
		validationErrors = append(validationErrors, "workspace.default_base_path must start with /")
	}
	if config.Workspace.IdleTimeout < 0 {
		validationErrors = append(validationErrors, "workspace.idle_timeout must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if _, err := zerolog.ParseLevel(strings.ToLower(config.Logging.Level)); err != nil || config.Logging.Level == "" {
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q is not a valid level", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, "logging.format must be console or json")
	}
	if file := config.Logging.File; file.Enabled {
		if file.Dir == "" {
			validationErrors = append(validationErrors, "logging.file.dir cannot be empty")
		}
		if file.MaxSizeMB <= 0 {
			validationErrors = append(validationErrors, "logging.file.max_size_mb must be positive")
		}
		if file.MaxBackups < 0 || file.MaxAgeDays < 0 {
			validationErrors = append(validationErrors, "logging.file.max_backups and max_age_days must be non-negative")
		}
	}
	return validationErrors
}
