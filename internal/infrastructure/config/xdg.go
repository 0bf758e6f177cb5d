package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "careshell"
	configFileName = "config.toml"
	schemaFileName = "config.schema.json"
	databaseName   = "tabs.sqlite"
	storeFileName  = "tabs.yaml"
	logDirName     = "logs"

	dirPerm  = 0o750
	filePerm = 0o600
)

// XDGDirs holds the XDG Base Directory paths for careshell.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
}

// GetXDGDirs resolves $XDG_CONFIG_HOME/careshell and $XDG_DATA_HOME/careshell,
// falling back to ~/.config and ~/.local/share. With ENV=dev both point
// at ./.dev/careshell.
func GetXDGDirs() (*XDGDirs, error) {
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: devDir, DataHome: devDir}, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	dataHome := os.Getenv("XDG_DATA_HOME")
	if configHome == "" || dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		if configHome == "" {
			configHome = filepath.Join(homeDir, ".config")
		}
		if dataHome == "" {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	return &XDGDirs{
		ConfigHome: filepath.Join(configHome, appName),
		DataHome:   filepath.Join(dataHome, appName),
	}, nil
}

// GetConfigDir returns the careshell config directory.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetConfigFile returns the default config file path.
func GetConfigFile() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultStoragePath returns where backend keeps its data by default.
// The memory backend has no path.
func DefaultStoragePath(backend StorageBackend) (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	switch backend {
	case StorageSQLite:
		return filepath.Join(dirs.DataHome, databaseName), nil
	case StorageFile:
		return filepath.Join(dirs.DataHome, storeFileName), nil
	case StorageMemory:
		return "", nil
	default:
		return "", fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultLogDir returns the directory of the rotating log file.
func DefaultLogDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.DataHome, logDirName), nil
}
