package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config     *Config
	viper      *viper.Viper
	configFile string
	mu         sync.RWMutex
	callbacks  []func(*Config)
	watching   bool
}

// NewManager creates a configuration manager. An empty configFile uses
// $XDG_CONFIG_HOME/careshell/config.toml.
func NewManager(configFile string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configFile == "" {
		path, err := GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		configFile = path
	}
	v.SetConfigFile(configFile)

	v.SetEnvPrefix("CARESHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "CARESHELL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind CARESHELL_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "CARESHELL_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind CARESHELL_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:      v,
		configFile: configFile,
		callbacks:  make([]func(*Config), 0),
	}, nil
}

// Load reads the config file, creating it with defaults when missing,
// and applies environment overrides.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	setDefaults(m.viper)

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if _, err := os.Stat(m.configFile); errors.Is(err, os.ErrNotExist) {
		if createErr := m.createDefaultConfig(); createErr != nil {
			return fmt.Errorf(
				"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
				m.configFile,
				createErr,
			)
		}
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.configFile, err)
	}
	return nil
}

// decode unmarshals, fills derived values and validates. Callers hold m.mu.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}

	normalizeConfig(config)
	ensureStoragePath(config)
	ensureLogDir(config)
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func normalizeConfig(config *Config) {
	config.Storage.Backend = StorageBackend(strings.ToLower(strings.TrimSpace(string(config.Storage.Backend))))
	if config.Storage.Backend == "" {
		config.Storage.Backend = StorageSQLite
	}
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "" {
		config.Logging.Format = defaultLogFormat
	}
	config.Storage.Path = strings.TrimSpace(config.Storage.Path)
	config.Logging.File.Dir = strings.TrimSpace(config.Logging.File.Dir)
}

// ensureStoragePath fills the XDG default path. An unknown backend keeps
// an empty path and is reported by validation.
func ensureStoragePath(config *Config) {
	if config.Storage.Path != "" || config.Storage.Backend == StorageMemory {
		return
	}
	if path, err := DefaultStoragePath(config.Storage.Backend); err == nil {
		config.Storage.Path = path
	}
}

func ensureLogDir(config *Config) {
	if !config.Logging.File.Enabled || config.Logging.File.Dir != "" {
		return
	}
	if dir, err := DefaultLogDir(); err == nil {
		config.Logging.File.Dir = dir
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Server.AllowedOrigins = append([]string(nil), m.config.Server.AllowedOrigins...)
	configCopy.Workspace.Namespaces = append([]string(nil), m.config.Workspace.Namespaces...)
	return &configCopy
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	return m.configFile
}

func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(filepath.Dir(m.configFile), dirPerm); err != nil {
		return err
	}
	if err := WriteConfig(DefaultConfig(), m.configFile); err != nil {
		return err
	}
	return GenerateSchemaFile(filepath.Join(filepath.Dir(m.configFile), schemaFileName))
}
