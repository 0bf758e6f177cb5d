package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempXDG(t *testing.T) (configHome, dataHome string) {
	t.Helper()
	root := t.TempDir()
	configHome = filepath.Join(root, "config")
	dataHome = filepath.Join(root, "data")
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("CARESHELL_LOG_LEVEL", "")
	t.Setenv("CARESHELL_LOG_FORMAT", "")
	return configHome, dataHome
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	assert.Equal(t, "sqlite", v.GetString("storage.backend"))
	assert.Equal(t, "careshell.tabs", v.GetString("storage.key_prefix"))
	assert.Equal(t, []string{"/admin", "/care", "/office"}, v.GetStringSlice("workspace.namespaces"))
	assert.Equal(t, "careshell_client", v.GetString("server.cookie_name"))
}

func TestManager_LoadCreatesDefaultConfig(t *testing.T) {
	configHome, dataHome := useTempXDG(t)

	mgr, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.Equal(t, filepath.Join(configHome, "careshell", "config.toml"), mgr.ConfigFile())
	assert.FileExists(t, mgr.ConfigFile())
	assert.FileExists(t, filepath.Join(configHome, "careshell", "config.schema.json"))

	cfg := mgr.Get()
	assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dataHome, "careshell", "tabs.sqlite"), cfg.Storage.Path)
	assert.Equal(t, defaultAddr, cfg.Server.Addr)
	assert.Equal(t, defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, defaultIdleTimeout, cfg.Workspace.IdleTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestManager_LoadExplicitFile(t *testing.T) {
	_, dataHome := useTempXDG(t)
	path := filepath.Join(t.TempDir(), "careshell.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
  addr = "0.0.0.0:9000"
  allowed_origins = ["https://care.example.org"]
  shutdown_timeout = "3s"

[storage]
  backend = "FILE"

[workspace]
  namespaces = ["/ward", "/office"]
  default_base_path = "/home"
  idle_timeout = "5m"

[logging]
  level = "debug"
  format = "json"

[logging.file]
  enabled = true
  max_backups = 2
`), 0o600))

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://care.example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dataHome, "careshell", "tabs.yaml"), cfg.Storage.Path)
	assert.Equal(t, []string{"/ward", "/office"}, cfg.Workspace.Namespaces)
	assert.Equal(t, "/home", cfg.Workspace.DefaultBasePath)
	assert.Equal(t, 5*time.Minute, cfg.Workspace.IdleTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.File.Enabled)
	assert.Equal(t, filepath.Join(dataHome, "careshell", "logs"), cfg.Logging.File.Dir)
	assert.Equal(t, 2, cfg.Logging.File.MaxBackups)
	assert.Equal(t, defaultLogMaxSizeMB, cfg.Logging.File.MaxSizeMB)
}

func TestManager_EnvOverridesFile(t *testing.T) {
	useTempXDG(t)
	t.Setenv("CARESHELL_LOG_LEVEL", "warn")
	t.Setenv("CARESHELL_STORAGE_BACKEND", "memory")

	mgr, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Path)
}

func TestManager_LoadRejectsInvalidConfig(t *testing.T) {
	useTempXDG(t)
	path := filepath.Join(t.TempDir(), "careshell.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storage]
  backend = "redis"
`), 0o600))

	mgr, err := NewManager(path)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestManager_GetReturnsCopy(t *testing.T) {
	useTempXDG(t)
	mgr, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Workspace.Namespaces[0] = "/mutated"
	assert.Equal(t, "/admin", mgr.Get().Workspace.Namespaces[0])
}

func TestManager_WatchReloads(t *testing.T) {
	useTempXDG(t)
	path := filepath.Join(t.TempDir(), "careshell.toml")
	require.NoError(t, WriteConfig(DefaultConfig(), path))

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	changed := make(chan *Config, 4)
	mgr.OnConfigChange(func(cfg *Config) { changed <- cfg })
	require.NoError(t, mgr.Watch())
	require.NoError(t, mgr.Watch())

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	require.NoError(t, WriteConfig(cfg, path))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-changed:
			if got.Logging.Level == "debug" {
				assert.Equal(t, "debug", mgr.Get().Logging.Level)
				return
			}
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
}
