package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/careshell/tabs.sqlite"
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "memory needs no path", mutate: func(c *Config) {
			c.Storage.Backend = StorageMemory
			c.Storage.Path = ""
		}},
		{name: "bad addr", mutate: func(c *Config) { c.Server.Addr = "8420" }, wantErr: "server.addr"},
		{name: "empty cookie", mutate: func(c *Config) { c.Server.CookieName = " " }, wantErr: "server.cookie_name"},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: "storage.backend"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.Path = "" }, wantErr: "storage.path"},
		{name: "empty prefix", mutate: func(c *Config) { c.Storage.KeyPrefix = "" }, wantErr: "storage.key_prefix"},
		{name: "relative namespace", mutate: func(c *Config) { c.Workspace.Namespaces = []string{"care"} }, wantErr: "workspace.namespaces"},
		{name: "root namespace", mutate: func(c *Config) { c.Workspace.Namespaces = []string{"/"} }, wantErr: "workspace.namespaces"},
		{name: "relative base path", mutate: func(c *Config) { c.Workspace.DefaultBasePath = "home" }, wantErr: "workspace.default_base_path"},
		{name: "idle timeout disabled", mutate: func(c *Config) { c.Workspace.IdleTimeout = 0 }},
		{name: "negative idle timeout", mutate: func(c *Config) { c.Workspace.IdleTimeout = -time.Second }, wantErr: "workspace.idle_timeout"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "log file ignored when disabled", mutate: func(c *Config) { c.Logging.File.MaxSizeMB = 0 }},
		{name: "log file without dir", mutate: func(c *Config) { c.Logging.File.Enabled = true }, wantErr: "logging.file.dir"},
		{name: "log file without size", mutate: func(c *Config) {
			c.Logging.File = LogFileConfig{Enabled: true, Dir: "/var/log/careshell"}
		}, wantErr: "logging.file.max_size_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Addr = ""
	cfg.Logging.Format = "xml"

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestSchema_UsesFileKeys(t *testing.T) {
	schema := Schema()
	require.NotNil(t, schema)
	assert.Equal(t, "careshell configuration", schema.Title)
}
