package config

import (
	"github.com/bnema/careshell/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Watch starts watching the config file and reloads it on change.
// Invalid edits are logged and the previous configuration is kept.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log := logging.NewFromEnv()
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("fsnotify config change detected")

		m.mu.Lock()
		if err := m.reload(); err != nil {
			m.mu.Unlock()
			log.Warn().Err(err).Msg("failed to reload config, keeping previous")
			return
		}
		m.notifyCallbacksLocked()
	})
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

// notifyCallbacksLocked releases m.mu before running the callbacks.
func (m *Manager) notifyCallbacksLocked() {
	config := m.config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback(config)
	}
}

// OnConfigChange registers a callback run after every successful reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload must be called with m.mu held for write.
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}
