// Package file provides a key/value store kept in a single YAML file,
// safe for use by several processes at once.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bnema/careshell/internal/application/port"
	"github.com/bnema/careshell/internal/logging"
	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// ErrLockTimeout is returned when the store's lock cannot be acquired in time.
var ErrLockTimeout = errors.New("timeout acquiring store lock")

const (
	defaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 50 * time.Millisecond
	dirPerm            = 0o750
	filePerm           = 0o600
)

// Store keeps every key in one file. Reads take a shared lock on a
// sibling lock file, writes an exclusive one, and files are replaced
// through a temp file and rename.
type Store struct {
	path        string
	lockTimeout time.Duration
}

var _ port.KeyValueStore = (*Store)(nil)

// NewStore creates a store backed by path. The file is created on the
// first write.
func NewStore(path string) *Store {
	return &Store{path: path, lockTimeout: defaultLockTimeout}
}

// WithLockTimeout overrides the lock wait.
func (s *Store) WithLockTimeout(timeout time.Duration) *Store {
	s.lockTimeout = timeout
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.withLock(ctx, false, func() error {
		values, err := s.readLocked()
		if err != nil {
			return err
		}
		value, found = values[key]
		return nil
	})
	return value, found, err
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.update(ctx, func(values map[string]string) bool {
		if current, ok := values[key]; ok && current == value {
			return false
		}
		values[key] = value
		return true
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.update(ctx, func(values map[string]string) bool {
		if _, ok := values[key]; !ok {
			return false
		}
		delete(values, key)
		return true
	})
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.withLock(ctx, false, func() error {
		values, err := s.readLocked()
		if err != nil {
			return err
		}
		keys = make([]string, 0, len(values))
		for k := range values {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		return nil
	})
	return keys, err
}

// update runs mutate on the current contents under the exclusive lock and
// writes the result back when mutate reports a change.
func (s *Store) update(ctx context.Context, mutate func(map[string]string) bool) error {
	return s.withLock(ctx, true, func() error {
		values, err := s.readLocked()
		if err != nil {
			return err
		}
		if !mutate(values) {
			return nil
		}
		return s.writeLocked(ctx, values)
	})
}

func (s *Store) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	if s.path == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = lock.TryLockContext(lockCtx, lockRetryDelay)
	} else {
		locked, err = lock.TryRLockContext(lockCtx, lockRetryDelay)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return fmt.Errorf("failed to acquire store lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

func (s *Store) readLocked() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

func (s *Store) writeLocked(ctx context.Context, values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set store permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace store: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Int("keys", len(values)).
		Msg("store written")
	return nil
}
