package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRotator(t *testing.T, maxBackups int, compress bool) *LogRotator {
	t.Helper()
	r, err := NewLogRotator(filepath.Join(t.TempDir(), "logs"), "test.log", 1, maxBackups, 0, compress)
	require.NoError(t, err)
	// 1 KiB keeps the test fast.
	r.maxSize = 1024

	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestLogRotator_RotatesAndKeepsBackups(t *testing.T) {
	r := newTestRotator(t, 2, false)
	line := []byte(strings.Repeat("x", 600) + "\n")

	for i := 0; i < 5; i++ {
		n, err := r.Write(line)
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}

	assert.Len(t, r.Backups(), 2)
	info, err := os.Stat(r.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(len(line)), info.Size())
}

func TestLogRotator_Compresses(t *testing.T) {
	r := newTestRotator(t, 0, true)
	line := []byte(strings.Repeat("y", 700) + "\n")

	_, err := r.Write(line)
	require.NoError(t, err)
	_, err = r.Write(line)
	require.NoError(t, err)

	backups := r.Backups()
	require.Len(t, backups, 1)
	assert.True(t, strings.HasSuffix(backups[0], ".gz"))
}

func TestLogRotator_OversizedFirstWrite(t *testing.T) {
	r := newTestRotator(t, 1, false)

	_, err := r.Write([]byte(strings.Repeat("z", 4096)))
	require.NoError(t, err)
	assert.Empty(t, r.Backups())
}

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()
	logger, cleanup, err := NewWithFile(
		Config{Level: zerolog.InfoLevel, Format: "json"},
		FileConfig{Enabled: true, Dir: dir, MaxSizeMB: 1},
	)
	require.NoError(t, err)

	logger.Info().Str("client_id", "a").Msg("workspace mounted")
	logger.Debug().Msg("filtered")
	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"workspace mounted"`)
	assert.NotContains(t, string(data), "filtered")
}

func TestNewWithFile_Disabled(t *testing.T) {
	dir := t.TempDir()
	_, cleanup, err := NewWithFile(DefaultConfig(), FileConfig{Dir: dir})
	require.NoError(t, err)
	cleanup()

	_, err = os.Stat(filepath.Join(dir, LogFileName))
	assert.True(t, os.IsNotExist(err))
}
