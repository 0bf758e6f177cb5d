package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogRotator is an io.Writer appending to dir/name that moves the file
// aside once it would exceed maxSize. Backups beyond maxBackups or older
// than maxAge are removed on rotation.
type LogRotator struct {
	mu          sync.Mutex
	baseDir     string
	baseName    string
	maxSize     int64 // bytes, 0 disables rotation
	maxAge      time.Duration
	maxBackups  int
	compress    bool
	currentFile *os.File
	currentSize int64
	now         func() time.Time
}

// NewLogRotator opens dir/name for appending, creating dir if needed.
func NewLogRotator(dir, name string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) (*LogRotator, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	r := &LogRotator{
		baseDir:    dir,
		baseName:   name,
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
		maxAge:     time.Duration(maxAgeDays) * 24 * time.Hour,
		maxBackups: maxBackups,
		compress:   compress,
		now:        time.Now,
	}

	if err := r.openCurrentFile(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the path of the live log file.
func (r *LogRotator) Path() string {
	return filepath.Join(r.baseDir, r.baseName)
}

func (r *LogRotator) openCurrentFile() error {
	if info, err := os.Stat(r.Path()); err == nil {
		r.currentSize = info.Size()
	}

	file, err := os.OpenFile(r.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.currentFile = file
	return nil
}

func (r *LogRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentFile == nil {
		if err := r.openCurrentFile(); err != nil {
			return 0, err
		}
	}

	if r.maxSize > 0 && r.currentSize > 0 && r.currentSize+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.currentFile.Write(p)
	r.currentSize += int64(n)
	return n, err
}

func (r *LogRotator) rotate() error {
	if err := r.currentFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
	}
	r.currentFile = nil

	backupPath := filepath.Join(r.baseDir, fmt.Sprintf("%s.%s", r.baseName, r.now().Format("2006-01-02-15-04-05.000")))
	if err := os.Rename(r.Path(), backupPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	if r.compress {
		if err := compressFile(backupPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to compress log file %s: %v\n", backupPath, err)
		} else if err := os.Remove(backupPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove uncompressed log file %s: %v\n", backupPath, err)
		}
	}

	r.cleanup()

	r.currentSize = 0
	return r.openCurrentFile()
}

func compressFile(path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	gz := gzip.NewWriter(out)
	if _, err = io.Copy(gz, in); err != nil {
		return err
	}
	return gz.Close()
}

// Backups lists rotated files, oldest first.
func (r *LogRotator) Backups() []string {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil
	}

	type backup struct {
		name    string
		modTime time.Time
	}
	var backups []backup
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), r.baseName+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{name: entry.Name(), modTime: info.ModTime()})
	}
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].modTime.Equal(backups[j].modTime) {
			return backups[i].name < backups[j].name
		}
		return backups[i].modTime.Before(backups[j].modTime)
	})

	names := make([]string, 0, len(backups))
	for _, b := range backups {
		names = append(names, b.name)
	}
	return names
}

func (r *LogRotator) cleanup() {
	now := r.now()
	var kept []string
	for _, name := range r.Backups() {
		path := filepath.Join(r.baseDir, name)
		if r.maxAge > 0 {
			if info, err := os.Stat(path); err == nil && now.Sub(info.ModTime()) > r.maxAge {
				if err := os.Remove(path); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to remove old log file: %v\n", err)
				}
				continue
			}
		}
		kept = append(kept, name)
	}

	if r.maxBackups > 0 && len(kept) > r.maxBackups {
		for _, name := range kept[:len(kept)-r.maxBackups] {
			if err := os.Remove(filepath.Join(r.baseDir, name)); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to remove excess backup file: %v\n", err)
			}
		}
	}
}

// Close closes the live log file.
func (r *LogRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentFile == nil {
		return nil
	}
	err := r.currentFile.Close()
	r.currentFile = nil
	return err
}
