package cache

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"literati/internal/json"
)

// FileStore keeps one JSON file per cached entity under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates the cache directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("cache base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, &IOError{Op: "create dir", Err: err}
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) entryPath(cat Category, key string) string {
	return filepath.Join(s.basePath, entryName(cat, key)+".json")
}

// Put serializes value and replaces any prior file for the key. The write
// goes through a temp file and rename so readers never observe a torn file.
func (s *FileStore) Put(ctx context.Context, cat Category, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return &IOError{Op: "encode", Err: err}
	}
	target := s.entryPath(cat, key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// Get decodes the cached entry into out. A missing file is (false, nil).
func (s *FileStore) Get(ctx context.Context, cat Category, key string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.entryPath(cat, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &IOError{Op: "read", Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &IOError{Op: "decode", Err: err}
	}
	return true, nil
}

// Remove deletes the entry if present; absence is a no-op.
func (s *FileStore) Remove(ctx context.Context, cat Category, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.entryPath(cat, key))
	if err != nil && !os.IsNotExist(err) {
		return &IOError{Op: "remove", Err: err}
	}
	return nil
}

// ClearAll removes and recreates the cache directory.
func (s *FileStore) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.basePath); err != nil {
		return &IOError{Op: "clear", Err: err}
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return &IOError{Op: "clear", Err: err}
	}
	return nil
}

// SizeBytes sums the sizes of all cache entries.
func (s *FileStore) SizeBytes(ctx context.Context) (int64, error) {
	var total int64
	err := s.walkEntries(ctx, func(path string, info fs.FileInfo) error {
		total += info.Size()
		return nil
	})
	return total, err
}

// EntryCount reports how many entries the cache holds.
func (s *FileStore) EntryCount(ctx context.Context) (int, error) {
	count := 0
	err := s.walkEntries(ctx, func(string, fs.FileInfo) error {
		count++
		return nil
	})
	return count, err
}

// SweepOlderThan removes entries older than age. Entries are written whole
// and only ever replaced, so mtime is the entry's effective creation time.
func (s *FileStore) SweepOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	removed := 0
	err := s.walkEntries(ctx, func(path string, info fs.FileInfo) error {
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &IOError{Op: "sweep", Err: err}
		}
		removed++
		return nil
	})
	return removed, err
}

func (s *FileStore) walkEntries(ctx context.Context, fn func(path string, info fs.FileInfo) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
	if err != nil {
		if ioErr, ok := err.(*IOError); ok {
			return ioErr
		}
		return &IOError{Op: "walk", Err: err}
	}
	return nil
}
