// Package filestore persists the vocabulary document as a JSON file on the
// local filesystem.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

// Backend reads and writes a single document file. Writes go to a temp file
// in the same directory and are renamed over the target.
type Backend struct {
	path string
}

// New returns a backend for path. The parent directory is created on the
// first write.
func New(path string) *Backend {
	return &Backend{path: filepath.Clean(path)}
}

func (b *Backend) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}
	return data, nil
}

func (b *Backend) Save(_ context.Context, data []byte) error {
	return writeAtomic(b.path, data)
}

// Backup copies the current file to "<path>.backup.<stamp>".
func (b *Backend) Backup(_ context.Context, stamp string) (string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", store.ErrNoDocument
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", b.path, err)
	}

	dst := b.path + ".backup." + stamp
	if err := writeAtomic(dst, data); err != nil {
		return "", err
	}
	return dst, nil
}

func (b *Backend) Location() string { return b.path }

// Backups lists "<path>.backup.*" files, most recently written first.
func (b *Backend) Backups(_ context.Context) ([]store.BackupInfo, error) {
	dir, prefix := filepath.Dir(b.path), filepath.Base(b.path)+".backup."
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []store.BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list backups of %s: %w", b.path, err)
	}

	backups := make([]store.BackupInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || !strings.HasPrefix(name, prefix) || strings.Contains(name, ".tmp-") {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		backups = append(backups, store.BackupInfo{
			Location:  filepath.Join(dir, name),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].CreatedAt.After(backups[j].CreatedAt)
		}
		return backups[i].Location > backups[j].Location
	})
	return backups, nil
}

// Size reports the file size; a missing file has size zero.
func (b *Backend) Size(_ context.Context) (int64, error) {
	info, err := os.Stat(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", b.path, err)
	}
	return info.Size(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
