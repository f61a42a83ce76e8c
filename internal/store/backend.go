package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrNoDocument is returned by Backend.Load when nothing has been
	// persisted yet.
	ErrNoDocument = errors.New("no persisted document")
	// ErrClosed is returned by every Store method after Close.
	ErrClosed = errors.New("store is closed")
	// ErrCorruptDocument wraps decode failures of a persisted document.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrDegraded wraps writes refused because the persisted document could
	// not be loaded.
	ErrDegraded = errors.New("persisted document unavailable, refusing to overwrite it")
	// ErrBackupsUnsupported is returned when the backend has no BackupLister.
	ErrBackupsUnsupported = errors.New("backend cannot list backups")
)

// WriteError reports that the document could not be persisted. It is always
// propagated to the caller.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// Backend persists the encoded document as a single unit.
type Backend interface {
	// Load returns the persisted document or ErrNoDocument.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the persisted document atomically.
	Save(ctx context.Context, data []byte) error
	// Backup copies the persisted document to a location derived from stamp
	// and returns that location.
	Backup(ctx context.Context, stamp string) (string, error)
	// Location describes where the document lives.
	Location() string
}

// Sizer is implemented by backends that can report the persisted size.
type Sizer interface {
	Size(ctx context.Context) (int64, error)
}

// BackupInfo describes one stored copy of the document.
type BackupInfo struct {
	Location  string    `json:"location"`
	Size      int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// BackupLister is implemented by backends that can enumerate their backups,
// newest first.
type BackupLister interface {
	Backups(ctx context.Context) ([]BackupInfo, error)
}

// CachedBackend reads from a remote backend and mirrors every successful read
// and write into a local cache. When the remote cannot be reached the cache
// serves reads.
type CachedBackend struct {
	remote Backend
	cache  Backend
	log    *slog.Logger
}

// NewCachedBackend wraps remote with a local cache.
func NewCachedBackend(remote, cache Backend, logger *slog.Logger) *CachedBackend {
	return &CachedBackend{
		remote: remote,
		cache:  cache,
		log:    logger.With("service", "cached_backend"),
	}
}

func (b *CachedBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.remote.Load(ctx)
	switch {
	case err == nil:
		if cerr := b.cache.Save(ctx, data); cerr != nil {
			b.log.WarnContext(ctx, "mirror to cache failed",
				slog.String("cache", b.cache.Location()), slog.String("error", cerr.Error()))
		}
		return data, nil
	case errors.Is(err, ErrNoDocument):
		return nil, err
	}

	b.log.WarnContext(ctx, "remote load failed, reading cache",
		slog.String("remote", b.remote.Location()), slog.String("error", err.Error()))
	data, cerr := b.cache.Load(ctx)
	if cerr != nil {
		// An empty cache must not read as a missing remote document.
		return nil, fmt.Errorf("remote: %w; cache: %v", err, cerr)
	}
	return data, nil
}

func (b *CachedBackend) Save(ctx context.Context, data []byte) error {
	if err := b.remote.Save(ctx, data); err != nil {
		return err
	}
	if err := b.cache.Save(ctx, data); err != nil {
		b.log.WarnContext(ctx, "mirror to cache failed",
			slog.String("cache", b.cache.Location()), slog.String("error", err.Error()))
	}
	return nil
}

func (b *CachedBackend) Backup(ctx context.Context, stamp string) (string, error) {
	return b.remote.Backup(ctx, stamp)
}

func (b *CachedBackend) Location() string { return b.remote.Location() }

// Backups lists the remote's backups; the cache never holds any.
func (b *CachedBackend) Backups(ctx context.Context) ([]BackupInfo, error) {
	l, ok := b.remote.(BackupLister)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackupsUnsupported, b.remote.Location())
	}
	return l.Backups(ctx)
}
