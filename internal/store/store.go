// Package store owns the vocabulary document: it loads it once, keeps it in
// memory and writes the whole document back through a Backend after every
// mutation.
//
// Every exported method is serialized by a single mutex. A mutation is applied
// to a copy of the document and only becomes visible once the save succeeds,
// so a failed write never leaves memory and storage out of step.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/vocabid"
)

var backupStampReplacer = strings.NewReplacer(":", "-", ".", "-")

// Store is the single reader and writer of the persisted document.
type Store struct {
	log     *slog.Logger
	backend Backend
	now     func() time.Time
	newID   func() string

	mu          sync.Mutex
	doc         *domain.Document
	degraded    error
	initialized bool
	closed      bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how session, category and progress IDs are made.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store over backend. Call Initialize before use; methods also
// initialize lazily on first call.
func New(backend Backend, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		log:     logger.With("service", "store"),
		backend: backend,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the persisted document. It is idempotent. A missing
// document is created and saved; an unreadable or corrupt one is logged and
// replaced in memory by an empty document without failing. Only a failure to
// save the freshly created document is returned.
//
// While the persisted document could not be read, or a corrupt one could not
// be copied aside, the store is degraded: reads see the empty document and
// writes fail with a *WriteError until a retried load succeeds, so the
// stored data and its issued identifiers are never overwritten.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *Store) initLocked(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if s.initialized {
		return nil
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// load replaces s.doc with the persisted document and sets s.degraded.
func (s *Store) load(ctx context.Context) error {
	data, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNoDocument):
		doc := domain.NewDocument(s.now())
		if err := s.save(ctx, doc); err != nil {
			return err
		}
		s.doc, s.degraded = doc, nil
		s.log.InfoContext(ctx, "created new document", slog.String("location", s.backend.Location()))

	case err != nil:
		s.log.WarnContext(ctx, "load document failed, starting empty and read-only",
			slog.String("location", s.backend.Location()), slog.String("error", err.Error()))
		s.doc, s.degraded = domain.NewDocument(s.now()), fmt.Errorf("load %s: %w", s.backend.Location(), err)

	default:
		doc, derr := decodeDocument(data)
		if derr == nil {
			s.log.InfoContext(ctx, "loaded document",
				slog.String("location", s.backend.Location()),
				slog.Int("vocabulary", len(doc.Vocabulary)))
			s.doc, s.degraded = doc, nil
			return nil
		}
		s.log.WarnContext(ctx, "document is corrupt, starting empty",
			slog.String("location", s.backend.Location()), slog.String("error", derr.Error()))
		s.doc, s.degraded = domain.NewDocument(s.now()), nil
		if perr := s.preserveCorrupt(ctx); perr != nil {
			s.degraded = fmt.Errorf("%w (copy aside failed: %v)", derr, perr)
		}
	}
	return nil
}

// preserveCorrupt copies an undecodable document aside before the next save
// overwrites it.
func (s *Store) preserveCorrupt(ctx context.Context) error {
	loc, err := s.backend.Backup(ctx, "corrupt-"+s.stamp())
	if err != nil {
		s.log.WarnContext(ctx, "copy corrupt document failed", slog.String("error", err.Error()))
		return err
	}
	s.log.WarnContext(ctx, "corrupt document preserved", slog.String("backup", loc))
	return nil
}

// Close flushes the document and releases the store. Later calls fail with
// ErrClosed.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	var err error
	if s.initialized && s.degraded == nil {
		err = s.save(ctx, s.doc)
	}
	s.closed = true
	s.initialized = false
	return err
}

// Location describes where the backend keeps the document.
func (s *Store) Location() string { return s.backend.Location() }

// begin acquires the lock and makes sure the document is loaded. The caller
// must call the returned unlock.
func (s *Store) begin(ctx context.Context) (unlock func(), err error) {
	s.mu.Lock()
	if err := s.initLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return s.mu.Unlock, nil
}

// beginWrite is begin for methods that persist. A degraded store retries the
// load first and refuses the write while the document is still unavailable.
func (s *Store) beginWrite(ctx context.Context) (unlock func(), err error) {
	unlock, err = s.begin(ctx)
	if err != nil || s.degraded == nil {
		return unlock, err
	}
	if err := s.load(ctx); err != nil {
		unlock()
		return nil, err
	}
	if s.degraded != nil {
		werr := &WriteError{Op: "save", Err: fmt.Errorf("%w: %w", ErrDegraded, s.degraded)}
		unlock()
		return nil, werr
	}
	s.log.InfoContext(ctx, "document recovered", slog.String("location", s.backend.Location()))
	return unlock, nil
}

// mutate applies fn to a copy of the document, persists the copy and then
// installs it. fn errors and save errors leave the current document intact.
// The caller holds the lock.
func (s *Store) mutate(ctx context.Context, fn func(doc *domain.Document, now time.Time) error) error {
	next := cloneDocument(s.doc)
	now := s.now()
	if err := fn(next, now); err != nil {
		return err
	}
	next.Stats.LastUpdated = now
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// save recomputes stats and writes doc through the backend.
func (s *Store) save(ctx context.Context, doc *domain.Document) error {
	doc.Stats = computeStats(doc)
	data, err := encodeDocument(doc)
	if err != nil {
		return &WriteError{Op: "encode", Err: err}
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return &WriteError{Op: "save", Err: err}
	}
	return nil
}

func (s *Store) stamp() string {
	return backupStampReplacer.Replace(s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

// ---------------------------------------------------------------------------
// Vocabulary
// ---------------------------------------------------------------------------

// Insert stores one draft under a freshly allocated identifier.
func (s *Store) Insert(ctx context.Context, draft domain.VocabularyDraft) (*domain.VocabularyEntry, error) {
	entries, err := s.BulkInsert(ctx, []domain.VocabularyDraft{draft})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// BulkInsert stores all drafts with a single save. Identifiers are allocated
// against the existing entries, the persisted high-water marks and the
// identifiers already issued in this call. Any invalid draft rejects the
// whole call.
func (s *Store) BulkInsert(ctx context.Context, drafts []domain.VocabularyDraft) ([]domain.VocabularyEntry, error) {
	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if len(drafts) == 0 {
		return nil, nil
	}

	var created []domain.VocabularyEntry
	err = s.mutate(ctx, func(doc *domain.Document, now time.Time) error {
		ids := make([]string, len(doc.Vocabulary))
		for i, e := range doc.Vocabulary {
			ids[i] = e.ID
		}
		alloc := vocabid.NewAllocator(ids, doc.IDHighWater)

		created = make([]domain.VocabularyEntry, 0, len(drafts))
		for i, d := range drafts {
			id, err := alloc.Next(d.Grade)
			if err != nil {
				return fmt.Errorf("draft %d (%q): %w", i, d.Word, err)
			}
			if err := d.Validate(); err != nil {
				return fmt.Errorf("draft %d (%q): %w", i, d.Word, err)
			}
			e := cloneEntry(domain.VocabularyEntry{ID: id, VocabularyDraft: d, CreatedAt: now, UpdatedAt: now})
			doc.Vocabulary = append(doc.Vocabulary, e)
			created = append(created, cloneEntry(e))
		}
		doc.IDHighWater = alloc.HighWater()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges patch onto the entry with id. It returns nil, nil when no
// such entry exists. A grade outside the identifier's partition is a
// domain.ErrConflict.
func (s *Store) Update(ctx context.Context, id string, patch domain.VocabularyPatch) (*domain.VocabularyEntry, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	if patch.Grade != nil {
		if err := vocabid.CheckPartition(id, *patch.Grade); err != nil {
			return nil, err
		}
	}

	var updated domain.VocabularyEntry
	err = s.mutate(ctx, func(doc *domain.Document, now time.Time) error {
		e := &doc.Vocabulary[idx]
		patch.Apply(e)
		e.UpdatedAt = now
		updated = cloneEntry(*e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the entry with id. The identifier is never reissued.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	err = s.mutate(ctx, func(doc *domain.Document, _ time.Time) error {
		if p, perr := vocabid.ParseID(id); perr == nil && p.Sequence > doc.IDHighWater[p.GradeCode] {
			doc.IDHighWater[p.GradeCode] = p.Sequence
		}
		doc.Vocabulary = append(doc.Vocabulary[:idx], doc.Vocabulary[idx+1:]...)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get returns the entry with id or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*domain.VocabularyEntry, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	e := cloneEntry(s.doc.Vocabulary[idx])
	return &e, nil
}

// WordIndex maps every stored word, normalized for comparison, to the
// identifier of its first entry.
func (s *Store) WordIndex(ctx context.Context) (map[string]string, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	index := make(map[string]string, len(s.doc.Vocabulary))
	for _, e := range s.doc.Vocabulary {
		key := domain.WordKey(e.Word)
		if _, ok := index[key]; !ok {
			index[key] = e.ID
		}
	}
	return index, nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.doc.Vocabulary {
		if s.doc.Vocabulary[i].ID == id {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// Stats, backup, info
// ---------------------------------------------------------------------------

// Stats recomputes aggregate counts from the current document.
func (s *Store) Stats(ctx context.Context) (domain.DatabaseStats, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return domain.DatabaseStats{}, err
	}
	defer unlock()
	return computeStats(s.doc), nil
}

// Backup copies the persisted document to a timestamped location, records
// the time on the document and saves it again. It returns the copy's
// location.
func (s *Store) Backup(ctx context.Context) (string, error) {
	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	loc, err := s.backend.Backup(ctx, s.stamp())
	if err != nil {
		return "", fmt.Errorf("backup document: %w", err)
	}
	err = s.mutate(ctx, func(doc *domain.Document, now time.Time) error {
		doc.LastBackup = &now
		return nil
	})
	if err != nil {
		return "", err
	}
	s.log.InfoContext(ctx, "backup created", slog.String("backup", loc))
	return loc, nil
}

// Backups lists the backend's stored backups, newest first. Backends without
// a BackupLister fail with ErrBackupsUnsupported.
func (s *Store) Backups(ctx context.Context) ([]BackupInfo, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	l, ok := s.backend.(BackupLister)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackupsUnsupported, s.backend.Location())
	}
	backups, err := l.Backups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return backups, nil
}

// Info describes the store.
type Info struct {
	Location string
	// Size is the persisted size in bytes, or -1 when the backend cannot
	// report it.
	Size       int64
	Version    string
	LastBackup *time.Time
	Stats      domain.DatabaseStats
}

// Info reports location, size and stats.
func (s *Store) Info(ctx context.Context) (Info, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return Info{}, err
	}
	defer unlock()

	info := Info{
		Location: s.backend.Location(),
		Size:     -1,
		Version:  s.doc.Version,
		Stats:    computeStats(s.doc),
	}
	if s.doc.LastBackup != nil {
		t := *s.doc.LastBackup
		info.LastBackup = &t
	}
	if sz, ok := s.backend.(Sizer); ok {
		n, err := sz.Size(ctx)
		if err != nil {
			return Info{}, fmt.Errorf("document size: %w", err)
		}
		info.Size = n
	}
	return info, nil
}
