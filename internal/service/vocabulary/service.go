// Package vocabulary is the read-mostly façade that worksheet and CLI callers
// use to reach the vocabulary store.
package vocabulary

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

type vocabularyStore interface {
	Query(ctx context.Context, filter domain.VocabularyFilter) ([]domain.VocabularyEntry, error)
	Get(ctx context.Context, id string) (*domain.VocabularyEntry, error)
	Insert(ctx context.Context, draft domain.VocabularyDraft) (*domain.VocabularyEntry, error)
	BulkInsert(ctx context.Context, drafts []domain.VocabularyDraft) ([]domain.VocabularyEntry, error)
	Update(ctx context.Context, id string, patch domain.VocabularyPatch) (*domain.VocabularyEntry, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (domain.DatabaseStats, error)
	Backup(ctx context.Context) (string, error)
	Backups(ctx context.Context) ([]store.BackupInfo, error)
	Info(ctx context.Context) (store.Info, error)
	Close(ctx context.Context) error
}

// Service exposes vocabulary queries and edits.
type Service struct {
	log     *slog.Logger
	store   vocabularyStore
	shuffle func(n int, swap func(i, j int))
}

// NewService creates a new vocabulary service.
func NewService(logger *slog.Logger, st vocabularyStore) *Service {
	return &Service{
		log:     logger.With("service", "vocabulary"),
		store:   st,
		shuffle: rand.Shuffle,
	}
}

// Close flushes and closes the underlying store.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}
