package vocabulary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

// Add stores one new entry.
func (s *Service) Add(ctx context.Context, draft domain.VocabularyDraft) (*domain.VocabularyEntry, error) {
	e, err := s.store.Insert(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("add vocabulary: %w", err)
	}
	s.log.InfoContext(ctx, "vocabulary added", slog.String("id", e.ID), slog.String("word", e.Word))
	return e, nil
}

// BulkAdd stores all drafts in one write. Any invalid draft rejects the call.
func (s *Service) BulkAdd(ctx context.Context, drafts []domain.VocabularyDraft) ([]domain.VocabularyEntry, error) {
	entries, err := s.store.BulkInsert(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("bulk add vocabulary: %w", err)
	}
	s.log.InfoContext(ctx, "vocabulary bulk added", slog.Int("count", len(entries)))
	return entries, nil
}

// Update merges patch onto an entry. A missing entry is reported as
// domain.ErrNotFound.
func (s *Service) Update(ctx context.Context, id string, patch domain.VocabularyPatch) (*domain.VocabularyEntry, error) {
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("patch", "nothing to update")
	}
	e, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update vocabulary %s: %w", id, err)
	}
	if e == nil {
		return nil, fmt.Errorf("vocabulary %s: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// Delete removes an entry and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete vocabulary %s: %w", id, err)
	}
	if ok {
		s.log.InfoContext(ctx, "vocabulary deleted", slog.String("id", id))
	}
	return ok, nil
}

// Stats returns aggregate counts.
func (s *Service) Stats(ctx context.Context) (domain.DatabaseStats, error) {
	return s.store.Stats(ctx)
}

// Backup makes a point-in-time copy of the document and returns where it
// went.
func (s *Service) Backup(ctx context.Context) (string, error) {
	return s.store.Backup(ctx)
}

// Backups lists earlier backups, newest first.
func (s *Service) Backups(ctx context.Context) ([]store.BackupInfo, error) {
	return s.store.Backups(ctx)
}

// Info describes the underlying store.
func (s *Service) Info(ctx context.Context) (store.Info, error) {
	return s.store.Info(ctx)
}
