package store

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

// CreateImportSession records a new pending import.
func (s *Store) CreateImportSession(ctx context.Context, fileName string, fileType domain.FileType) (*domain.ImportSession, error) {
	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created domain.ImportSession
	err = s.mutate(ctx, func(doc *domain.Document, now time.Time) error {
		created = domain.ImportSession{
			ID:        s.newID(),
			FileName:  fileName,
			FileType:  fileType,
			Errors:    []domain.ImportError{},
			Status:    domain.ImportStatusPending,
			CreatedAt: now,
		}
		doc.ImportSessions = append(doc.ImportSessions, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// StartImportSession moves a pending session to processing.
func (s *Store) StartImportSession(ctx context.Context, id string) error {
	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return s.transitionSession(ctx, id, domain.ImportStatusProcessing, func(*domain.ImportSession, time.Time) {})
}

// CompleteImportSession writes the final counters and moves the session to a
// terminal state. Terminal sessions are immutable.
func (s *Store) CompleteImportSession(ctx context.Context, id string, out domain.ImportOutcome) (*domain.ImportSession, error) {
	if !out.Status.IsTerminal() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("%q is not a terminal status", out.Status))
	}

	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var done domain.ImportSession
	err = s.transitionSession(ctx, id, out.Status, func(sess *domain.ImportSession, now time.Time) {
		sess.TotalRecords = out.TotalRecords
		sess.SuccessfulImports = out.SuccessfulImports
		sess.FailedImports = out.FailedImports
		sess.SkippedDuplicates = out.SkippedDuplicates
		sess.UpdatedExisting = out.UpdatedExisting
		sess.Errors = append([]domain.ImportError{}, out.Errors...)
		sess.CompletedAt = &now
		done = cloneSession(*sess)
	})
	if err != nil {
		return nil, err
	}
	return &done, nil
}

// transitionSession validates and applies a status change. The caller holds
// the lock.
func (s *Store) transitionSession(ctx context.Context, id string, next domain.ImportStatus,
	apply func(sess *domain.ImportSession, now time.Time)) error {
	idx := -1
	for i := range s.doc.ImportSessions {
		if s.doc.ImportSessions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("import session %s: %w", id, domain.ErrNotFound)
	}
	if cur := s.doc.ImportSessions[idx].Status; !cur.CanTransitionTo(next) {
		return fmt.Errorf("import session %s: %s -> %s: %w", id, cur, next, domain.ErrConflict)
	}

	return s.mutate(ctx, func(doc *domain.Document, now time.Time) error {
		sess := &doc.ImportSessions[idx]
		sess.Status = next
		apply(sess, now)
		return nil
	})
}

// ImportSessions returns every session, oldest first.
func (s *Store) ImportSessions(ctx context.Context) ([]domain.ImportSession, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make([]domain.ImportSession, len(s.doc.ImportSessions))
	for i, sess := range s.doc.ImportSessions {
		out[i] = cloneSession(sess)
	}
	return out, nil
}

// ImportSession returns the session with id or domain.ErrNotFound.
func (s *Store) ImportSession(ctx context.Context, id string) (*domain.ImportSession, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, sess := range s.doc.ImportSessions {
		if sess.ID == id {
			c := cloneSession(sess)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}
