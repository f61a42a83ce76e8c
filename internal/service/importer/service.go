package importer

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type vocabularyStore interface {
	WordIndex(ctx context.Context) (map[string]string, error)
	BulkInsert(ctx context.Context, drafts []domain.VocabularyDraft) ([]domain.VocabularyEntry, error)
	Insert(ctx context.Context, draft domain.VocabularyDraft) (*domain.VocabularyEntry, error)
	Update(ctx context.Context, id string, patch domain.VocabularyPatch) (*domain.VocabularyEntry, error)
}

type sessionStore interface {
	CreateImportSession(ctx context.Context, fileName string, fileType domain.FileType) (*domain.ImportSession, error)
	StartImportSession(ctx context.Context, id string) error
	CompleteImportSession(ctx context.Context, id string, out domain.ImportOutcome) (*domain.ImportSession, error)
	ImportSessions(ctx context.Context) ([]domain.ImportSession, error)
	ImportSession(ctx context.Context, id string) (*domain.ImportSession, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service imports vocabulary files into the store and keeps the import log.
type Service struct {
	log       *slog.Logger
	vocab     vocabularyStore
	sessions  sessionStore
	validator *Validator
	cfg       config.ImportConfig
}

// NewService creates a new import service.
func NewService(
	logger *slog.Logger,
	vocab vocabularyStore,
	sessions sessionStore,
	cfg config.ImportConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "importer"),
		vocab:     vocab,
		sessions:  sessions,
		validator: NewValidator(cfg.DefaultCategory),
		cfg:       cfg,
	}
}

// DefaultOptions returns the configured import options.
func (s *Service) DefaultOptions() Options {
	return Options{
		SkipDuplicates: s.cfg.SkipDuplicates,
		UpdateExisting: s.cfg.UpdateExisting,
		BatchSize:      s.cfg.BatchSize,
	}
}

// Sessions returns the import log, oldest first.
func (s *Service) Sessions(ctx context.Context) ([]domain.ImportSession, error) {
	return s.sessions.ImportSessions(ctx)
}

// Session returns one import session or domain.ErrNotFound.
func (s *Service) Session(ctx context.Context, id string) (*domain.ImportSession, error) {
	return s.sessions.ImportSession(ctx, id)
}
