package app

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/service/importer"
	"github.com/heartmarshall/hengshui-vocab/internal/service/vocabulary"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

// App holds the wired components for one process.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Store      *store.Store
	Vocabulary *vocabulary.Service
	Importer   *importer.Service

	release func()
}

// New opens the configured backend, loads the document and wires the
// services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...store.Option) (*App, error) {
	backend, release, err := NewBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	st := store.New(backend, logger, opts...)
	if err := st.Initialize(ctx); err != nil {
		release()
		return nil, err
	}

	logger.Info("store ready",
		slog.String("version", BuildVersion()),
		slog.String("location", st.Location()))

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      st,
		Vocabulary: vocabulary.NewService(logger, st),
		Importer:   importer.NewService(logger, st, st, cfg.Import),
		release:    release,
	}, nil
}

// Close flushes the store and releases backend connections.
func (a *App) Close(ctx context.Context) error {
	defer a.release()
	return a.Store.Close(ctx)
}
