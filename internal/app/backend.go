package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/hengshui-vocab/internal/adapter/filestore"
	"github.com/heartmarshall/hengshui-vocab/internal/adapter/gcs"
	"github.com/heartmarshall/hengshui-vocab/internal/adapter/postgres"
	"github.com/heartmarshall/hengshui-vocab/internal/adapter/redis"
	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

// NewBackend builds the document backend selected by cfg.Store.Backend. A
// remote backend with a cache path is wrapped in a store.CachedBackend. The
// returned release function frees connections and is never nil.
func NewBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Backend, func(), error) {
	var (
		backend store.Backend
		release = func() {}
	)

	switch cfg.Store.Backend {
	case config.BackendFile:
		backend = filestore.New(cfg.Store.Path)

	case config.BackendMemory:
		backend = store.NewMemoryBackend(nil)

	case config.BackendPostgres:
		b, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		backend = b
		release = closeLogged(logger, "postgres", b.Close)

	case config.BackendGCS:
		b, err := gcs.New(ctx, cfg.GCS)
		if err != nil {
			return nil, nil, err
		}
		backend = b
		release = closeLogged(logger, "gcs", b.Close)

	case config.BackendRedis:
		b, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		backend = b
		release = closeLogged(logger, "redis", b.Close)

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.IsRemote() && cfg.Store.CachePath != "" {
		backend = store.NewCachedBackend(backend, filestore.New(cfg.Store.CachePath), logger)
	}

	logger.Debug("document backend ready",
		slog.String("backend", cfg.Store.Backend),
		slog.String("location", backend.Location()))

	return backend, release, nil
}

func closeLogged(logger *slog.Logger, name string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Warn("close backend client", slog.String("backend", name), slog.String("error", err.Error()))
		}
	}
}
