package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
)

const applicationName = "hengshui-vocab"

// Open connects to the database in cfg and returns a backend for the
// configured document row. Closing the backend closes its pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DocumentBackend, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewDocumentBackend(pool, cfg.Document), nil
}

// Connect builds a pool from cfg and checks it with a ping, so a wrong DSN
// or unreachable server is reported before any document is read.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	if _, ok := pc.ConnConfig.RuntimeParams["application_name"]; !ok {
		pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", pc.ConnConfig.Host, err)
	}
	return pool, nil
}
