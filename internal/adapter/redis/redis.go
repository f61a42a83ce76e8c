// Package redis keeps the vocabulary document as one string value.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

type client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	StrLen(ctx context.Context, key string) *goredis.IntCmd
}

// Backend stores the document under a single key. Backups are written to
// "<key>:backup:<stamp>".
type Backend struct {
	rdb    client
	closer func() error
	addr   string
	key    string
}

// New connects to Redis and pings it.
func New(ctx context.Context, cfg config.RedisConfig) (*Backend, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Backend{rdb: rdb, closer: rdb.Close, addr: addr, key: cfg.Key}, nil
}

func newWithClient(rdb client, addr, key string) *Backend {
	return &Backend{rdb: rdb, closer: func() error { return nil }, addr: addr, key: key}
}

func (b *Backend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.rdb.Get(ctx, b.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return data, nil
}

func (b *Backend) Save(ctx context.Context, data []byte) error {
	if err := b.rdb.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}

func (b *Backend) Backup(ctx context.Context, stamp string) (string, error) {
	data, err := b.Load(ctx)
	if err != nil {
		return "", err
	}

	dst := BackupKey(b.key, stamp)
	if err := b.rdb.Set(ctx, dst, data, 0).Err(); err != nil {
		return "", fmt.Errorf("redis set %s: %w", dst, err)
	}
	return fmt.Sprintf("redis://%s/%s", b.addr, dst), nil
}

func (b *Backend) Location() string {
	return fmt.Sprintf("redis://%s/%s", b.addr, b.key)
}

// Size reports the stored length; a missing key has length zero.
func (b *Backend) Size(ctx context.Context) (int64, error) {
	n, err := b.rdb.StrLen(ctx, b.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis strlen %s: %w", b.key, err)
	}
	return n, nil
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.closer()
}

// BackupKey names the backup copy of key taken at stamp.
func BackupKey(key, stamp string) string {
	return key + ":backup:" + stamp
}
