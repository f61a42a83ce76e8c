package config

import (
	"fmt"
	"strings"
)

// MaxBatchSize caps import.batch_size.
const MaxBatchSize = 10000

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres backend")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
		}
		if strings.TrimSpace(c.Database.Document) == "" {
			return fmt.Errorf("database.document must not be empty")
		}
	case BackendGCS:
		if c.GCS.Bucket == "" {
			return fmt.Errorf("gcs.bucket is required for the gcs backend")
		}
		if c.GCS.Object == "" {
			return fmt.Errorf("gcs.object must not be empty")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
		if c.Redis.Key == "" {
			return fmt.Errorf("redis.key must not be empty")
		}
	}

	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	return nil
}

func (s *StoreConfig) validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if !IsKnownBackend(s.Backend) {
		return fmt.Errorf("backend must be one of %s (got %q)", strings.Join(backends, ", "), s.Backend)
	}
	if s.Backend == BackendFile && strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("path is required for the file backend")
	}
	return nil
}

func (i *ImportConfig) validate() error {
	if i.BatchSize < 1 || i.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size must be between 1 and %d (got %d)", MaxBatchSize, i.BatchSize)
	}
	if strings.TrimSpace(i.DefaultCategory) == "" {
		return fmt.Errorf("default_category must not be empty")
	}
	return nil
}
