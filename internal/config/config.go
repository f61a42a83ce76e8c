package config

import (
	"slices"
	"time"
)

// Backend names accepted by store.backend.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendGCS      = "gcs"
	BackendRedis    = "redis"
)

var backends = []string{BackendFile, BackendMemory, BackendPostgres, BackendGCS, BackendRedis}

// Config is the root application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	GCS      GCSConfig      `yaml:"gcs"`
	Redis    RedisConfig    `yaml:"redis"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects where the vocabulary document is persisted.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"file"`
	// Path is the document file for the file backend.
	Path string `yaml:"path" env:"STORE_PATH" env-default:"data/vocabulary.db.json"`
	// CachePath, when set with a remote backend, mirrors the document to a
	// local file that serves reads while the remote is unreachable.
	CachePath string `yaml:"cache_path" env:"STORE_CACHE_PATH"`
}

// IsRemote reports whether the backend lives outside the local filesystem.
func (c StoreConfig) IsRemote() bool {
	return c.Backend == BackendPostgres || c.Backend == BackendGCS || c.Backend == BackendRedis
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// Document names the row that holds the vocabulary document.
	Document string `yaml:"document" env:"DATABASE_DOCUMENT" env-default:"vocabulary"`
}

// GCSConfig holds Google Cloud Storage settings.
type GCSConfig struct {
	Bucket          string `yaml:"bucket"           env:"GCS_BUCKET"`
	Object          string `yaml:"object"           env:"GCS_OBJECT"           env-default:"vocabulary.db.json"`
	CredentialsFile string `yaml:"credentials_file" env:"GCS_CREDENTIALS_FILE"`
	CredentialsJSON string `yaml:"credentials_json" env:"GCS_CREDENTIALS_JSON"`
	// Endpoint points the client at an emulator; credentials are not sent.
	Endpoint string `yaml:"endpoint" env:"GCS_ENDPOINT"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr        string        `yaml:"addr"         env:"REDIS_ADDR"         env-default:"localhost:6379"`
	Password    string        `yaml:"password"     env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db"           env:"REDIS_DB"           env-default:"0"`
	Key         string        `yaml:"key"          env:"REDIS_KEY"          env-default:"hengshui:vocabulary"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// ImportConfig holds the default import options.
type ImportConfig struct {
	BatchSize       int    `yaml:"batch_size"       env:"IMPORT_BATCH_SIZE"       env-default:"100"`
	SkipDuplicates  bool   `yaml:"skip_duplicates"  env:"IMPORT_SKIP_DUPLICATES"  env-default:"true"`
	UpdateExisting  bool   `yaml:"update_existing"  env:"IMPORT_UPDATE_EXISTING"  env-default:"false"`
	DefaultCategory string `yaml:"default_category" env:"IMPORT_DEFAULT_CATEGORY" env-default:"Other"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// IsKnownBackend reports whether name is a supported store backend.
func IsKnownBackend(name string) bool {
	return slices.Contains(backends, name)
}
