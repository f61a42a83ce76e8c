package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/service/importer"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		Store: config.StoreConfig{
			Backend: backend,
			Path:    filepath.Join(t.TempDir(), "data", "vocabulary.db.json"),
		},
		Import: config.ImportConfig{
			BatchSize:       100,
			SkipDuplicates:  true,
			DefaultCategory: "Other",
		},
		Log: config.LogConfig{Level: "debug", Format: "text"},
	}
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "debug"})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t, config.BackendFile)

		b, release, err := NewBackend(context.Background(), cfg, logger)
		require.NoError(t, err)
		defer release()
		assert.Equal(t, filepath.Clean(cfg.Store.Path), b.Location())
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		b, release, err := NewBackend(context.Background(), testConfig(t, config.BackendMemory), logger)
		require.NoError(t, err)
		defer release()
		assert.IsType(t, &store.MemoryBackend{}, b)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewBackend(context.Background(), testConfig(t, "ftp"), logger)
		assert.ErrorContains(t, err, `unknown store backend "ftp"`)
	})

	t.Run("postgres bad dsn", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t, config.BackendPostgres)
		cfg.Database.DSN = "::not a dsn::"

		_, _, err := NewBackend(context.Background(), cfg, logger)
		assert.ErrorContains(t, err, "parse database DSN")
	})
}

func TestNew_ImportAndQuery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info"})
	cfg := testConfig(t, config.BackendFile)
	ctx := context.Background()

	a, err := New(ctx, cfg, logger)
	require.NoError(t, err)

	csv := strings.Join([]string{
		"word,phonetic,translation,grade,category,difficulty,frequency,partOfSpeech",
		"apple,/ˈæpl/,苹果,primary1,Fruit,easy,9,noun",
		"library,/ˈlaɪbrəri/,图书馆,grade8,Place,medium,3,noun",
	}, "\n")

	res, err := a.Importer.ImportFile(ctx, importer.Input{
		FileName: "words.csv",
		Content:  csv,
		Options:  a.Importer.DefaultOptions(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Equal(t, 2, res.SuccessfulImports)

	byGrade, err := a.Vocabulary.ByGrade(ctx, domain.GradeJunior8)
	require.NoError(t, err)
	require.Len(t, byGrade, 1)
	assert.Equal(t, "0800001", byGrade[0].ID)

	require.NoError(t, a.Close(ctx))

	_, err = os.Stat(cfg.Store.Path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "store ready")
}
