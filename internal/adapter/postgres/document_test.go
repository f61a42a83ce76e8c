package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/hengshui-vocab/internal/adapter/postgres"
	"github.com/heartmarshall/hengshui-vocab/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

func TestDocumentBackend_LoadMissing(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	b := postgres.NewDocumentBackend(pool, testhelper.DocumentName())
	ctx := context.Background()

	_, err := b.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNoDocument)

	size, err := b.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)

	_, err = b.Backup(ctx, "2024-03-01T08-00-00-000Z")
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestDocumentBackend_SaveUpserts(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	name := testhelper.DocumentName()
	b := postgres.NewDocumentBackend(pool, name)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte(`{"version":"1.0.0","vocabulary":[]}`)))
	require.NoError(t, b.Save(ctx, []byte(`{"version":"1.0.1","vocabulary":[]}`)))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.1","vocabulary":[]}`, string(got))

	size, err := b.Size(ctx)
	require.NoError(t, err)
	assert.Positive(t, size)
	assert.Equal(t, "postgres:documents/"+name, b.Location())
}

func TestDocumentBackend_SeededRow(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	name := testhelper.DocumentName()
	testhelper.SeedDocument(t, pool, name, []byte(`{"version":"0.9.0"}`))

	got, err := postgres.NewDocumentBackend(pool, name).Load(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"0.9.0"}`, string(got))
}

func TestDocumentBackend_Backup(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	name := testhelper.DocumentName()
	b := postgres.NewDocumentBackend(pool, name)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte(`{"version":"1.0.0"}`)))

	loc, err := b.Backup(ctx, "2024-03-01T08-00-00-000Z")
	require.NoError(t, err)
	assert.Equal(t, "postgres:document_backups/"+name+"@2024-03-01T08-00-00-000Z", loc)

	_, err = b.Backup(ctx, "2024-03-01T08-00-00-000Z")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = b.Backup(ctx, "2024-03-02T08-00-00-000Z")
	require.NoError(t, err)
	assert.Equal(t, 2, testhelper.CountBackups(t, pool, name))

	backups, err := b.Backups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "postgres:document_backups/"+name+"@2024-03-02T08-00-00-000Z", backups[0].Location)
	assert.Positive(t, backups[0].Size)
	assert.False(t, backups[0].CreatedAt.IsZero())

	var _ store.BackupLister = b
}

func TestDocumentBackend_WithStore(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	name := testhelper.DocumentName()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := store.New(postgres.NewDocumentBackend(pool, name), logger)
	_, err := s.BulkInsert(ctx, []domain.VocabularyDraft{
		{Word: "apple", Translation: "苹果", Grade: domain.GradePrimary1, Category: "Fruit", Frequency: 9},
		{Word: "library", Translation: "图书馆", Grade: domain.GradeJunior8, Category: "Place", Frequency: 3},
	})
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	reopened := store.New(postgres.NewDocumentBackend(pool, name), logger)
	index, err := reopened.WordIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"apple": "0100001", "library": "0800001"}, index)
}

func TestMigrate_Idempotent(t *testing.T) {
	testhelper.SetupTestDB(t)

	applied, err := postgres.Migrate(context.Background(), testhelper.DSN())
	require.NoError(t, err)
	assert.Empty(t, applied)
}
