package vocabulary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entry(word string, grade domain.Grade, freq int, category string) domain.VocabularyDraft {
	return domain.VocabularyDraft{
		Word: word, Translation: "译:" + word, Grade: grade, Frequency: freq, Category: category,
		Difficulty: domain.DifficultyMedium, PartOfSpeech: domain.PartOfSpeechNoun, MasteryLevel: 1,
	}
}

func newTestService(t *testing.T) (*Service, *store.MemoryBackend) {
	t.Helper()
	backend := store.NewMemoryBackend(nil)
	st := store.New(backend, discardLogger())
	require.NoError(t, st.Initialize(context.Background()))
	svc := NewService(discardLogger(), st)

	oxford := entry("orange", domain.GradePrimary3, 7, "Fruit")
	oxford.TextbookVersion = domain.TextbookOxford
	_, err := svc.BulkAdd(context.Background(), []domain.VocabularyDraft{
		entry("apple", domain.GradePrimary1, 9, "Fruit"),
		entry("red", domain.GradePrimary1, 8, "Color"),
		oxford,
		entry("library", domain.GradeJunior8, 3, "Place"),
		entry("the", domain.GradePrimary1, 10, "Other"),
	})
	require.NoError(t, err)
	return svc, backend
}

func words(entries []domain.VocabularyEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}

func TestQueries(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "red", "orange", "library", "the"}, words(all))

	byGrade, err := svc.ByGrade(ctx, domain.GradePrimary1)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "red", "the"}, words(byGrade))

	_, err = svc.ByGrade(ctx, "grade10")
	assert.ErrorIs(t, err, domain.ErrValidation)

	byCategory, err := svc.ByCategory(ctx, "Fruit")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "orange"}, words(byCategory))

	byBook, err := svc.ByTextbook(ctx, domain.TextbookOxford)
	require.NoError(t, err)
	assert.Equal(t, []string{"orange"}, words(byBook))

	_, err = svc.ByTextbook(ctx, "Longman")
	assert.ErrorIs(t, err, domain.ErrValidation)

	found, err := svc.Search(ctx, "译:LIB")
	require.NoError(t, err)
	assert.Equal(t, []string{"library"}, words(found))

	e, err := svc.ByID(ctx, "0800001")
	require.NoError(t, err)
	assert.Equal(t, "library", e.Word)

	_, err = svc.ByID(ctx, "0900001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	page, err := svc.Query(ctx, domain.VocabularyFilter{SortBy: domain.SortByWord, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "library"}, words(page))
}

func TestGroupedByGrade(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	grouped, err := svc.GroupedByGrade(context.Background())
	require.NoError(t, err)

	assert.Len(t, grouped, 9)
	assert.Equal(t, []string{"apple", "red", "the"}, words(grouped[domain.GradePrimary1]))
	assert.Equal(t, []string{"library"}, words(grouped[domain.GradeJunior8]))
	assert.NotNil(t, grouped[domain.GradeJunior9])
	assert.Empty(t, grouped[domain.GradeJunior9])
}

func TestHighFrequency(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		min      int
		limit    int
		expected []string
	}{
		{"default threshold", 0, 0, []string{"the", "apple", "red"}},
		{"custom threshold", 7, 0, []string{"the", "apple", "red", "orange"}},
		{"limited", 0, 2, []string{"the", "apple"}},
		{"limit above matches", 9, 10, []string{"the", "apple"}},
	}
	for _, tt := range tests {
		got, err := svc.HighFrequency(ctx, tt.min, tt.limit)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.expected, words(got), tt.name)
	}

	_, err := svc.HighFrequency(ctx, 8, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRandom(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.Random(ctx, 2, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)

	grade := domain.GradePrimary1
	got, err = svc.Random(ctx, 10, &grade)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"apple", "red", "the"}, words(got))

	got, err = svc.Random(ctx, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.Random(ctx, -1, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRandom_UsesShuffle(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	svc.shuffle = func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}

	got, err := svc.Random(context.Background(), 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "library", "orange"}, words(got))
}

func TestCategories(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Color", "Fruit", "Other", "Place"}, got)
}

func TestManage(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, entry("hello", domain.GradePrimary1, 5, "Greeting"))
	require.NoError(t, err)
	assert.Equal(t, "0100004", added.ID)

	_, err = svc.Add(ctx, entry("bad", "grade12", 5, "Other"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	learned := true
	updated, err := svc.Update(ctx, added.ID, domain.VocabularyPatch{IsLearned: &learned})
	require.NoError(t, err)
	assert.True(t, updated.IsLearned)

	_, err = svc.Update(ctx, "0100099", domain.VocabularyPatch{IsLearned: &learned})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, added.ID, domain.VocabularyPatch{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	ok, err := svc.Delete(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, added.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := svc.Add(ctx, entry("hello", domain.GradePrimary1, 5, "Greeting"))
	require.NoError(t, err)
	assert.Equal(t, "0100005", again.ID, "deleted identifiers are not reissued")
}

func TestStatsBackupInfo(t *testing.T) {
	t.Parallel()

	svc, backend := newTestService(t)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalVocabulary)
	assert.Equal(t, 3, stats.VocabularyByGrade[domain.GradePrimary1])

	loc, err := svc.Backup(ctx)
	require.NoError(t, err)
	_, ok := backend.BackupData(loc)
	assert.True(t, ok)

	backups, err := svc.Backups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, loc, backups[0].Location)

	info, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", info.Location)
	assert.NotNil(t, info.LastBackup)
	assert.Equal(t, 5, info.Stats.TotalVocabulary)
}

func TestWriteErrorsPropagate(t *testing.T) {
	t.Parallel()

	svc, backend := newTestService(t)
	ctx := context.Background()
	backend.SaveErr = errors.New("no space left on device")

	_, err := svc.Add(ctx, entry("hello", domain.GradePrimary1, 5, "Greeting"))
	var we *store.WriteError
	require.ErrorAs(t, err, &we)

	_, err = svc.Delete(ctx, "0100001")
	require.ErrorAs(t, err, &we)
}

func TestClose(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Close(ctx))

	_, err := svc.All(ctx)
	assert.ErrorIs(t, err, store.ErrClosed)
}
