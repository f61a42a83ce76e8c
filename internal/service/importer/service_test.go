package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/hengshui-vocab/internal/config"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

// ===========================================================================
// Helpers
// ===========================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.ImportConfig {
	return config.ImportConfig{BatchSize: 100, SkipDuplicates: true, DefaultCategory: "Other"}
}

func newTestService(t *testing.T) (*Service, *store.Store, *store.MemoryBackend) {
	t.Helper()
	backend := store.NewMemoryBackend(nil)
	st := store.New(backend, discardLogger())
	require.NoError(t, st.Initialize(context.Background()))
	return NewService(discardLogger(), st, st, testConfig()), st, backend
}

func storedWords(t *testing.T, st *store.Store) []string {
	t.Helper()
	all, err := st.Vocabulary(context.Background())
	require.NoError(t, err)
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.Word
	}
	return out
}

func sessionOf(t *testing.T, svc *Service, id string) *domain.ImportSession {
	t.Helper()
	sess, err := svc.Session(context.Background(), id)
	require.NoError(t, err)
	return sess
}

func jsonRecords(words ...string) string {
	items := make([]string, len(words))
	for i, w := range words {
		items[i] = fmt.Sprintf(`{"word": %q, "translation": "译", "grade": "primary1"}`, w)
	}
	return "[" + strings.Join(items, ",") + "]"
}

// ===========================================================================
// Manual mocks (func fields)
// ===========================================================================

type mockVocabularyStore struct {
	WordIndexFunc  func(ctx context.Context) (map[string]string, error)
	BulkInsertFunc func(ctx context.Context, drafts []domain.VocabularyDraft) ([]domain.VocabularyEntry, error)
	InsertFunc     func(ctx context.Context, draft domain.VocabularyDraft) (*domain.VocabularyEntry, error)
	UpdateFunc     func(ctx context.Context, id string, patch domain.VocabularyPatch) (*domain.VocabularyEntry, error)
}

func (m *mockVocabularyStore) WordIndex(ctx context.Context) (map[string]string, error) {
	if m.WordIndexFunc != nil {
		return m.WordIndexFunc(ctx)
	}
	return map[string]string{}, nil
}

func (m *mockVocabularyStore) BulkInsert(ctx context.Context, drafts []domain.VocabularyDraft) ([]domain.VocabularyEntry, error) {
	if m.BulkInsertFunc != nil {
		return m.BulkInsertFunc(ctx, drafts)
	}
	return nil, nil
}

func (m *mockVocabularyStore) Insert(ctx context.Context, draft domain.VocabularyDraft) (*domain.VocabularyEntry, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, draft)
	}
	return &domain.VocabularyEntry{VocabularyDraft: draft}, nil
}

func (m *mockVocabularyStore) Update(ctx context.Context, id string, patch domain.VocabularyPatch) (*domain.VocabularyEntry, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil, nil
}

// startFailingSessions delegates to a real store but refuses to start any
// session.
type startFailingSessions struct {
	*store.Store
	err error
}

func (s *startFailingSessions) StartImportSession(context.Context, string) error {
	return s.err
}

func newMockedService(t *testing.T, vocab *mockVocabularyStore) (*Service, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryBackend(nil), discardLogger())
	require.NoError(t, st.Initialize(context.Background()))
	return NewService(discardLogger(), vocab, st, testConfig()), st
}

// ===========================================================================
// ImportFile: happy paths
// ===========================================================================

func TestImportFile_CSV(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()
	content := "English,Chinese,Grade,Category\n" +
		"apple,\"苹果, 水果类\",primary1,Fruit\n" +
		"hello,你好,primary1,\n" +
		"run,跑,grade7,Action\n"

	res, err := svc.ImportFile(ctx, Input{FileName: "words.csv", Content: content, Options: svc.DefaultOptions()})
	require.NoError(t, err)

	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Equal(t, domain.FileTypeCSV, res.FileType)
	assert.Equal(t, 3, res.TotalRecords)
	assert.Equal(t, 3, res.SuccessfulImports)
	assert.Zero(t, res.FailedImports)
	assert.Empty(t, res.Errors)
	assert.True(t, res.Reconciled())

	apple, err := st.Get(ctx, "0100001")
	require.NoError(t, err)
	assert.Equal(t, "apple", apple.Word)
	assert.Equal(t, "苹果, 水果类", apple.Translation)
	assert.Equal(t, "Fruit", apple.Category)

	hello, err := st.Get(ctx, "0100002")
	require.NoError(t, err)
	assert.Equal(t, "Other", hello.Category)
	assert.Equal(t, "/hello/", hello.Phonetic)

	run, err := st.Get(ctx, "0700001")
	require.NoError(t, err)
	assert.Equal(t, "run", run.Word)

	sess := sessionOf(t, svc, res.SessionID)
	assert.Equal(t, domain.ImportStatusCompleted, sess.Status)
	assert.Equal(t, "words.csv", sess.FileName)
	assert.Equal(t, domain.FileTypeCSV, sess.FileType)
	assert.Equal(t, 3, sess.SuccessfulImports)
	assert.NotNil(t, sess.CompletedAt)
}

func TestImportFile_CSVBooleanLikeWords(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	content := "word,translation,grade,example\n" +
		"yes,是,primary1,yes\n" +
		"no,不,primary1,\n" +
		"true,真的,grade7,\n"

	res, err := svc.ImportFile(context.Background(), Input{FileType: domain.FileTypeCSV, Content: content, Options: svc.DefaultOptions()})
	require.NoError(t, err)

	assert.Equal(t, 3, res.SuccessfulImports)
	assert.Zero(t, res.FailedImports)
	assert.Empty(t, res.Errors)
	assert.ElementsMatch(t, []string{"yes", "no", "true"}, storedWords(t, st))
}

func TestImportFile_JSONWithInvalidRecord(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	content := `[
		{"word": "one", "translation": "一", "grade": "primary1"},
		{"word": "two", "translation": "二", "grade": "primary1"},
		{"word": "three", "translation": "三"},
		{"word": "four", "translation": "四", "grade": "primary1", "frequency": 42},
		{"word": "five", "translation": "五", "grade": "primary1"}
	]`

	res, err := svc.ImportFile(context.Background(), Input{FileName: "words.json", Content: content, Options: svc.DefaultOptions()})
	require.NoError(t, err)

	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Equal(t, 5, res.TotalRecords)
	assert.Equal(t, 3, res.SuccessfulImports)
	assert.Equal(t, 2, res.FailedImports)
	assert.True(t, res.Reconciled())
	assert.Equal(t, []string{"one", "two", "five"}, storedWords(t, st))

	require.Len(t, res.Errors, 2)
	assert.Equal(t, domain.ImportError{Row: 3, Field: "grade", Message: "grade is required"}, res.Errors[0])
	assert.Equal(t, 4, res.Errors[1].Row)
	assert.Equal(t, "frequency", res.Errors[1].Field)
	assert.Equal(t, "42", res.Errors[1].Value)

	sess := sessionOf(t, svc, res.SessionID)
	assert.Equal(t, 2, sess.FailedImports)
	assert.Len(t, sess.Errors, 2)
}

func TestImportFile_AllInvalidStillCompletes(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON,
		Content:  `[{"word": "x"}, {"translation": "y"}]`,
		Options:  svc.DefaultOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Equal(t, res.TotalRecords, res.FailedImports)
	assert.Empty(t, storedWords(t, st))
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "translation is required; grade is required", res.Errors[0].Message)
	assert.Equal(t, "translation", res.Errors[0].Field)
}

// ===========================================================================
// Duplicate handling
// ===========================================================================

func TestImportFile_SkipsDuplicatesInSameBatch(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON,
		Content:  jsonRecords("Apple", "apple"),
		Options:  svc.DefaultOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SuccessfulImports)
	assert.Equal(t, 1, res.SkippedDuplicates)
	assert.Zero(t, res.FailedImports)
	assert.True(t, res.Reconciled())
	assert.Equal(t, []string{"Apple"}, storedWords(t, st))
}

func TestImportFile_SkipsDuplicatesAcrossBatches(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	opts := svc.DefaultOptions()
	opts.BatchSize = 1

	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON,
		Content:  jsonRecords("cat", "dog", "CAT", "bird", "Dog"),
		Options:  opts,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.SuccessfulImports)
	assert.Equal(t, 2, res.SkippedDuplicates)
	assert.Equal(t, []string{"cat", "dog", "bird"}, storedWords(t, st))
}

func TestImportFile_SkipsWordsAlreadyStored(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()
	_, err := st.Insert(ctx, domain.VocabularyDraft{Word: "Ice Cream", Translation: "冰淇淋", Grade: domain.GradePrimary2})
	require.NoError(t, err)

	res, err := svc.ImportFile(ctx, Input{
		FileType: domain.FileTypeJSON,
		Content:  jsonRecords("ice  cream", "cake"),
		Options:  svc.DefaultOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SuccessfulImports)
	assert.Equal(t, 1, res.SkippedDuplicates)
	assert.Equal(t, []string{"Ice Cream", "cake"}, storedWords(t, st))
}

func TestImportFile_KeepsDuplicatesWhenSkippingDisabled(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	opts := svc.DefaultOptions()
	opts.SkipDuplicates = false

	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON,
		Content:  jsonRecords("apple", "apple"),
		Options:  opts,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.SuccessfulImports)
	assert.Zero(t, res.SkippedDuplicates)
	assert.Equal(t, []string{"apple", "apple"}, storedWords(t, st))
}

func TestImportFile_UpdateExisting(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()
	existing, err := st.Insert(ctx, domain.VocabularyDraft{
		Word: "apple", Phonetic: "/ˈæpl/", Translation: "苹果", Grade: domain.GradePrimary1,
		Category: "Fruit", Difficulty: domain.DifficultyEasy, Frequency: 9,
		PartOfSpeech: domain.PartOfSpeechNoun, Example: "An apple.", IsLearned: true, MasteryLevel: 4,
	})
	require.NoError(t, err)

	opts := svc.DefaultOptions()
	opts.UpdateExisting = true
	content := `[
		{"word": "Apple", "translation": "苹果（新）", "grade": "primary1", "frequency": 7},
		{"word": "pear", "translation": "梨", "grade": "primary2", "category": "Fruit"},
		{"word": "PEAR", "translation": "梨子", "grade": "primary2", "difficulty": "hard"}
	]`

	res, err := svc.ImportFile(ctx, Input{FileType: domain.FileTypeJSON, Content: content, Options: opts})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SuccessfulImports)
	assert.Equal(t, 2, res.UpdatedExisting)
	assert.Zero(t, res.SkippedDuplicates)
	assert.True(t, res.Reconciled())

	apple, err := st.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "苹果（新）", apple.Translation)
	assert.Equal(t, 7, apple.Frequency)

	// Fields the record did not carry keep their stored values instead of
	// the defaults a fresh record would get.
	assert.Equal(t, "apple", apple.Word)
	assert.Equal(t, "/ˈæpl/", apple.Phonetic)
	assert.Equal(t, "Fruit", apple.Category)
	assert.Equal(t, domain.DifficultyEasy, apple.Difficulty)
	assert.Equal(t, "An apple.", apple.Example)
	assert.True(t, apple.IsLearned)
	assert.Equal(t, 4, apple.MasteryLevel)

	pear, err := st.Get(ctx, "0200001")
	require.NoError(t, err)
	assert.Equal(t, "pear", pear.Word)
	assert.Equal(t, "梨子", pear.Translation)
	assert.Equal(t, domain.DifficultyHard, pear.Difficulty)
	assert.Equal(t, "Fruit", pear.Category, "in-batch merge keeps the first record's category")

	sess := sessionOf(t, svc, res.SessionID)
	assert.Equal(t, 2, sess.UpdatedExisting)
}

func TestImportFile_UpdateExistingRejectsGradeChange(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()
	existing, err := st.Insert(ctx, domain.VocabularyDraft{
		Word: "apple", Translation: "苹果", Grade: domain.GradePrimary1, Category: "Fruit",
		Frequency: 9, MasteryLevel: 4, IsLearned: true,
	})
	require.NoError(t, err)

	opts := svc.DefaultOptions()
	opts.UpdateExisting = true
	res, err := svc.ImportFile(ctx, Input{
		FileType: domain.FileTypeCSV,
		Content:  "word,translation,grade\napple,苹果（新）,grade9\n",
		Options:  opts,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Equal(t, 1, res.FailedImports)
	assert.Zero(t, res.UpdatedExisting)
	assert.True(t, res.Reconciled())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "grade", res.Errors[0].Field)
	assert.Equal(t, "grade9", res.Errors[0].Value)
	assert.Contains(t, res.Errors[0].Message, existing.ID)

	apple, err := st.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GradePrimary1, apple.Grade)
	assert.Equal(t, "苹果", apple.Translation)
	assert.Equal(t, "Fruit", apple.Category)
}

// ===========================================================================
// Validate-only and parse failures
// ===========================================================================

func TestImportFile_ValidateOnlyWritesNoVocabulary(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	opts := svc.DefaultOptions()
	opts.ValidateOnly = true

	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON,
		Content:  `[{"word": "apple", "translation": "苹果", "grade": "primary1"}, {"word": "x"}]`,
		Options:  opts,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Equal(t, 2, res.TotalRecords)
	assert.Equal(t, 1, res.ValidRecords)
	assert.Equal(t, 1, res.FailedImports)
	assert.Zero(t, res.SuccessfulImports)
	require.NotNil(t, res.Validation)
	assert.Equal(t, 1, res.Validation.InvalidCount())
	assert.Empty(t, storedWords(t, st))

	sess := sessionOf(t, svc, res.SessionID)
	assert.Equal(t, domain.ImportStatusCompleted, sess.Status)
}

func TestImportFile_ParseFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Input
		message string
	}{
		{
			name:    "missing headers",
			in:      Input{FileType: domain.FileTypeCSV, Content: "word,meaning_en\napple,fruit\n"},
			message: "Missing required headers: translation, grade",
		},
		{
			name:    "empty csv",
			in:      Input{FileName: "empty.csv", Content: ""},
			message: "CSV file is empty",
		},
		{
			name:    "unknown format",
			in:      Input{FileName: "notes.txt", Content: "just some text"},
			message: "unsupported file type: unknown",
		},
		{
			name:    "ambiguous json",
			in:      Input{FileType: domain.FileTypeJSON, Content: `{"a": [], "b": []}`},
			message: "Multiple arrays found in JSON",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, st, _ := newTestService(t)
			res, err := svc.ImportFile(context.Background(), tt.in)
			require.NoError(t, err)

			assert.Equal(t, domain.ImportStatusFailed, res.Status)
			assert.Zero(t, res.TotalRecords)
			assert.Nil(t, res.Validation)
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, 1, res.Errors[0].Row)
			assert.Equal(t, "file", res.Errors[0].Field)
			assert.Contains(t, res.Errors[0].Message, tt.message)
			assert.Empty(t, storedWords(t, st))

			sess := sessionOf(t, svc, res.SessionID)
			assert.Equal(t, domain.ImportStatusFailed, sess.Status)
			assert.Equal(t, res.Errors, sess.Errors)
		})
	}
}

func TestImportFile_FileTypeFromName(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	res, err := svc.ImportFile(context.Background(), Input{FileName: "header-only.CSV", Content: "word,translation,grade\n"})
	require.NoError(t, err)

	assert.Equal(t, domain.FileTypeCSV, res.FileType)
	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Zero(t, res.TotalRecords)
}

func TestImportFile_InvalidInput(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportFile(ctx, Input{FileType: "xml", Content: "<a/>"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ImportFile(ctx, Input{FileType: domain.FileTypeJSON, Content: "[]", Options: Options{BatchSize: -1}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	sessions, err := svc.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions, "rejected input creates no session")
}

// ===========================================================================
// Store failures
// ===========================================================================

func TestImportFile_SystemFailureMarksSessionFailed(t *testing.T) {
	t.Parallel()

	diskFull := errors.New("disk full")
	var inserted int
	vocab := &mockVocabularyStore{
		BulkInsertFunc: func(_ context.Context, drafts []domain.VocabularyDraft) ([]domain.VocabularyEntry, error) {
			if inserted > 0 {
				return nil, diskFull
			}
			inserted += len(drafts)
			out := make([]domain.VocabularyEntry, len(drafts))
			for i, d := range drafts {
				out[i] = domain.VocabularyEntry{ID: fmt.Sprintf("01%05d", i+1), VocabularyDraft: d}
			}
			return out, nil
		},
	}
	svc, _ := newMockedService(t, vocab)
	opts := svc.DefaultOptions()
	opts.BatchSize = 2

	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON,
		Content:  jsonRecords("a", "b", "c", "d"),
		Options:  opts,
	})
	require.ErrorIs(t, err, diskFull)
	require.NotNil(t, res)

	assert.Equal(t, domain.ImportStatusFailed, res.Status)
	assert.Equal(t, 2, res.SuccessfulImports)
	require.NotEmpty(t, res.Errors)
	last := res.Errors[len(res.Errors)-1]
	assert.Equal(t, 0, last.Row)
	assert.Equal(t, "system", last.Field)
	assert.Contains(t, last.Message, "disk full")

	sess := sessionOf(t, svc, res.SessionID)
	assert.Equal(t, domain.ImportStatusFailed, sess.Status)
	assert.Equal(t, 2, sess.SuccessfulImports)
}

func TestImportFile_StartFailureMarksSessionFailed(t *testing.T) {
	t.Parallel()

	_, st, _ := newTestService(t)
	locked := errors.New("session table locked")
	svc := NewService(discardLogger(), st, &startFailingSessions{Store: st, err: locked}, testConfig())
	ctx := context.Background()

	res, err := svc.ImportFile(ctx, Input{
		FileType: domain.FileTypeJSON,
		Content:  jsonRecords("apple"),
		Options:  svc.DefaultOptions(),
	})
	require.ErrorIs(t, err, locked)
	require.NotNil(t, res)
	assert.Equal(t, domain.ImportStatusFailed, res.Status)

	sessions, err := svc.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.ImportStatusFailed, sessions[0].Status, "no session is left pending")
	require.Len(t, sessions[0].Errors, 1)
	assert.Equal(t, "system", sessions[0].Errors[0].Field)
	assert.Contains(t, sessions[0].Errors[0].Message, "session table locked")
	assert.NotNil(t, sessions[0].CompletedAt)
	assert.Empty(t, storedWords(t, st))
}

func TestImportFile_WordIndexFailure(t *testing.T) {
	t.Parallel()

	vocab := &mockVocabularyStore{
		WordIndexFunc: func(context.Context) (map[string]string, error) {
			return nil, errors.New("store unavailable")
		},
	}
	svc, _ := newMockedService(t, vocab)

	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON, Content: jsonRecords("a"), Options: svc.DefaultOptions(),
	})
	require.Error(t, err)
	assert.Equal(t, domain.ImportStatusFailed, res.Status)
	assert.Equal(t, domain.ImportStatusFailed, sessionOf(t, svc, res.SessionID).Status)
}

func TestImportFile_RejectedBatchFallsBackToSingleInserts(t *testing.T) {
	t.Parallel()

	vocab := &mockVocabularyStore{
		BulkInsertFunc: func(context.Context, []domain.VocabularyDraft) ([]domain.VocabularyEntry, error) {
			return nil, fmt.Errorf("draft 1: %w", domain.ErrConflict)
		},
		InsertFunc: func(_ context.Context, d domain.VocabularyDraft) (*domain.VocabularyEntry, error) {
			if d.Word == "b" {
				return nil, fmt.Errorf("partition full: %w", domain.ErrConflict)
			}
			return &domain.VocabularyEntry{ID: "0100001", VocabularyDraft: d}, nil
		},
	}
	svc, _ := newMockedService(t, vocab)

	res, err := svc.ImportFile(context.Background(), Input{
		FileType: domain.FileTypeJSON,
		Content:  jsonRecords("a", "b", "c"),
		Options:  svc.DefaultOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ImportStatusCompleted, res.Status)
	assert.Equal(t, 2, res.SuccessfulImports)
	assert.Equal(t, 1, res.FailedImports)
	assert.True(t, res.Reconciled())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.ImportError{Row: 2, Field: "system", Value: "b", Message: "partition full: conflict"}, res.Errors[0])
}

func TestImportFile_RealStoreWriteError(t *testing.T) {
	t.Parallel()

	svc, st, backend := newTestService(t)
	ctx := context.Background()
	sess, err := st.CreateImportSession(ctx, "seed.json", domain.FileTypeJSON)
	require.NoError(t, err)
	backend.SaveErr = errors.New("read-only filesystem")

	_, err = svc.ImportFile(ctx, Input{FileType: domain.FileTypeJSON, Content: jsonRecords("a"), Options: svc.DefaultOptions()})
	var we *store.WriteError
	require.ErrorAs(t, err, &we)

	// Nothing was written, including the session of the failed call.
	sessions, err := svc.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, sess.ID, sessions[0].ID)
}
