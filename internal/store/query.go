package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/vocabid"
)

// Query returns the entries matching filter. Filtering happens first, then a
// stable sort, then offset and limit.
func (s *Store) Query(ctx context.Context, filter domain.VocabularyFilter) ([]domain.VocabularyEntry, error) {
	if err := validateVocabularyFilter(filter); err != nil {
		return nil, err
	}

	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	word := strings.ToLower(strings.TrimSpace(filter.Word))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]domain.VocabularyEntry, 0, len(s.doc.Vocabulary))
	for _, e := range s.doc.Vocabulary {
		if !matchesVocabulary(e, filter, word, search) {
			continue
		}
		out = append(out, cloneEntry(e))
	}

	if filter.SortBy != "" {
		less := vocabularyLess(filter.SortBy)
		if filter.SortOrder == domain.SortDesc {
			sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
		} else {
			sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		}
	}

	return paginate(out, filter.Offset, filter.Limit), nil
}

// Vocabulary returns every entry in insertion order.
func (s *Store) Vocabulary(ctx context.Context) ([]domain.VocabularyEntry, error) {
	return s.Query(ctx, domain.VocabularyFilter{})
}

func validateVocabularyFilter(f domain.VocabularyFilter) error {
	var errs []domain.FieldError
	if f.SortBy != "" && !f.SortBy.IsValid() {
		errs = append(errs, domain.FieldError{Field: "sortBy", Message: fmt.Sprintf("cannot sort by %q", f.SortBy)})
	}
	if f.SortOrder != "" && !f.SortOrder.IsValid() {
		errs = append(errs, domain.FieldError{Field: "sortOrder", Message: "must be asc or desc"})
	}
	errs = appendPageErrors(errs, f.Offset, f.Limit)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func appendPageErrors(errs []domain.FieldError, offset, limit int) []domain.FieldError {
	if offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}
	if limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	return errs
}

func matchesVocabulary(e domain.VocabularyEntry, f domain.VocabularyFilter, word, search string) bool {
	switch {
	case f.ID != "" && e.ID != f.ID:
		return false
	case word != "" && !strings.Contains(strings.ToLower(e.Word), word):
		return false
	case f.Grade != nil && e.Grade != *f.Grade:
		return false
	case f.Category != "" && e.Category != f.Category:
		return false
	case f.Difficulty != nil && e.Difficulty != *f.Difficulty:
		return false
	case f.PartOfSpeech != nil && e.PartOfSpeech != *f.PartOfSpeech:
		return false
	case f.TextbookVersion != nil && e.TextbookVersion != *f.TextbookVersion:
		return false
	case f.IsLearned != nil && e.IsLearned != *f.IsLearned:
		return false
	}
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Word), search) ||
		strings.Contains(strings.ToLower(e.Translation), search) ||
		strings.Contains(strings.ToLower(e.Example), search)
}

func vocabularyLess(field domain.SortField) func(a, b domain.VocabularyEntry) bool {
	switch field {
	case domain.SortByGrade:
		return func(a, b domain.VocabularyEntry) bool { return gradeCode(a.Grade) < gradeCode(b.Grade) }
	case domain.SortByFrequency:
		return func(a, b domain.VocabularyEntry) bool { return a.Frequency < b.Frequency }
	case domain.SortByCreatedAt:
		return func(a, b domain.VocabularyEntry) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case domain.SortByUpdatedAt:
		return func(a, b domain.VocabularyEntry) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b domain.VocabularyEntry) bool {
			return strings.ToLower(a.Word) < strings.ToLower(b.Word)
		}
	}
}

// gradeCode orders grades by partition code; unknown grades sort first.
func gradeCode(g domain.Grade) string {
	code, _ := vocabid.CodeForGrade(g)
	return code
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// AddCategory stores a new category. Names are unique ignoring case.
func (s *Store) AddCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	name := strings.TrimSpace(draft.Name)
	for _, c := range s.doc.Categories {
		if strings.EqualFold(c.Name, name) {
			return nil, fmt.Errorf("category %q: %w", name, domain.ErrAlreadyExists)
		}
	}

	var created domain.Category
	err = s.mutate(ctx, func(doc *domain.Document, now time.Time) error {
		created = domain.Category{
			ID:          s.newID(),
			Name:        name,
			Description: draft.Description,
			GradeLevel:  draft.GradeLevel,
			Color:       draft.Color,
			Icon:        draft.Icon,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		doc.Categories = append(doc.Categories, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Categories returns the categories matching filter.
func (s *Store) Categories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	if errs := appendPageErrors(nil, filter.Offset, filter.Limit); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	name := strings.ToLower(strings.TrimSpace(filter.Name))
	out := make([]domain.Category, 0, len(s.doc.Categories))
	for _, c := range s.doc.Categories {
		switch {
		case filter.ID != "" && c.ID != filter.ID:
			continue
		case name != "" && !strings.Contains(strings.ToLower(c.Name), name):
			continue
		case filter.GradeLevel != nil && c.GradeLevel != *filter.GradeLevel:
			continue
		}
		out = append(out, c)
	}
	return paginate(out, filter.Offset, filter.Limit), nil
}

// ---------------------------------------------------------------------------
// User progress
// ---------------------------------------------------------------------------

// AddUserProgress stores a progress record. The vocabulary reference is not
// checked.
func (s *Store) AddUserProgress(ctx context.Context, draft domain.UserProgressDraft) (*domain.UserProgress, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created domain.UserProgress
	err = s.mutate(ctx, func(doc *domain.Document, now time.Time) error {
		created = cloneProgress(domain.UserProgress{
			ID:                 s.newID(),
			UserID:             draft.UserID,
			VocabularyID:       draft.VocabularyID,
			IsLearned:          draft.IsLearned,
			MasteryLevel:       draft.MasteryLevel,
			ReviewCount:        draft.ReviewCount,
			LastReviewedAt:     draft.LastReviewedAt,
			NextReviewAt:       draft.NextReviewAt,
			EbbinghausSchedule: draft.EbbinghausSchedule,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		if created.MasteryLevel == 0 {
			created.MasteryLevel = domain.MinMasteryLevel
		}
		doc.UserProgress = append(doc.UserProgress, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UserProgress returns progress records matching filter. NeedsReview is
// evaluated against the store clock.
func (s *Store) UserProgress(ctx context.Context, filter domain.ProgressFilter) ([]domain.UserProgress, error) {
	if errs := appendPageErrors(nil, filter.Offset, filter.Limit); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	out := make([]domain.UserProgress, 0, len(s.doc.UserProgress))
	for _, p := range s.doc.UserProgress {
		switch {
		case filter.UserID != "" && p.UserID != filter.UserID:
			continue
		case filter.VocabularyID != "" && p.VocabularyID != filter.VocabularyID:
			continue
		case filter.IsLearned != nil && p.IsLearned != *filter.IsLearned:
			continue
		case filter.MasteryLevel != nil && p.MasteryLevel != *filter.MasteryLevel:
			continue
		case filter.NeedsReview != nil && p.NeedsReview(now) != *filter.NeedsReview:
			continue
		}
		out = append(out, cloneProgress(p))
	}
	return paginate(out, filter.Offset, filter.Limit), nil
}
