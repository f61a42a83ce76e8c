package vocabulary

import (
	"context"
	"fmt"
	"slices"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

// DefaultHighFrequency is the frequency threshold of HighFrequency when the
// caller passes zero.
const DefaultHighFrequency = 8

// All returns every entry in insertion order.
func (s *Service) All(ctx context.Context) ([]domain.VocabularyEntry, error) {
	return s.store.Query(ctx, domain.VocabularyFilter{})
}

// ByGrade returns the entries of one grade.
func (s *Service) ByGrade(ctx context.Context, grade domain.Grade) ([]domain.VocabularyEntry, error) {
	if !grade.IsValid() {
		return nil, domain.NewValidationError("grade", fmt.Sprintf("unknown grade %q", grade))
	}
	return s.store.Query(ctx, domain.VocabularyFilter{Grade: &grade})
}

// ByCategory returns the entries of one category.
func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.VocabularyEntry, error) {
	return s.store.Query(ctx, domain.VocabularyFilter{Category: category})
}

// ByTextbook returns the entries taken from one textbook series.
func (s *Service) ByTextbook(ctx context.Context, version domain.TextbookVersion) ([]domain.VocabularyEntry, error) {
	if !version.IsValid() {
		return nil, domain.NewValidationError("textbookVersion", fmt.Sprintf("unknown textbook version %q", version))
	}
	return s.store.Query(ctx, domain.VocabularyFilter{TextbookVersion: &version})
}

// Search matches term against word, translation and example.
func (s *Service) Search(ctx context.Context, term string) ([]domain.VocabularyEntry, error) {
	return s.store.Query(ctx, domain.VocabularyFilter{Search: term})
}

// Query runs an arbitrary filter.
func (s *Service) Query(ctx context.Context, filter domain.VocabularyFilter) ([]domain.VocabularyEntry, error) {
	return s.store.Query(ctx, filter)
}

// ByID returns one entry or domain.ErrNotFound.
func (s *Service) ByID(ctx context.Context, id string) (*domain.VocabularyEntry, error) {
	return s.store.Get(ctx, id)
}

// GroupedByGrade buckets every entry by grade. All nine grades are present,
// empty ones with an empty slice.
func (s *Service) GroupedByGrade(ctx context.Context) (map[domain.Grade][]domain.VocabularyEntry, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[domain.Grade][]domain.VocabularyEntry, len(domain.AllGrades))
	for _, g := range domain.AllGrades {
		grouped[g] = []domain.VocabularyEntry{}
	}
	for _, e := range all {
		if _, ok := grouped[e.Grade]; ok {
			grouped[e.Grade] = append(grouped[e.Grade], e)
		}
	}
	return grouped, nil
}

// HighFrequency returns entries with frequency of at least minFrequency,
// most frequent first. A zero minFrequency means DefaultHighFrequency; a
// zero limit means no limit.
func (s *Service) HighFrequency(ctx context.Context, minFrequency, limit int) ([]domain.VocabularyEntry, error) {
	if minFrequency == 0 {
		minFrequency = DefaultHighFrequency
	}
	if limit < 0 {
		return nil, domain.NewValidationError("limit", "must not be negative")
	}

	sorted, err := s.store.Query(ctx, domain.VocabularyFilter{
		SortBy:    domain.SortByFrequency,
		SortOrder: domain.SortDesc,
	})
	if err != nil {
		return nil, err
	}

	n := 0
	for n < len(sorted) && sorted[n].Frequency >= minFrequency {
		n++
	}
	if limit > 0 && limit < n {
		n = limit
	}
	return sorted[:n], nil
}

// Random returns up to count entries in random order, optionally limited to
// one grade.
func (s *Service) Random(ctx context.Context, count int, grade *domain.Grade) ([]domain.VocabularyEntry, error) {
	if count < 0 {
		return nil, domain.NewValidationError("count", "must not be negative")
	}
	filter := domain.VocabularyFilter{}
	if grade != nil {
		if !grade.IsValid() {
			return nil, domain.NewValidationError("grade", fmt.Sprintf("unknown grade %q", *grade))
		}
		filter.Grade = grade
	}

	pool, err := s.store.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:min(count, len(pool))], nil
}

// Categories lists the distinct categories in use, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(stats.VocabularyByCategory))
	for c := range stats.VocabularyByCategory {
		out = append(out, c)
	}
	slices.Sort(out)
	return out, nil
}
