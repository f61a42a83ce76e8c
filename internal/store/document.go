package store

import (
	"encoding/json"
	"fmt"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

// requiredSections must be present in a persisted document for it to load.
var requiredSections = []string{"vocabulary", "categories", "userProgress"}

func encodeDocument(doc *domain.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decodeDocument(data []byte) (*domain.Document, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	for _, name := range requiredSections {
		if raw, ok := sections[name]; !ok || string(raw) == "null" {
			return nil, fmt.Errorf("%w: missing %q section", ErrCorruptDocument, name)
		}
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	fillDocument(&doc)
	return &doc, nil
}

// fillDocument replaces nil collections so the document always persists with
// empty arrays and maps rather than nulls.
func fillDocument(doc *domain.Document) {
	if doc.Vocabulary == nil {
		doc.Vocabulary = []domain.VocabularyEntry{}
	}
	if doc.Categories == nil {
		doc.Categories = []domain.Category{}
	}
	if doc.UserProgress == nil {
		doc.UserProgress = []domain.UserProgress{}
	}
	if doc.ImportSessions == nil {
		doc.ImportSessions = []domain.ImportSession{}
	}
	if doc.IDHighWater == nil {
		doc.IDHighWater = map[string]int{}
	}
	if doc.Version == "" {
		doc.Version = domain.DocumentVersion
	}
}

// cloneDocument deep-copies doc so a mutation can be discarded when the save
// that follows it fails.
func cloneDocument(doc *domain.Document) *domain.Document {
	c := *doc
	c.Vocabulary = make([]domain.VocabularyEntry, len(doc.Vocabulary))
	for i, e := range doc.Vocabulary {
		c.Vocabulary[i] = cloneEntry(e)
	}
	c.Categories = append([]domain.Category{}, doc.Categories...)
	c.UserProgress = make([]domain.UserProgress, len(doc.UserProgress))
	for i, p := range doc.UserProgress {
		c.UserProgress[i] = cloneProgress(p)
	}
	c.ImportSessions = make([]domain.ImportSession, len(doc.ImportSessions))
	for i, s := range doc.ImportSessions {
		c.ImportSessions[i] = cloneSession(s)
	}
	c.IDHighWater = make(map[string]int, len(doc.IDHighWater))
	for k, v := range doc.IDHighWater {
		c.IDHighWater[k] = v
	}
	if doc.LastBackup != nil {
		t := *doc.LastBackup
		c.LastBackup = &t
	}
	c.Stats = cloneStats(doc.Stats)
	return &c
}

func cloneEntry(e domain.VocabularyEntry) domain.VocabularyEntry {
	if e.Collocations != nil {
		e.Collocations = append([]string(nil), e.Collocations...)
	}
	return e
}

func cloneProgress(p domain.UserProgress) domain.UserProgress {
	if p.LastReviewedAt != nil {
		t := *p.LastReviewedAt
		p.LastReviewedAt = &t
	}
	if p.NextReviewAt != nil {
		t := *p.NextReviewAt
		p.NextReviewAt = &t
	}
	return p
}

func cloneSession(s domain.ImportSession) domain.ImportSession {
	s.Errors = append([]domain.ImportError{}, s.Errors...)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		s.CompletedAt = &t
	}
	return s
}

func cloneStats(s domain.DatabaseStats) domain.DatabaseStats {
	byGrade := make(map[domain.Grade]int, len(s.VocabularyByGrade))
	for k, v := range s.VocabularyByGrade {
		byGrade[k] = v
	}
	byCategory := make(map[string]int, len(s.VocabularyByCategory))
	for k, v := range s.VocabularyByCategory {
		byCategory[k] = v
	}
	s.VocabularyByGrade = byGrade
	s.VocabularyByCategory = byCategory
	return s
}

// computeStats derives aggregate counts from the document. LastUpdated is
// carried over from the document so recomputation is idempotent.
func computeStats(doc *domain.Document) domain.DatabaseStats {
	byGrade := make(map[domain.Grade]int, len(domain.AllGrades))
	for _, g := range domain.AllGrades {
		byGrade[g] = 0
	}
	byCategory := make(map[string]int)
	for _, e := range doc.Vocabulary {
		if e.Grade.IsValid() {
			byGrade[e.Grade]++
		}
		byCategory[e.Category]++
	}

	users := make(map[string]struct{})
	for _, p := range doc.UserProgress {
		users[p.UserID] = struct{}{}
	}

	return domain.DatabaseStats{
		TotalVocabulary:      len(doc.Vocabulary),
		VocabularyByGrade:    byGrade,
		VocabularyByCategory: byCategory,
		TotalCategories:      len(doc.Categories),
		TotalUsers:           len(users),
		LastUpdated:          doc.Stats.LastUpdated,
	}
}
