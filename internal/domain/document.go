package domain

import "time"

// DocumentVersion is written into every new document.
const DocumentVersion = "1.0.0"

// DatabaseStats is a materialized view over the document. It is recomputed
// before every save and never trusted as a source of truth.
type DatabaseStats struct {
	TotalVocabulary      int            `json:"totalVocabulary"`
	VocabularyByGrade    map[Grade]int  `json:"vocabularyByGrade"`
	VocabularyByCategory map[string]int `json:"vocabularyByCategory"`
	TotalCategories      int            `json:"totalCategories"`
	TotalUsers           int            `json:"totalUsers"`
	LastUpdated          time.Time      `json:"lastUpdated"`
}

// Document is the root aggregate persisted as a single unit.
type Document struct {
	Vocabulary     []VocabularyEntry `json:"vocabulary"`
	Categories     []Category        `json:"categories"`
	UserProgress   []UserProgress    `json:"userProgress"`
	ImportSessions []ImportSession   `json:"importSessions"`
	Stats          DatabaseStats     `json:"stats"`
	Version        string            `json:"version"`
	LastBackup     *time.Time        `json:"lastBackup,omitempty"`
	// IDHighWater holds the highest sequence ever issued per grade code so
	// that deleted identifiers are never handed out again.
	IDHighWater map[string]int `json:"idHighWater,omitempty"`
}

// NewDocument returns an empty, well-formed document.
func NewDocument(now time.Time) *Document {
	byGrade := make(map[Grade]int, len(AllGrades))
	for _, g := range AllGrades {
		byGrade[g] = 0
	}
	return &Document{
		Vocabulary:     []VocabularyEntry{},
		Categories:     []Category{},
		UserProgress:   []UserProgress{},
		ImportSessions: []ImportSession{},
		Stats: DatabaseStats{
			VocabularyByGrade:    byGrade,
			VocabularyByCategory: map[string]int{},
			LastUpdated:          now,
		},
		Version:     DocumentVersion,
		IDHighWater: map[string]int{},
	}
}
