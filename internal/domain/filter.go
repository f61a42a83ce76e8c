package domain

// VocabularyFilter contains filtering, sorting and pagination parameters for
// vocabulary queries. Nil and zero fields do not filter.
type VocabularyFilter struct {
	ID              string
	Word            string // case-insensitive substring
	Grade           *Grade
	Category        string
	Difficulty      *Difficulty
	PartOfSpeech    *PartOfSpeech
	TextbookVersion *TextbookVersion
	IsLearned       *bool
	Search          string // matches word, translation or example
	SortBy          SortField
	SortOrder       SortOrder
	Limit           int
	Offset          int
}

// CategoryFilter selects categories.
type CategoryFilter struct {
	ID         string
	Name       string // case-insensitive substring
	GradeLevel *Grade
	Limit      int
	Offset     int
}

// ProgressFilter selects user progress records.
type ProgressFilter struct {
	UserID       string
	VocabularyID string
	IsLearned    *bool
	MasteryLevel *int
	NeedsReview  *bool
	Limit        int
	Offset       int
}
