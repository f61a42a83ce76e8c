package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits shared by the import validator and the store.
const (
	MaxWordLength        = 50
	MaxTranslationLength = 200
	MinFrequency         = 1
	MaxFrequency         = 10
	MinMasteryLevel      = 1
	MaxMasteryLevel      = 5
)

// VocabularyDraft is a normalized vocabulary record that has not been stored
// yet: it carries no identifier and no timestamps.
type VocabularyDraft struct {
	Word            string          `json:"word"`
	Phonetic        string          `json:"phonetic"`
	Translation     string          `json:"translation"`
	Grade           Grade           `json:"grade"`
	Category        string          `json:"category"`
	Difficulty      Difficulty      `json:"difficulty"`
	Frequency       int             `json:"frequency"`
	PartOfSpeech    PartOfSpeech    `json:"partOfSpeech"`
	Example         string          `json:"example,omitempty"`
	Collocations    []string        `json:"collocations,omitempty"`
	TextbookVersion TextbookVersion `json:"textbookVersion,omitempty"`
	Unit            string          `json:"unit,omitempty"`
	IsLearned       bool            `json:"isLearned"`
	MasteryLevel    int             `json:"masteryLevel,omitempty"`
}

// VocabularyEntry is a stored vocabulary word. ID has the form CCNNNNN where
// CC is the grade partition code.
type VocabularyEntry struct {
	ID string `json:"id"`
	VocabularyDraft
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks field-level constraints of a draft. Grade membership is
// checked by the identifier allocator when the draft is stored.
func (d VocabularyDraft) Validate() error {
	var errs []FieldError
	errs = appendTextErrors(errs, "word", d.Word, MaxWordLength)
	errs = appendTextErrors(errs, "translation", d.Translation, MaxTranslationLength)
	if d.Difficulty != "" && !d.Difficulty.IsValid() {
		errs = append(errs, FieldError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", d.Difficulty)})
	}
	if d.PartOfSpeech != "" && !d.PartOfSpeech.IsValid() {
		errs = append(errs, FieldError{Field: "partOfSpeech", Message: fmt.Sprintf("unknown part of speech %q", d.PartOfSpeech)})
	}
	if d.TextbookVersion != "" && !d.TextbookVersion.IsValid() {
		errs = append(errs, FieldError{Field: "textbookVersion", Message: fmt.Sprintf("unknown textbook version %q", d.TextbookVersion)})
	}
	if d.Frequency != 0 && (d.Frequency < MinFrequency || d.Frequency > MaxFrequency) {
		errs = append(errs, FieldError{Field: "frequency", Message: "must be between 1 and 10"})
	}
	if d.MasteryLevel != 0 && (d.MasteryLevel < MinMasteryLevel || d.MasteryLevel > MaxMasteryLevel) {
		errs = append(errs, FieldError{Field: "masteryLevel", Message: "must be between 1 and 5"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// VocabularyPatch is a partial update. Nil fields are left unchanged.
type VocabularyPatch struct {
	Word            *string
	Phonetic        *string
	Translation     *string
	Grade           *Grade
	Category        *string
	Difficulty      *Difficulty
	Frequency       *int
	PartOfSpeech    *PartOfSpeech
	Example         *string
	Collocations    *[]string
	TextbookVersion *TextbookVersion
	Unit            *string
	IsLearned       *bool
	MasteryLevel    *int
}

// IsEmpty reports whether the patch changes nothing.
func (p VocabularyPatch) IsEmpty() bool {
	return p == VocabularyPatch{}
}

// Validate checks every field the patch sets.
func (p VocabularyPatch) Validate() error {
	var errs []FieldError
	if p.Word != nil {
		errs = appendTextErrors(errs, "word", *p.Word, MaxWordLength)
	}
	if p.Translation != nil {
		errs = appendTextErrors(errs, "translation", *p.Translation, MaxTranslationLength)
	}
	if p.Grade != nil && !p.Grade.IsValid() {
		errs = append(errs, FieldError{Field: "grade", Message: fmt.Sprintf("unknown grade %q", *p.Grade)})
	}
	if p.Difficulty != nil && !p.Difficulty.IsValid() {
		errs = append(errs, FieldError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", *p.Difficulty)})
	}
	if p.PartOfSpeech != nil && !p.PartOfSpeech.IsValid() {
		errs = append(errs, FieldError{Field: "partOfSpeech", Message: fmt.Sprintf("unknown part of speech %q", *p.PartOfSpeech)})
	}
	if p.TextbookVersion != nil && *p.TextbookVersion != "" && !p.TextbookVersion.IsValid() {
		errs = append(errs, FieldError{Field: "textbookVersion", Message: fmt.Sprintf("unknown textbook version %q", *p.TextbookVersion)})
	}
	if p.Frequency != nil && (*p.Frequency < MinFrequency || *p.Frequency > MaxFrequency) {
		errs = append(errs, FieldError{Field: "frequency", Message: "must be between 1 and 10"})
	}
	if p.MasteryLevel != nil && (*p.MasteryLevel < MinMasteryLevel || *p.MasteryLevel > MaxMasteryLevel) {
		errs = append(errs, FieldError{Field: "masteryLevel", Message: "must be between 1 and 5"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Apply merges the patch onto e. The identifier and CreatedAt never change;
// the caller stamps UpdatedAt.
func (p VocabularyPatch) Apply(e *VocabularyEntry) {
	if p.Word != nil {
		e.Word = strings.TrimSpace(*p.Word)
	}
	if p.Phonetic != nil {
		e.Phonetic = *p.Phonetic
	}
	if p.Translation != nil {
		e.Translation = strings.TrimSpace(*p.Translation)
	}
	if p.Grade != nil {
		e.Grade = *p.Grade
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Difficulty != nil {
		e.Difficulty = *p.Difficulty
	}
	if p.Frequency != nil {
		e.Frequency = *p.Frequency
	}
	if p.PartOfSpeech != nil {
		e.PartOfSpeech = *p.PartOfSpeech
	}
	if p.Example != nil {
		e.Example = *p.Example
	}
	if p.Collocations != nil {
		e.Collocations = append([]string(nil), (*p.Collocations)...)
	}
	if p.TextbookVersion != nil {
		e.TextbookVersion = *p.TextbookVersion
	}
	if p.Unit != nil {
		e.Unit = *p.Unit
	}
	if p.IsLearned != nil {
		e.IsLearned = *p.IsLearned
	}
	if p.MasteryLevel != nil {
		e.MasteryLevel = *p.MasteryLevel
	}
}

func appendTextErrors(errs []FieldError, field, value string, maxLen int) []FieldError {
	switch n := utf8.RuneCountInString(strings.TrimSpace(value)); {
	case n == 0:
		return append(errs, FieldError{Field: field, Message: "required"})
	case n > maxLen:
		return append(errs, FieldError{Field: field, Message: fmt.Sprintf("must be %d characters or less", maxLen)})
	}
	return errs
}
