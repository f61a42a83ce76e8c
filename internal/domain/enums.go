package domain

// Grade is one of the nine school grades a word is taught in. Each grade owns
// its own identifier partition.
type Grade string

const (
	GradePrimary1 Grade = "primary1"
	GradePrimary2 Grade = "primary2"
	GradePrimary3 Grade = "primary3"
	GradePrimary4 Grade = "primary4"
	GradePrimary5 Grade = "primary5"
	GradePrimary6 Grade = "primary6"
	GradeJunior7  Grade = "grade7"
	GradeJunior8  Grade = "grade8"
	GradeJunior9  Grade = "grade9"
)

// AllGrades lists the grades in curriculum order.
var AllGrades = []Grade{
	GradePrimary1, GradePrimary2, GradePrimary3, GradePrimary4, GradePrimary5, GradePrimary6,
	GradeJunior7, GradeJunior8, GradeJunior9,
}

func (g Grade) String() string { return string(g) }

func (g Grade) IsValid() bool {
	switch g {
	case GradePrimary1, GradePrimary2, GradePrimary3, GradePrimary4, GradePrimary5, GradePrimary6,
		GradeJunior7, GradeJunior8, GradeJunior9:
		return true
	}
	return false
}

// Difficulty is the perceived difficulty of a word.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// PartOfSpeech represents the grammatical category of a word.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "noun"
	PartOfSpeechVerb         PartOfSpeech = "verb"
	PartOfSpeechAdjective    PartOfSpeech = "adjective"
	PartOfSpeechAdverb       PartOfSpeech = "adverb"
	PartOfSpeechPronoun      PartOfSpeech = "pronoun"
	PartOfSpeechPreposition  PartOfSpeech = "preposition"
	PartOfSpeechConjunction  PartOfSpeech = "conjunction"
	PartOfSpeechInterjection PartOfSpeech = "interjection"
	PartOfSpeechArticle      PartOfSpeech = "article"
)

var AllPartsOfSpeech = []PartOfSpeech{
	PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
	PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
	PartOfSpeechInterjection, PartOfSpeechArticle,
}

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
		PartOfSpeechInterjection, PartOfSpeechArticle:
		return true
	}
	return false
}

// TextbookVersion identifies the textbook series a word comes from.
type TextbookVersion string

const (
	TextbookPEP       TextbookVersion = "PEP"
	TextbookForeign   TextbookVersion = "Foreign"
	TextbookOxford    TextbookVersion = "Oxford"
	TextbookCambridge TextbookVersion = "Cambridge"
)

var AllTextbookVersions = []TextbookVersion{TextbookPEP, TextbookForeign, TextbookOxford, TextbookCambridge}

func (v TextbookVersion) String() string { return string(v) }

func (v TextbookVersion) IsValid() bool {
	switch v {
	case TextbookPEP, TextbookForeign, TextbookOxford, TextbookCambridge:
		return true
	}
	return false
}

// ImportStatus is the lifecycle state of an import session.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

func (s ImportStatus) String() string { return string(s) }

func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusPending, ImportStatusProcessing, ImportStatusCompleted, ImportStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal step:
// pending -> processing -> completed|failed, with pending allowed to finish
// directly.
func (s ImportStatus) CanTransitionTo(next ImportStatus) bool {
	switch s {
	case ImportStatusPending:
		return next == ImportStatusProcessing || next.IsTerminal()
	case ImportStatusProcessing:
		return next.IsTerminal()
	}
	return false
}

// FileType is the format of an import payload.
type FileType string

const (
	FileTypeCSV     FileType = "csv"
	FileTypeJSON    FileType = "json"
	FileTypeUnknown FileType = "unknown"
)

func (f FileType) String() string { return string(f) }

func (f FileType) IsValid() bool {
	return f == FileTypeCSV || f == FileTypeJSON
}

// SortField is a vocabulary field that queries can order by.
type SortField string

const (
	SortByWord      SortField = "word"
	SortByGrade     SortField = "grade"
	SortByFrequency SortField = "frequency"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

func (f SortField) IsValid() bool {
	switch f {
	case SortByWord, SortByGrade, SortByFrequency, SortByCreatedAt, SortByUpdatedAt:
		return true
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}
