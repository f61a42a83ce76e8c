package importer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/fileparser"
	"github.com/heartmarshall/hengshui-vocab/internal/vocabid"
)

// DefaultCategory is used when neither the record nor the config names one.
const DefaultCategory = "Other"

var (
	englishWordPattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	phoneticPattern    = regexp.MustCompile(`^/.*/$`)
)

// Issue is one field-level problem found in a record. It is used both for
// errors, which reject the record, and warnings, which do not.
type Issue struct {
	Row     int
	Field   string
	Value   any
	Message string
}

// ValidDraft is a normalized record together with its 1-based input row.
// Patch carries only the fields the record supplied and is what an existing
// entry with the same word is updated with.
type ValidDraft struct {
	Row   int
	Draft domain.VocabularyDraft
	Patch domain.VocabularyPatch
}

// InvalidRecord is a rejected record with every violation it had.
type InvalidRecord struct {
	Row    int
	Record fileparser.Record
	Errors []Issue
}

// ValidationResult is the outcome of validating a batch of records.
type ValidationResult struct {
	Total    int
	Valid    []ValidDraft
	Invalid  []InvalidRecord
	Warnings []Issue
}

func (r ValidationResult) ValidCount() int   { return len(r.Valid) }
func (r ValidationResult) InvalidCount() int { return len(r.Invalid) }

// Drafts returns the valid drafts without row numbers.
func (r ValidationResult) Drafts() []domain.VocabularyDraft {
	out := make([]domain.VocabularyDraft, len(r.Valid))
	for i, v := range r.Valid {
		out[i] = v.Draft
	}
	return out
}

// Validator checks and normalizes raw import records.
type Validator struct {
	defaultCategory string
}

// NewValidator creates a Validator. An empty defaultCategory falls back to
// DefaultCategory.
func NewValidator(defaultCategory string) *Validator {
	if strings.TrimSpace(defaultCategory) == "" {
		defaultCategory = DefaultCategory
	}
	return &Validator{defaultCategory: defaultCategory}
}

// ValidateRecords validates every record independently. Row numbers are
// 1-based positions in records.
func (v *Validator) ValidateRecords(records []fileparser.Record) ValidationResult {
	res := ValidationResult{Total: len(records)}
	for i, rec := range records {
		row := i + 1
		errs, warns := v.ValidateRecord(rec, row)
		res.Warnings = append(res.Warnings, warns...)
		if len(errs) > 0 {
			res.Invalid = append(res.Invalid, InvalidRecord{Row: row, Record: rec, Errors: errs})
			continue
		}
		d := v.Normalize(rec)
		res.Valid = append(res.Valid, ValidDraft{Row: row, Draft: d, Patch: UpsertPatch(rec, d)})
	}
	return res
}

// ValidateRecord collects every error and warning for one record; it never
// stops at the first violation.
func (v *Validator) ValidateRecord(rec fileparser.Record, row int) (errs, warns []Issue) {
	fail := func(field, msg string) {
		errs = append(errs, Issue{Row: row, Field: field, Value: rec[field], Message: msg})
	}
	warn := func(field, msg string) {
		warns = append(warns, Issue{Row: row, Field: field, Value: rec[field], Message: msg})
	}

	for _, field := range []string{"word", "translation", "grade"} {
		if isBlank(rec[field]) {
			fail(field, field+" is required")
		}
	}

	if raw, ok := rec["id"]; ok && !isBlank(raw) {
		if !vocabid.ValidateID(scalarText(raw)) {
			fail("id", "ID must be 7 digits in format CCNNNNN")
		}
	}

	if raw := rec["word"]; !isBlank(raw) {
		switch s, ok := raw.(string); {
		case !ok:
			fail("word", "Word must be a string")
		case utf8.RuneCountInString(s) > domain.MaxWordLength:
			fail("word", "Word must be 50 characters or less")
		case !englishWordPattern.MatchString(s):
			warn("word", "Word contains non-English characters")
		}
	}

	if raw := rec["phonetic"]; !isBlank(raw) {
		switch s, ok := raw.(string); {
		case !ok:
			fail("phonetic", "Phonetic must be a string")
		case !phoneticPattern.MatchString(strings.TrimSpace(s)):
			warn("phonetic", "Phonetic should be in format /.../")
		}
	}

	if raw := rec["translation"]; !isBlank(raw) {
		switch s, ok := raw.(string); {
		case !ok:
			fail("translation", "Translation must be a string")
		case utf8.RuneCountInString(s) > domain.MaxTranslationLength:
			fail("translation", "Translation must be 200 characters or less")
		}
	}

	if raw := rec["grade"]; !isBlank(raw) && !domain.Grade(textOf(raw)).IsValid() {
		fail("grade", "Grade must be one of: "+joinEnum(domain.AllGrades))
	}
	if raw := rec["difficulty"]; !isBlank(raw) && !domain.Difficulty(textOf(raw)).IsValid() {
		fail("difficulty", "Difficulty must be one of: "+joinEnum(domain.AllDifficulties))
	}
	if raw := rec["partOfSpeech"]; !isBlank(raw) && !domain.PartOfSpeech(textOf(raw)).IsValid() {
		fail("partOfSpeech", "Part of speech must be one of: "+joinEnum(domain.AllPartsOfSpeech))
	}
	if raw := rec["textbookVersion"]; !isBlank(raw) && !domain.TextbookVersion(textOf(raw)).IsValid() {
		fail("textbookVersion", "Textbook version must be one of: "+joinEnum(domain.AllTextbookVersions))
	}

	if raw, ok := rec["frequency"]; ok && raw != nil {
		if n, ok := intValue(raw); !ok || n < domain.MinFrequency || n > domain.MaxFrequency {
			fail("frequency", "Frequency must be a number between 1 and 10")
		}
	}
	if raw, ok := rec["masteryLevel"]; ok && raw != nil {
		if n, ok := intValue(raw); !ok || n < domain.MinMasteryLevel || n > domain.MaxMasteryLevel {
			fail("masteryLevel", "Mastery level must be a number between 1 and 5")
		}
	}

	if raw := rec["collocations"]; !isBlank(raw) {
		switch c := raw.(type) {
		case string, []string:
		case []any:
			for _, item := range c {
				if _, ok := item.(string); !ok {
					fail("collocations", "All collocations must be strings")
					break
				}
			}
		default:
			fail("collocations", "Collocations must be an array")
		}
	}

	return errs, warns
}

// Normalize converts a record that passed validation into a draft, filling
// defaults for absent optional fields.
func (v *Validator) Normalize(rec fileparser.Record) domain.VocabularyDraft {
	word := strings.TrimSpace(textOf(rec["word"]))
	d := domain.VocabularyDraft{
		Word:            word,
		Translation:     strings.TrimSpace(textOf(rec["translation"])),
		Grade:           domain.Grade(textOf(rec["grade"])),
		Category:        strings.TrimSpace(scalarText(rec["category"])),
		Difficulty:      domain.Difficulty(textOf(rec["difficulty"])),
		PartOfSpeech:    domain.PartOfSpeech(textOf(rec["partOfSpeech"])),
		Phonetic:        strings.TrimSpace(textOf(rec["phonetic"])),
		TextbookVersion: domain.TextbookVersion(textOf(rec["textbookVersion"])),
		Unit:            strings.TrimSpace(scalarText(rec["unit"])),
		Example:         strings.TrimSpace(scalarText(rec["example"])),
		IsLearned:       boolValue(rec["isLearned"]),
		Frequency:       5,
		MasteryLevel:    1,
	}
	if d.Category == "" {
		d.Category = v.defaultCategory
	}
	if d.Difficulty == "" {
		d.Difficulty = domain.DifficultyMedium
	}
	if d.PartOfSpeech == "" {
		d.PartOfSpeech = domain.PartOfSpeechNoun
	}
	if d.Phonetic == "" {
		d.Phonetic = "/" + word + "/"
	}
	if n, ok := intValue(rec["frequency"]); ok && n != 0 {
		d.Frequency = n
	}
	if n, ok := intValue(rec["masteryLevel"]); ok && n != 0 {
		d.MasteryLevel = n
	}
	d.Collocations = collocations(rec["collocations"])
	return d
}

// UpsertPatch selects from d, the normalized form of rec, the fields rec
// actually supplied. Defaults filled in by Normalize are left out so that an
// update never replaces stored values the input did not mention. The word is
// the match key and is not part of the patch.
func UpsertPatch(rec fileparser.Record, d domain.VocabularyDraft) domain.VocabularyPatch {
	has := func(field string) bool { return !isBlank(rec[field]) }

	var p domain.VocabularyPatch
	if has("translation") {
		p.Translation = &d.Translation
	}
	if has("grade") {
		p.Grade = &d.Grade
	}
	if has("phonetic") {
		p.Phonetic = &d.Phonetic
	}
	if has("category") {
		p.Category = &d.Category
	}
	if has("difficulty") {
		p.Difficulty = &d.Difficulty
	}
	if has("partOfSpeech") {
		p.PartOfSpeech = &d.PartOfSpeech
	}
	if n, ok := intValue(rec["frequency"]); ok && n != 0 {
		p.Frequency = &d.Frequency
	}
	if n, ok := intValue(rec["masteryLevel"]); ok && n != 0 {
		p.MasteryLevel = &d.MasteryLevel
	}
	if has("isLearned") {
		p.IsLearned = &d.IsLearned
	}
	if has("example") {
		p.Example = &d.Example
	}
	if d.Collocations != nil {
		p.Collocations = &d.Collocations
	}
	if has("textbookVersion") {
		p.TextbookVersion = &d.TextbookVersion
	}
	if has("unit") {
		p.Unit = &d.Unit
	}
	return p
}

// Duplicate lists the positions of drafts that share a word.
type Duplicate struct {
	Word    string
	Indices []int
}

// FindDuplicates groups drafts by case-insensitive word, in order of first
// appearance, and returns the groups with more than one member.
func FindDuplicates(drafts []domain.VocabularyDraft) []Duplicate {
	positions := make(map[string][]int, len(drafts))
	var order []string
	for i, d := range drafts {
		key := domain.WordKey(d.Word)
		if key == "" {
			continue
		}
		if _, seen := positions[key]; !seen {
			order = append(order, key)
		}
		positions[key] = append(positions[key], i)
	}

	var dups []Duplicate
	for _, key := range order {
		if idx := positions[key]; len(idx) > 1 {
			dups = append(dups, Duplicate{Word: key, Indices: idx})
		}
	}
	return dups
}

// Summary renders a human-readable validation report.
func Summary(r ValidationResult) string {
	var b strings.Builder
	b.WriteString("Validation Summary:\n")
	fmt.Fprintf(&b, "- Total records: %d\n", r.Total)
	fmt.Fprintf(&b, "- Valid records: %d\n", r.ValidCount())
	fmt.Fprintf(&b, "- Invalid records: %d\n", r.InvalidCount())
	fmt.Fprintf(&b, "- Warnings: %d\n\n", len(r.Warnings))

	if len(r.Invalid) > 0 {
		b.WriteString("Invalid Records:\n")
		for _, inv := range r.Invalid {
			msgs := make([]string, len(inv.Errors))
			for i, e := range inv.Errors {
				msgs[i] = e.Message
			}
			fmt.Fprintf(&b, "Row %d: %s\n", inv.Row, strings.Join(msgs, ", "))
		}
		b.WriteString("\n")
	}
	if len(r.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "Row %d: %s - %s\n", w.Row, w.Field, w.Message)
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Value helpers. Records hold strings, bools, ints, float64s, json.Numbers,
// []string and []any.
// ---------------------------------------------------------------------------

func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	}
	return false
}

// textOf returns v when it is a string and "" otherwise.
func textOf(v any) string {
	s, _ := v.(string)
	return s
}

// scalarText renders strings and numbers as text.
func scalarText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// intValue accepts integral numbers and numeric strings.
func intValue(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func boolValue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	}
	return false
}

func collocations(v any) []string {
	var items []string
	switch c := v.(type) {
	case string:
		items = strings.Split(c, ",")
	case []string:
		items = c
	case []any:
		for _, item := range c {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// valueText renders a record value for an import error entry.
func valueText(v any) string {
	switch c := v.(type) {
	case []string:
		return strings.Join(c, ",")
	case []any:
		parts := make([]string, 0, len(c))
		for _, item := range c {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	}
	return scalarText(v)
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
