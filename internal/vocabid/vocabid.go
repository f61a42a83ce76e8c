// Package vocabid allocates and parses 7-digit vocabulary identifiers of the
// form CCNNNNN, where CC is a two-digit grade code and NNNNN a zero-padded
// sequence unique within that grade.
//
// All functions are pure: callers pass the set of identifiers already in use.
package vocabid

import (
	"fmt"
	"strconv"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

const (
	// Length is the number of digits in an identifier.
	Length = 7
	// MaxSequence is the largest sequence number a grade partition can hold.
	MaxSequence = 99999

	codeLength = 2
)

var (
	ErrMalformedID        = fmt.Errorf("%w: id must be 7 digits in format CCNNNNN", domain.ErrValidation)
	ErrInvalidGrade       = fmt.Errorf("%w: invalid grade level", domain.ErrValidation)
	ErrPartitionExhausted = fmt.Errorf("%w: grade partition exhausted", domain.ErrConflict)
)

// GradeMapping describes one grade partition.
type GradeMapping struct {
	Grade       domain.Grade
	Code        string
	Name        string
	Description string
}

var mappings = []GradeMapping{
	{Grade: domain.GradePrimary1, Code: "01", Name: "小学一年级", Description: "Primary Grade 1"},
	{Grade: domain.GradePrimary2, Code: "02", Name: "小学二年级", Description: "Primary Grade 2"},
	{Grade: domain.GradePrimary3, Code: "03", Name: "小学三年级", Description: "Primary Grade 3"},
	{Grade: domain.GradePrimary4, Code: "04", Name: "小学四年级", Description: "Primary Grade 4"},
	{Grade: domain.GradePrimary5, Code: "05", Name: "小学五年级", Description: "Primary Grade 5"},
	{Grade: domain.GradePrimary6, Code: "06", Name: "小学六年级", Description: "Primary Grade 6"},
	{Grade: domain.GradeJunior7, Code: "07", Name: "初中七年级", Description: "Junior High Grade 7"},
	{Grade: domain.GradeJunior8, Code: "08", Name: "初中八年级", Description: "Junior High Grade 8"},
	{Grade: domain.GradeJunior9, Code: "09", Name: "初中九年级", Description: "Junior High Grade 9"},
}

var (
	codeByGrade = make(map[domain.Grade]string, len(mappings))
	gradeByCode = make(map[string]domain.Grade, len(mappings))
)

func init() {
	for _, m := range mappings {
		codeByGrade[m.Grade] = m.Code
		gradeByCode[m.Code] = m.Grade
	}
}

// Grades returns all grade mappings in curriculum order.
func Grades() []GradeMapping {
	return append([]GradeMapping(nil), mappings...)
}

// CodeForGrade returns the two-digit partition code of grade.
func CodeForGrade(grade domain.Grade) (string, error) {
	code, ok := codeByGrade[grade]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, grade)
	}
	return code, nil
}

// Parsed is a decomposed identifier. Grade is empty when the code does not
// map to a known grade.
type Parsed struct {
	GradeCode string
	Sequence  int
	Grade     domain.Grade
}

// ParseID splits id into grade code and sequence. It fails only when id is not
// exactly seven ASCII digits; an unknown grade code is reported through an
// empty Parsed.Grade.
func ParseID(id string) (Parsed, error) {
	if len(id) != Length {
		return Parsed{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return Parsed{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
		}
	}
	seq, err := strconv.Atoi(id[codeLength:])
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	code := id[:codeLength]
	return Parsed{GradeCode: code, Sequence: seq, Grade: gradeByCode[code]}, nil
}

// ValidateID reports whether id is well-formed, maps to a known grade and has
// a sequence in [1, MaxSequence].
func ValidateID(id string) bool {
	p, err := ParseID(id)
	if err != nil {
		return false
	}
	return p.Grade != "" && p.Sequence >= 1 && p.Sequence <= MaxSequence
}

// Format builds an identifier from a grade code and sequence.
func Format(code string, seq int) string {
	return fmt.Sprintf("%s%05d", code, seq)
}

// NextAvailableID returns the identifier following the highest sequence
// already used by grade's partition. Malformed identifiers are ignored.
func NextAvailableID(grade domain.Grade, existingIDs []string) (string, error) {
	code, err := CodeForGrade(grade)
	if err != nil {
		return "", err
	}
	return next(code, maxSequence(code, existingIDs))
}

func maxSequence(code string, ids []string) int {
	highest := 0
	for _, id := range ids {
		p, err := ParseID(id)
		if err != nil || p.GradeCode != code {
			continue
		}
		if p.Sequence > highest {
			highest = p.Sequence
		}
	}
	return highest
}

func next(code string, highest int) (string, error) {
	if highest >= MaxSequence {
		return "", fmt.Errorf("%w: code %s reached %d", ErrPartitionExhausted, code, MaxSequence)
	}
	return Format(code, highest+1), nil
}

// CheckPartition reports whether an entry stored under id may carry grade.
// The grade code is fixed by the identifier, so moving an entry to another
// grade is a domain.ErrConflict. Identifiers that do not parse are not
// checked.
func CheckPartition(id string, grade domain.Grade) error {
	code, err := CodeForGrade(grade)
	if err != nil {
		return err
	}
	p, err := ParseID(id)
	if err != nil || p.GradeCode == code {
		return nil
	}
	return fmt.Errorf("%w: entry %s is in partition %s, grade %s belongs to %s",
		domain.ErrConflict, id, p.GradeCode, grade, code)
}
