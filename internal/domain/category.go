package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxCategoryNameLength        = 50
	MaxCategoryDescriptionLength = 500
)

// Category is an informational grouping label. Vocabulary entries reference
// categories by free-text name; nothing enforces the link.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	GradeLevel  Grade     `json:"gradeLevel"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryDraft is the caller-supplied part of a new Category.
type CategoryDraft struct {
	Name        string
	Description string
	GradeLevel  Grade
	Color       string
	Icon        string
}

func (d CategoryDraft) Validate() error {
	var errs []FieldError
	switch n := utf8.RuneCountInString(strings.TrimSpace(d.Name)); {
	case n == 0:
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	case n > MaxCategoryNameLength:
		errs = append(errs, FieldError{Field: "name", Message: "must be 1-50 characters"})
	}
	if utf8.RuneCountInString(d.Description) > MaxCategoryDescriptionLength {
		errs = append(errs, FieldError{Field: "description", Message: "must be less than 500 characters"})
	}
	if !d.GradeLevel.IsValid() {
		errs = append(errs, FieldError{Field: "gradeLevel", Message: fmt.Sprintf("unknown grade %q", d.GradeLevel)})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
