package importer

import (
	"fmt"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

// DefaultBatchSize is used when neither the options nor the config set one.
const DefaultBatchSize = 100

// Options controls how parsed records are written.
type Options struct {
	// SkipDuplicates counts a record whose word already exists as skipped.
	SkipDuplicates bool
	// UpdateExisting merges a duplicate record onto the existing entry. It
	// takes precedence over SkipDuplicates.
	UpdateExisting bool
	// ValidateOnly parses and validates without writing any vocabulary.
	ValidateOnly bool
	// BatchSize is the number of records written per store call.
	BatchSize int
}

// Input is one file to import.
type Input struct {
	FileName string
	// FileType may be empty or unknown; the format is then sniffed from the
	// content and, failing that, from the file name.
	FileType domain.FileType
	Content  string
	Options  Options
}

// Validate checks the input for structural errors.
func (i Input) Validate() error {
	var errs []domain.FieldError

	if i.FileType != "" && i.FileType != domain.FileTypeUnknown && !i.FileType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "fileType", Message: fmt.Sprintf("unsupported file type %q", i.FileType)})
	}
	if i.Options.BatchSize < 0 {
		errs = append(errs, domain.FieldError{Field: "batchSize", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
