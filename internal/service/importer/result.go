package importer

import "github.com/heartmarshall/hengshui-vocab/internal/domain"

// Result summarizes one import call.
type Result struct {
	SessionID string
	Status    domain.ImportStatus
	FileType  domain.FileType

	TotalRecords      int
	SuccessfulImports int
	FailedImports     int
	SkippedDuplicates int
	UpdatedExisting   int
	// ValidRecords is the number of records that passed validation.
	ValidRecords int

	Errors   []domain.ImportError
	Warnings []string

	// Validation is nil when parsing failed.
	Validation *ValidationResult
}

// Reconciled reports whether every record is accounted for exactly once.
// It holds for every completed write import.
func (r *Result) Reconciled() bool {
	return r.SuccessfulImports+r.UpdatedExisting+r.FailedImports+r.SkippedDuplicates == r.TotalRecords
}

func (r *Result) outcome() domain.ImportOutcome {
	return domain.ImportOutcome{
		Status:            r.Status,
		TotalRecords:      r.TotalRecords,
		SuccessfulImports: r.SuccessfulImports,
		FailedImports:     r.FailedImports,
		SkippedDuplicates: r.SkippedDuplicates,
		UpdatedExisting:   r.UpdatedExisting,
		Errors:            r.Errors,
	}
}
