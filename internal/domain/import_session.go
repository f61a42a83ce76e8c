package domain

import "time"

// ImportSession is the audit record of one bulk import.
type ImportSession struct {
	ID                string        `json:"id"`
	FileName          string        `json:"fileName"`
	FileType          FileType      `json:"fileType"`
	TotalRecords      int           `json:"totalRecords"`
	SuccessfulImports int           `json:"successfulImports"`
	FailedImports     int           `json:"failedImports"`
	SkippedDuplicates int           `json:"skippedDuplicates"`
	UpdatedExisting   int           `json:"updatedExisting"`
	Errors            []ImportError `json:"errors"`
	Status            ImportStatus  `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	CompletedAt       *time.Time    `json:"completedAt,omitempty"`
}

// ImportError describes why one input row was not imported. Row is 1-based;
// row 0 marks a failure not tied to any row.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"error"`
}

// ImportOutcome carries the final counters written to a session when it
// reaches a terminal state.
type ImportOutcome struct {
	Status            ImportStatus
	TotalRecords      int
	SuccessfulImports int
	FailedImports     int
	SkippedDuplicates int
	UpdatedExisting   int
	Errors            []ImportError
}
