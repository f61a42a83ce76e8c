package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/service/importer"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
	"github.com/heartmarshall/hengshui-vocab/internal/vocabid"
)

type importReportJSON struct {
	SessionID         string               `json:"sessionId"`
	Status            domain.ImportStatus  `json:"status"`
	FileType          domain.FileType      `json:"fileType"`
	TotalRecords      int                  `json:"totalRecords"`
	SuccessfulImports int                  `json:"successfulImports"`
	FailedImports     int                  `json:"failedImports"`
	SkippedDuplicates int                  `json:"skippedDuplicates"`
	UpdatedExisting   int                  `json:"updatedExisting"`
	Errors            []domain.ImportError `json:"errors"`
	Warnings          []string             `json:"warnings"`
}

func importReport(r *importer.Result) importReportJSON {
	return importReportJSON{
		SessionID:         r.SessionID,
		Status:            r.Status,
		FileType:          r.FileType,
		TotalRecords:      r.TotalRecords,
		SuccessfulImports: r.SuccessfulImports,
		FailedImports:     r.FailedImports,
		SkippedDuplicates: r.SkippedDuplicates,
		UpdatedExisting:   r.UpdatedExisting,
		Errors:            r.Errors,
		Warnings:          r.Warnings,
	}
}

func printImportResult(w io.Writer, r *importer.Result) {
	fmt.Fprintf(w, "Session:  %s\n", r.SessionID)
	fmt.Fprintf(w, "Status:   %s\n", r.Status)
	fmt.Fprintf(w, "Type:     %s\n", r.FileType)
	fmt.Fprintf(w, "Total:    %d\n", r.TotalRecords)
	fmt.Fprintf(w, "Imported: %d\n", r.SuccessfulImports)
	fmt.Fprintf(w, "Updated:  %d\n", r.UpdatedExisting)
	fmt.Fprintf(w, "Skipped:  %d\n", r.SkippedDuplicates)
	fmt.Fprintf(w, "Failed:   %d\n", r.FailedImports)
	printImportErrors(w, r.Errors)
	for _, warn := range r.Warnings {
		fmt.Fprintln(w, "warning:", warn)
	}
}

func printImportErrors(w io.Writer, errs []domain.ImportError) {
	for _, e := range errs {
		fmt.Fprintf(w, "Row %d [%s] %s", e.Row, e.Field, e.Message)
		if e.Value != "" {
			fmt.Fprintf(w, " (value: %s)", e.Value)
		}
		fmt.Fprintln(w)
	}
}

type validationReportJSON struct {
	FileType   domain.FileType      `json:"fileType"`
	Total      int                  `json:"total"`
	Valid      int                  `json:"valid"`
	Invalid    []invalidRecordJSON  `json:"invalid"`
	Warnings   []issueJSON          `json:"warnings"`
	Duplicates []importer.Duplicate `json:"duplicates"`
}

type invalidRecordJSON struct {
	Row    int         `json:"row"`
	Errors []issueJSON `json:"errors"`
}

type issueJSON struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validationReport(ft domain.FileType, r importer.ValidationResult, dups []importer.Duplicate) validationReportJSON {
	out := validationReportJSON{
		FileType:   ft,
		Total:      r.Total,
		Valid:      r.ValidCount(),
		Invalid:    make([]invalidRecordJSON, 0, len(r.Invalid)),
		Warnings:   make([]issueJSON, 0, len(r.Warnings)),
		Duplicates: dups,
	}
	for _, inv := range r.Invalid {
		rec := invalidRecordJSON{Row: inv.Row}
		for _, e := range inv.Errors {
			rec.Errors = append(rec.Errors, issueJSON{Row: e.Row, Field: e.Field, Message: e.Message})
		}
		out.Invalid = append(out.Invalid, rec)
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, issueJSON{Row: w.Row, Field: w.Field, Message: w.Message})
	}
	return out
}

func printEntries(w io.Writer, entries []domain.VocabularyEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWORD\tTRANSLATION\tGRADE\tCATEGORY\tFREQ\tPOS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			e.ID, e.Word, e.Translation, e.Grade, e.Category, e.Frequency, e.PartOfSpeech)
	}
	return tw.Flush()
}

func printStats(w io.Writer, info store.Info) error {
	fmt.Fprintf(w, "Location:    %s\n", info.Location)
	if info.Size >= 0 {
		fmt.Fprintf(w, "Size:        %d bytes\n", info.Size)
	}
	fmt.Fprintf(w, "Version:     %s\n", info.Version)
	fmt.Fprintf(w, "Vocabulary:  %d\n", info.Stats.TotalVocabulary)
	fmt.Fprintf(w, "Categories:  %d\n", info.Stats.TotalCategories)
	fmt.Fprintf(w, "Users:       %d\n", info.Stats.TotalUsers)
	fmt.Fprintf(w, "Updated:     %s\n", formatTime(&info.Stats.LastUpdated))
	fmt.Fprintf(w, "Last backup: %s\n", formatTime(info.LastBackup))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nGRADE\tWORDS")
	for _, m := range vocabid.Grades() {
		fmt.Fprintf(tw, "%s\t%d\n", m.Grade, info.Stats.VocabularyByGrade[m.Grade])
	}
	return tw.Flush()
}

func printSessions(w io.Writer, sessions []domain.ImportSession) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tTYPE\tSTATUS\tTOTAL\tOK\tUPDATED\tSKIPPED\tFAILED\tCREATED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			s.ID, s.FileName, s.FileType, s.Status, s.TotalRecords, s.SuccessfulImports,
			s.UpdatedExisting, s.SkippedDuplicates, s.FailedImports, formatTime(&s.CreatedAt))
	}
	return tw.Flush()
}

func printBackups(w io.Writer, backups []store.BackupInfo) error {
	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSIZE\tLOCATION")
	for _, b := range backups {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", formatTime(&b.CreatedAt), b.Size, b.Location)
	}
	return tw.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
