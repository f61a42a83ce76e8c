package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/fileparser"
)

// ImportFile parses, validates and writes one file, recording the run as an
// import session.
//
// A parse failure marks the session failed and is reported through the
// result, not the error. Invalid records are counted as failed without
// stopping the import. Only system failures, such as a store write error,
// are returned as errors; the session is then marked failed with a single
// system entry and the partial result is returned alongside the error.
func (s *Service) ImportFile(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	opts := in.Options
	if opts.BatchSize == 0 {
		opts.BatchSize = s.cfg.BatchSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	start := time.Now()
	fileType := resolveFileType(in)

	sess, err := s.sessions.CreateImportSession(ctx, in.FileName, fileType)
	if err != nil {
		return nil, fmt.Errorf("create import session: %w", err)
	}
	res := &Result{SessionID: sess.ID, FileType: fileType}
	if err := s.sessions.StartImportSession(ctx, sess.ID); err != nil {
		return res, s.fail(ctx, res, fmt.Errorf("start import session: %w", err))
	}

	parsed := fileparser.Parse(in.Content, fileType)
	res.Warnings = append(res.Warnings, parsed.Warnings...)
	if !parsed.OK() {
		res.Status = domain.ImportStatusFailed
		for i, msg := range parsed.Errors {
			res.Errors = append(res.Errors, domain.ImportError{Row: i + 1, Field: "file", Message: msg})
		}
		if err := s.complete(ctx, res); err != nil {
			return res, err
		}
		s.log.WarnContext(ctx, "import parse failed",
			slog.String("session_id", res.SessionID),
			slog.String("file", in.FileName),
			slog.String("error", strings.Join(parsed.Errors, "; ")))
		return res, nil
	}

	validation := s.validator.ValidateRecords(parsed.Records)
	res.Validation = &validation
	res.TotalRecords = validation.Total
	res.ValidRecords = validation.ValidCount()
	for _, w := range validation.Warnings {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Row %d: %s", w.Row, w.Message))
	}

	if !opts.ValidateOnly {
		if err := s.writeDrafts(ctx, validation.Valid, opts, res); err != nil {
			return res, s.fail(ctx, res, err)
		}
	}

	for _, inv := range validation.Invalid {
		res.Errors = append(res.Errors, invalidRecordError(inv))
		res.FailedImports++
	}
	sort.SliceStable(res.Errors, func(i, j int) bool { return res.Errors[i].Row < res.Errors[j].Row })

	res.Status = domain.ImportStatusCompleted
	if !opts.ValidateOnly && !res.Reconciled() {
		s.log.ErrorContext(ctx, "import counts do not reconcile",
			slog.String("session_id", res.SessionID),
			slog.Int("total", res.TotalRecords),
			slog.Int("successful", res.SuccessfulImports),
			slog.Int("updated", res.UpdatedExisting),
			slog.Int("failed", res.FailedImports),
			slog.Int("skipped", res.SkippedDuplicates))
	}
	if err := s.complete(ctx, res); err != nil {
		return res, err
	}

	s.log.InfoContext(ctx, "import completed",
		slog.String("session_id", res.SessionID),
		slog.String("file", in.FileName),
		slog.Bool("validate_only", opts.ValidateOnly),
		slog.Int("total", res.TotalRecords),
		slog.Int("successful", res.SuccessfulImports),
		slog.Int("updated", res.UpdatedExisting),
		slog.Int("failed", res.FailedImports),
		slog.Int("skipped", res.SkippedDuplicates),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

// resolveFileType prefers the declared type, then the content, then the
// file extension.
func resolveFileType(in Input) domain.FileType {
	if in.FileType.IsValid() {
		return in.FileType
	}
	if ft := fileparser.DetectFormat(in.Content); ft.IsValid() {
		return ft
	}
	if ft := fileparser.FileTypeFromName(in.FileName); ft.IsValid() {
		return ft
	}
	return domain.FileTypeUnknown
}

// writeDrafts stores valid drafts batch by batch. Duplicate detection is
// sequential: each batch sees the words written by earlier batches and by
// earlier records of the same batch.
func (s *Service) writeDrafts(ctx context.Context, valid []ValidDraft, opts Options, res *Result) error {
	if len(valid) == 0 {
		return nil
	}

	index, err := s.vocab.WordIndex(ctx)
	if err != nil {
		return fmt.Errorf("load existing words: %w", err)
	}

	for start := 0; start < len(valid); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(valid))
		if err := s.writeBatch(ctx, valid[start:end], index, opts, res); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeBatch(ctx context.Context, batch []ValidDraft, index map[string]string, opts Options, res *Result) error {
	var pending []ValidDraft
	pendingPos := make(map[string]int)

	for _, v := range batch {
		key := domain.WordKey(v.Draft.Word)

		if id, exists := index[key]; exists {
			if opts.UpdateExisting {
				updated, err := s.vocab.Update(ctx, id, v.Patch)
				switch {
				case err == nil && updated != nil:
					res.UpdatedExisting++
					continue
				case err == nil:
					// Entry vanished since the index was built; store it anew.
					delete(index, key)
				case domain.IsRecordError(err):
					res.Errors = append(res.Errors, updateError(v, id, err))
					res.FailedImports++
					continue
				default:
					return fmt.Errorf("update %q: %w", v.Draft.Word, err)
				}
			} else if opts.SkipDuplicates {
				res.SkippedDuplicates++
				continue
			}
		}

		if pos, queued := pendingPos[key]; queued {
			if opts.UpdateExisting {
				merged := domain.VocabularyEntry{VocabularyDraft: pending[pos].Draft}
				v.Patch.Apply(&merged)
				pending[pos].Draft = merged.VocabularyDraft
				res.UpdatedExisting++
				continue
			}
			if opts.SkipDuplicates {
				res.SkippedDuplicates++
				continue
			}
		}

		pendingPos[key] = len(pending)
		pending = append(pending, v)
	}

	created, err := s.insert(ctx, pending, res)
	if err != nil {
		return err
	}
	for _, e := range created {
		key := domain.WordKey(e.Word)
		if _, ok := index[key]; !ok {
			index[key] = e.ID
		}
	}
	return nil
}

// insert writes pending with one store call. When the batch is rejected for
// a record-level reason it retries record by record so that one bad draft
// does not sink the rest.
func (s *Service) insert(ctx context.Context, pending []ValidDraft, res *Result) ([]domain.VocabularyEntry, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	drafts := make([]domain.VocabularyDraft, len(pending))
	for i, v := range pending {
		drafts[i] = v.Draft
	}

	created, err := s.vocab.BulkInsert(ctx, drafts)
	if err == nil {
		res.SuccessfulImports += len(created)
		return created, nil
	}
	if !domain.IsRecordError(err) {
		return nil, fmt.Errorf("bulk insert: %w", err)
	}

	s.log.WarnContext(ctx, "batch rejected, inserting records individually",
		slog.Int("size", len(pending)), slog.String("error", err.Error()))

	created = created[:0]
	for _, v := range pending {
		e, err := s.vocab.Insert(ctx, v.Draft)
		switch {
		case err == nil:
			created = append(created, *e)
			res.SuccessfulImports++
		case domain.IsRecordError(err):
			res.Errors = append(res.Errors, systemError(v, err))
			res.FailedImports++
		default:
			return created, fmt.Errorf("insert %q: %w", v.Draft.Word, err)
		}
	}
	return created, nil
}

// fail records a system failure on the session and returns err.
func (s *Service) fail(ctx context.Context, res *Result, err error) error {
	res.Status = domain.ImportStatusFailed
	res.Errors = append(res.Errors, domain.ImportError{Row: 0, Field: "system", Message: err.Error()})

	if cerr := s.complete(ctx, res); cerr != nil {
		s.log.ErrorContext(ctx, "mark import session failed",
			slog.String("session_id", res.SessionID), slog.String("error", cerr.Error()))
	}
	s.log.ErrorContext(ctx, "import failed",
		slog.String("session_id", res.SessionID), slog.String("error", err.Error()))
	return fmt.Errorf("import %s: %w", res.SessionID, err)
}

func (s *Service) complete(ctx context.Context, res *Result) error {
	if _, err := s.sessions.CompleteImportSession(ctx, res.SessionID, res.outcome()); err != nil {
		return fmt.Errorf("complete import session: %w", err)
	}
	return nil
}

func systemError(v ValidDraft, err error) domain.ImportError {
	return domain.ImportError{Row: v.Row, Field: "system", Value: v.Draft.Word, Message: err.Error()}
}

// updateError reports a rejected update of the existing entry id, pointing at
// the grade when the record tried to move the entry out of its partition.
func updateError(v ValidDraft, id string, err error) domain.ImportError {
	ie := domain.ImportError{Row: v.Row, Field: "system", Value: v.Draft.Word, Message: err.Error()}
	if errors.Is(err, domain.ErrConflict) && v.Patch.Grade != nil {
		ie.Field = "grade"
		ie.Value = string(*v.Patch.Grade)
		ie.Message = fmt.Sprintf("existing entry %s cannot change grade: %v", id, err)
	}
	return ie
}

func invalidRecordError(inv InvalidRecord) domain.ImportError {
	ie := domain.ImportError{Row: inv.Row, Field: "unknown"}
	if len(inv.Errors) == 0 {
		return ie
	}
	msgs := make([]string, len(inv.Errors))
	for i, e := range inv.Errors {
		msgs[i] = e.Message
	}
	ie.Field = inv.Errors[0].Field
	ie.Value = valueText(inv.Errors[0].Value)
	ie.Message = strings.Join(msgs, "; ")
	return ie
}
