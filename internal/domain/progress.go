package domain

import (
	"strings"
	"time"
)

// EbbinghausDays are the review offsets, in days, of the spaced-repetition
// schedule.
var EbbinghausDays = [5]int{1, 3, 7, 15, 30}

// EbbinghausSchedule records which review checkpoints a learner has passed.
type EbbinghausSchedule struct {
	Day1  bool `json:"day1"`
	Day3  bool `json:"day3"`
	Day7  bool `json:"day7"`
	Day15 bool `json:"day15"`
	Day30 bool `json:"day30"`
}

func (s EbbinghausSchedule) flags() [5]bool {
	return [5]bool{s.Day1, s.Day3, s.Day7, s.Day15, s.Day30}
}

// NextReviewAt returns when the first unpassed checkpoint falls, counted from
// start. ok is false once every checkpoint is done.
func (s EbbinghausSchedule) NextReviewAt(start time.Time) (time.Time, bool) {
	for i, done := range s.flags() {
		if !done {
			return start.AddDate(0, 0, EbbinghausDays[i]), true
		}
	}
	return time.Time{}, false
}

// UserProgress tracks one learner's progress on one vocabulary entry.
type UserProgress struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"userId"`
	VocabularyID       string             `json:"vocabularyId"`
	IsLearned          bool               `json:"isLearned"`
	MasteryLevel       int                `json:"masteryLevel"`
	ReviewCount        int                `json:"reviewCount"`
	LastReviewedAt     *time.Time         `json:"lastReviewedAt,omitempty"`
	NextReviewAt       *time.Time         `json:"nextReviewAt,omitempty"`
	EbbinghausSchedule EbbinghausSchedule `json:"ebbinghausSchedule"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// NeedsReview reports whether a review is due at now.
func (p UserProgress) NeedsReview(now time.Time) bool {
	return p.NextReviewAt != nil && !p.NextReviewAt.After(now)
}

// UserProgressDraft is the caller-supplied part of a new UserProgress.
type UserProgressDraft struct {
	UserID             string
	VocabularyID       string
	IsLearned          bool
	MasteryLevel       int
	ReviewCount        int
	LastReviewedAt     *time.Time
	NextReviewAt       *time.Time
	EbbinghausSchedule EbbinghausSchedule
}

func (d UserProgressDraft) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(d.UserID) == "" {
		errs = append(errs, FieldError{Field: "userId", Message: "required"})
	}
	if strings.TrimSpace(d.VocabularyID) == "" {
		errs = append(errs, FieldError{Field: "vocabularyId", Message: "required"})
	}
	if d.MasteryLevel != 0 && (d.MasteryLevel < MinMasteryLevel || d.MasteryLevel > MaxMasteryLevel) {
		errs = append(errs, FieldError{Field: "masteryLevel", Message: "must be between 1 and 5"})
	}
	if d.ReviewCount < 0 {
		errs = append(errs, FieldError{Field: "reviewCount", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
