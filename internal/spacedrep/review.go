// Package spacedrep implements the SM-2 family spaced repetition
// scheduler that decides when each practice question comes due again.
//
// Quality ratings (0-5):
//
//	0 - complete blackout
//	1 - incorrect, but recognized the answer
//	2 - incorrect, but it seemed easy
//	3 - correct with serious difficulty
//	4 - correct with hesitation
//	5 - perfect response
package spacedrep

import "time"

// MinEaseFactor is the floor below which an item's ease factor never
// falls, per SM-2.
const MinEaseFactor = 1.3

// InitialEaseFactor is the ease factor assigned to brand new items.
const InitialEaseFactor = 2.5

// MinQuality and MaxQuality bound the accepted recall grades.
const (
	MinQuality = 0
	MaxQuality = 5
)

// ReviewItem holds the spaced repetition state for one practice
// question. Owned by the scheduler: fields are mutated only through
// RecordReview.
type ReviewItem struct {
	ID      string
	TopicID string

	// EaseFactor is the interval growth multiplier, always >= 1.3.
	EaseFactor float64

	// IntervalDays is the current review interval. Non-decreasing across
	// consecutive successful reviews; resets to 1 on a lapse.
	IntervalDays int

	// RepetitionCount is the number of consecutive successful reviews.
	RepetitionCount int

	// DueAt is when the item next comes due.
	DueAt time.Time

	TimesReviewed int
	TimesCorrect  int
	LastReviewed  *time.Time
}

// NewItem creates a fresh review item due immediately.
func NewItem(id, topicID string, now time.Time) *ReviewItem {
	return &ReviewItem{
		ID:         id,
		TopicID:    topicID,
		EaseFactor: InitialEaseFactor,
		DueAt:      now,
	}
}

// IsDue reports whether the item is due at or before the given time.
func (it *ReviewItem) IsDue(asOf time.Time) bool {
	return !it.DueAt.After(asOf)
}

// IsNew reports whether the item has never been reviewed.
func (it *ReviewItem) IsNew() bool {
	return it.TimesReviewed == 0
}

// Accuracy returns the item's historical correct-answer ratio.
func (it *ReviewItem) Accuracy() float64 {
	if it.TimesReviewed == 0 {
		return 0
	}
	return float64(it.TimesCorrect) / float64(it.TimesReviewed)
}
