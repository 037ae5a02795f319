package spacedrep

import (
	"math"
	"sort"
	"time"
)

// RecordReview applies one SM-2 update to the item for the given recall
// quality, setting the new ease factor, repetition count, interval and
// due date. Quality outside 0-5 is rejected with InvalidQualityError
// before any state changes.
func RecordReview(item *ReviewItem, quality int, now time.Time) error {
	if quality < MinQuality || quality > MaxQuality {
		return &InvalidQualityError{Quality: quality}
	}

	// EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), floored at 1.3.
	miss := float64(MaxQuality - quality)
	ef := item.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	item.EaseFactor = ef

	if quality < 3 {
		// Lapse: restart the ladder.
		item.RepetitionCount = 0
		item.IntervalDays = 1
	} else {
		item.RepetitionCount++
		switch item.RepetitionCount {
		case 1:
			item.IntervalDays = 1
		case 2:
			item.IntervalDays = 6
		default:
			item.IntervalDays = int(math.Round(float64(item.IntervalDays) * ef))
		}
	}

	item.DueAt = now.AddDate(0, 0, item.IntervalDays)
	item.TimesReviewed++
	if quality >= 3 {
		item.TimesCorrect++
	}
	item.LastReviewed = &now
	return nil
}

// DueItems returns the items due at or before asOf, ordered by due date
// ascending with ties broken by ascending ease factor, so the weakest
// items surface first.
func DueItems(items []*ReviewItem, asOf time.Time) []*ReviewItem {
	var due []*ReviewItem
	for _, it := range items {
		if it.IsDue(asOf) {
			due = append(due, it)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].EaseFactor < due[j].EaseFactor
	})
	return due
}

// NewItems returns items that have never been reviewed, up to limit.
// A limit <= 0 means no cap.
func NewItems(items []*ReviewItem, limit int) []*ReviewItem {
	var fresh []*ReviewItem
	for _, it := range items {
		if it.IsNew() {
			fresh = append(fresh, it)
			if limit > 0 && len(fresh) == limit {
				break
			}
		}
	}
	return fresh
}

// Difficulty bands for adaptive question difficulty.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// AdjustDifficulty steps a question's difficulty band based on the
// learner's historical accuracy on the item: items answered correctly
// over 90% of the time step up, items under 40% step down.
func AdjustDifficulty(current string, item *ReviewItem, correct bool) string {
	acc := item.Accuracy()
	switch {
	case correct && acc > 0.9:
		if current == DifficultyEasy {
			return DifficultyMedium
		}
		if current == DifficultyMedium {
			return DifficultyHard
		}
	case !correct && acc < 0.4:
		if current == DifficultyHard {
			return DifficultyMedium
		}
		if current == DifficultyMedium {
			return DifficultyEasy
		}
	}
	return current
}
