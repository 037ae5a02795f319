package spacedrep

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestRecordReviewPerfectSequence(t *testing.T) {
	it := NewItem("q1", "algebra", testNow)

	if err := RecordReview(it, 5, testNow); err != nil {
		t.Fatal(err)
	}
	if it.RepetitionCount != 1 || it.IntervalDays != 1 {
		t.Fatalf("after first review: reps=%d interval=%d", it.RepetitionCount, it.IntervalDays)
	}

	if err := RecordReview(it, 5, testNow.AddDate(0, 0, 1)); err != nil {
		t.Fatal(err)
	}
	if it.RepetitionCount != 2 || it.IntervalDays != 6 {
		t.Fatalf("after second review: reps=%d interval=%d", it.RepetitionCount, it.IntervalDays)
	}

	efBefore := it.EaseFactor
	if err := RecordReview(it, 5, testNow.AddDate(0, 0, 7)); err != nil {
		t.Fatal(err)
	}
	if it.RepetitionCount != 3 {
		t.Fatalf("reps = %d, want 3", it.RepetitionCount)
	}
	want := int(math.Round(6 * (efBefore + 0.1)))
	if it.IntervalDays != want {
		t.Fatalf("third interval = %d, want %d", it.IntervalDays, want)
	}
	if it.EaseFactor <= 2.5 {
		t.Fatalf("ease factor %f should have grown past initial 2.5", it.EaseFactor)
	}
}

func TestRecordReviewQualityFiveEaseGrowth(t *testing.T) {
	it := NewItem("q1", "algebra", testNow)
	if err := RecordReview(it, 5, testNow); err != nil {
		t.Fatal(err)
	}
	if math.Abs(it.EaseFactor-2.6) > 1e-9 {
		t.Fatalf("ease factor = %f, want 2.6", it.EaseFactor)
	}
}

func TestRecordReviewLapseResets(t *testing.T) {
	it := NewItem("q1", "algebra", testNow)
	for i := 0; i < 3; i++ {
		if err := RecordReview(it, 5, testNow.AddDate(0, 0, i)); err != nil {
			t.Fatal(err)
		}
	}
	if it.RepetitionCount != 3 {
		t.Fatalf("setup: reps = %d", it.RepetitionCount)
	}

	lapseAt := testNow.AddDate(0, 0, 30)
	if err := RecordReview(it, 2, lapseAt); err != nil {
		t.Fatal(err)
	}
	if it.RepetitionCount != 0 {
		t.Fatalf("reps = %d, want reset to 0", it.RepetitionCount)
	}
	if it.IntervalDays != 1 {
		t.Fatalf("interval = %d, want 1", it.IntervalDays)
	}
	if !it.DueAt.Equal(lapseAt.AddDate(0, 0, 1)) {
		t.Fatalf("due = %v, want next day", it.DueAt)
	}
}

func TestRecordReviewEaseFactorFloor(t *testing.T) {
	it := NewItem("q1", "algebra", testNow)
	for i := 0; i < 20; i++ {
		if err := RecordReview(it, 0, testNow.AddDate(0, 0, i)); err != nil {
			t.Fatal(err)
		}
	}
	if it.EaseFactor != MinEaseFactor {
		t.Fatalf("ease factor = %f, want floor %f", it.EaseFactor, MinEaseFactor)
	}
}

func TestRecordReviewQualityThreeKeepsProgress(t *testing.T) {
	it := NewItem("q1", "algebra", testNow)
	efBefore := it.EaseFactor
	if err := RecordReview(it, 3, testNow); err != nil {
		t.Fatal(err)
	}
	if it.RepetitionCount != 1 {
		t.Fatalf("reps = %d, want 1", it.RepetitionCount)
	}
	if it.EaseFactor >= efBefore {
		t.Fatalf("quality 3 should lower ease factor: %f -> %f", efBefore, it.EaseFactor)
	}
}

func TestRecordReviewInvalidQuality(t *testing.T) {
	it := NewItem("q1", "algebra", testNow)
	before := *it
	for _, q := range []int{-1, 6, 99} {
		err := RecordReview(it, q, testNow)
		var iq *InvalidQualityError
		if !errors.As(err, &iq) {
			t.Fatalf("quality %d: got %v, want InvalidQualityError", q, err)
		}
		if iq.Quality != q {
			t.Fatalf("error carries quality %d, want %d", iq.Quality, q)
		}
	}
	if *it != before {
		t.Fatal("item mutated by rejected review")
	}
}

func TestRecordReviewCountsAccuracy(t *testing.T) {
	it := NewItem("q1", "algebra", testNow)
	for i, q := range []int{5, 4, 2, 3} {
		if err := RecordReview(it, q, testNow.AddDate(0, 0, i)); err != nil {
			t.Fatal(err)
		}
	}
	if it.TimesReviewed != 4 || it.TimesCorrect != 3 {
		t.Fatalf("reviewed=%d correct=%d, want 4/3", it.TimesReviewed, it.TimesCorrect)
	}
	if math.Abs(it.Accuracy()-0.75) > 1e-9 {
		t.Fatalf("accuracy = %f, want 0.75", it.Accuracy())
	}
}

func TestDueItemsFiltersAndSorts(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	lastWeek := testNow.AddDate(0, 0, -7)
	tomorrow := testNow.AddDate(0, 0, 1)

	a := &ReviewItem{ID: "a", DueAt: yesterday, EaseFactor: 2.5}
	b := &ReviewItem{ID: "b", DueAt: lastWeek, EaseFactor: 2.5}
	c := &ReviewItem{ID: "c", DueAt: yesterday, EaseFactor: 1.3}
	d := &ReviewItem{ID: "d", DueAt: tomorrow, EaseFactor: 2.5}
	e := &ReviewItem{ID: "e", DueAt: testNow, EaseFactor: 2.5}

	due := DueItems([]*ReviewItem{a, b, c, d, e}, testNow)

	got := make([]string, len(due))
	for i, it := range due {
		got[i] = it.ID
	}
	want := []string{"b", "c", "a", "e"}
	if len(got) != len(want) {
		t.Fatalf("due items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("due items = %v, want %v", got, want)
		}
	}
}

func TestNewItemsLimit(t *testing.T) {
	items := []*ReviewItem{
		{ID: "a"},
		{ID: "b", TimesReviewed: 2},
		{ID: "c"},
		{ID: "d"},
	}
	fresh := NewItems(items, 2)
	if len(fresh) != 2 || fresh[0].ID != "a" || fresh[1].ID != "c" {
		t.Fatalf("new items = %v", fresh)
	}
	if got := NewItems(items, 0); len(got) != 3 {
		t.Fatalf("uncapped new items = %d, want 3", len(got))
	}
}

func TestAdjustDifficulty(t *testing.T) {
	strong := &ReviewItem{TimesReviewed: 10, TimesCorrect: 10}
	weak := &ReviewItem{TimesReviewed: 10, TimesCorrect: 2}
	mid := &ReviewItem{TimesReviewed: 10, TimesCorrect: 6}

	tests := []struct {
		name    string
		current string
		item    *ReviewItem
		correct bool
		want    string
	}{
		{"step up from easy", DifficultyEasy, strong, true, DifficultyMedium},
		{"step up from medium", DifficultyMedium, strong, true, DifficultyHard},
		{"hard stays hard", DifficultyHard, strong, true, DifficultyHard},
		{"step down from hard", DifficultyHard, weak, false, DifficultyMedium},
		{"step down from medium", DifficultyMedium, weak, false, DifficultyEasy},
		{"easy stays easy", DifficultyEasy, weak, false, DifficultyEasy},
		{"average accuracy holds", DifficultyMedium, mid, true, DifficultyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustDifficulty(tt.current, tt.item, tt.correct); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}
