package quiz

import (
	"testing"
	"time"

	"github.com/asengupta/mentor/internal/spacedrep"
)

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"daily_review", "new_material", "mixed"} {
		mode, err := ParseMode(valid)
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", valid, err)
		}
		if string(mode) != valid {
			t.Errorf("ParseMode(%q) = %q", valid, mode)
		}
	}
	if _, err := ParseMode("cram"); err == nil {
		t.Error("ParseMode accepted unknown mode")
	}
}

func dueItem(id, topic string, now time.Time) *spacedrep.ReviewItem {
	it := spacedrep.NewItem(id, topic, now.AddDate(0, 0, -30))
	it.TimesReviewed = 3
	it.DueAt = now.AddDate(0, 0, -1)
	return it
}

func futureItem(id, topic string, now time.Time) *spacedrep.ReviewItem {
	it := spacedrep.NewItem(id, topic, now)
	it.TimesReviewed = 3
	it.DueAt = now.AddDate(0, 0, 5)
	return it
}

func TestBuildQueueDailyReview(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []*spacedrep.ReviewItem{
		dueItem("a", "go", now),
		futureItem("b", "go", now),
		dueItem("c", "sql", now),
	}

	queue, err := BuildQueue(items, ModeDailyReview, 10, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue length = %d, want 2", len(queue))
	}
	for _, it := range queue {
		if it.ID == "b" {
			t.Error("not-yet-due item included in daily review")
		}
	}
}

func TestBuildQueueNewMaterialOnly(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []*spacedrep.ReviewItem{
		dueItem("a", "go", now),
		spacedrep.NewItem("b", "go", now),
		spacedrep.NewItem("c", "sql", now),
	}

	queue, err := BuildQueue(items, ModeNewMaterial, 10, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue length = %d, want 2", len(queue))
	}
	for _, it := range queue {
		if !it.IsNew() {
			t.Errorf("reviewed item %q included in new-material session", it.ID)
		}
	}
}

// A mixed session capped below the size of the review backlog must
// still make room for at least one new item.
func TestBuildQueueMixedGuaranteesNewItem(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []*spacedrep.ReviewItem{
		dueItem("r1", "go", now),
		dueItem("r2", "go", now),
		dueItem("r3", "go", now),
		dueItem("r4", "go", now),
		spacedrep.NewItem("n1", "sql", now),
	}

	queue, err := BuildQueue(items, ModeMixed, 3, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 3 {
		t.Fatalf("queue length = %d, want 3", len(queue))
	}
	hasNew := false
	for _, it := range queue {
		if it.IsNew() {
			hasNew = true
		}
	}
	if !hasNew {
		t.Error("capped mixed queue contains no new item")
	}
}

func TestBuildQueueUnknownMode(t *testing.T) {
	if _, err := BuildQueue(nil, Mode("cram"), 5, time.Now()); err == nil {
		t.Error("expected error for unknown mode")
	}
}

// With three topics weighted 4/2/2 the queue admits an ordering with no
// same-topic neighbors, and interleaving must find one.
func TestInterleaveAvoidsAdjacentTopics(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var items []*spacedrep.ReviewItem
	for _, spec := range []struct {
		topic string
		n     int
	}{{"go", 4}, {"sql", 2}, {"http", 2}} {
		for i := 0; i < spec.n; i++ {
			items = append(items, dueItem(spec.topic+string(rune('0'+i)), spec.topic, now))
		}
	}

	queue, err := BuildQueue(items, ModeDailyReview, 0, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != len(items) {
		t.Fatalf("queue length = %d, want %d", len(queue), len(items))
	}
	for i := 1; i < len(queue); i++ {
		if queue[i].TopicID == queue[i-1].TopicID {
			t.Errorf("positions %d and %d share topic %q", i-1, i, queue[i].TopicID)
		}
	}
}

func TestInterleaveSingleTopicUnchanged(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []*spacedrep.ReviewItem{
		dueItem("a", "go", now),
		dueItem("b", "go", now),
		dueItem("c", "go", now),
	}
	out := interleave(items)
	for i, it := range items {
		if out[i] != it {
			t.Fatalf("single-topic queue reordered at %d", i)
		}
	}
}
