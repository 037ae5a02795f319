package quiz

import (
	"fmt"
	"time"

	"github.com/asengupta/mentor/internal/spacedrep"
)

// Mode selects which question pool a session draws from.
type Mode string

const (
	// ModeDailyReview serves only items whose review is due.
	ModeDailyReview Mode = "daily_review"
	// ModeNewMaterial serves only items never reviewed.
	ModeNewMaterial Mode = "new_material"
	// ModeMixed blends due reviews with new material.
	ModeMixed Mode = "mixed"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDailyReview, ModeNewMaterial, ModeMixed:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown session mode: %q", s)
}

// BuildQueue selects and orders the items for a session. The queue is
// capped at maxQuestions (<= 0 means no cap) and interleaved so the
// learner does not face long same-topic runs.
//
// Mixed mode draws due items first but always includes at least one new
// item when any exist, so fresh material is never starved by a review
// backlog.
func BuildQueue(items []*spacedrep.ReviewItem, mode Mode, maxQuestions int, now time.Time) ([]*spacedrep.ReviewItem, error) {
	var pool []*spacedrep.ReviewItem

	switch mode {
	case ModeDailyReview:
		pool = spacedrep.DueItems(items, now)
	case ModeNewMaterial:
		pool = spacedrep.NewItems(items, maxQuestions)
	case ModeMixed:
		pool = spacedrep.DueItems(items, now)
		fresh := spacedrep.NewItems(items, 0)
		pool = append(pool, freshNotInPool(pool, fresh)...)
		if maxQuestions > 0 && len(pool) > maxQuestions {
			pool = pool[:maxQuestions]
			// The cap may have cut every new item. Swap one back in.
			if !containsNew(pool) && len(fresh) > 0 {
				pool[len(pool)-1] = fresh[0]
			}
		}
	default:
		return nil, fmt.Errorf("unknown session mode: %q", mode)
	}

	if maxQuestions > 0 && len(pool) > maxQuestions {
		pool = pool[:maxQuestions]
	}

	return interleave(pool), nil
}

// freshNotInPool filters out new items already present in the pool. Due
// items are never new, so in practice this only guards against an item
// appearing in both slices.
func freshNotInPool(pool, fresh []*spacedrep.ReviewItem) []*spacedrep.ReviewItem {
	seen := make(map[string]bool, len(pool))
	for _, it := range pool {
		seen[it.ID] = true
	}
	var out []*spacedrep.ReviewItem
	for _, it := range fresh {
		if !seen[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

func containsNew(items []*spacedrep.ReviewItem) bool {
	for _, it := range items {
		if it.IsNew() {
			return true
		}
	}
	return false
}

// interleave reorders the queue across topics, preserving relative
// order within each topic, so no two consecutive entries share a topic
// whenever the topic counts allow it. Each slot takes from the topic
// with the most items remaining, skipping the topic just emitted; ties
// go to the topic seen earliest in the input, which keeps the result
// deterministic.
func interleave(items []*spacedrep.ReviewItem) []*spacedrep.ReviewItem {
	if len(items) < 3 {
		return items
	}

	var topicOrder []string
	byTopic := make(map[string][]*spacedrep.ReviewItem)
	for _, it := range items {
		if _, ok := byTopic[it.TopicID]; !ok {
			topicOrder = append(topicOrder, it.TopicID)
		}
		byTopic[it.TopicID] = append(byTopic[it.TopicID], it)
	}
	if len(topicOrder) == 1 {
		return items
	}

	out := make([]*spacedrep.ReviewItem, 0, len(items))
	last := ""
	for len(out) < len(items) {
		pick := ""
		for _, topic := range topicOrder {
			if len(byTopic[topic]) == 0 || topic == last {
				continue
			}
			if pick == "" || len(byTopic[topic]) > len(byTopic[pick]) {
				pick = topic
			}
		}
		if pick == "" {
			// Only the last-emitted topic has items left.
			pick = last
		}
		out = append(out, byTopic[pick][0])
		byTopic[pick] = byTopic[pick][1:]
		last = pick
	}
	return out
}
