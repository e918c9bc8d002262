/**
 * CONTEXT:   Priority queue backing the bottom-up strategies
 * INPUT:     Candidate occurrences, each carrying a PlacementPriorityScore
 * OUTPUT:    The next occurrence to place: earliest scheduled week first, lowest score within a week
 * BUSINESS:  Bottom-up strategies fill weeks in calendar order, placing the most urgent occurrence of a week first
 * CHANGE:    Initial implementation
 * RISK:      Low - container/heap wrapper, no business logic beyond ordering
 */

package scheduler

import (
	"container/heap"

	"github.com/gmbp/scheduler/internal/domain"
)

// candidate is one entry in the placement heap: an occurrence pending
// placement together with the score it was assigned at enqueue time.
type candidate struct {
	occurrence domain.Occurrence
	score      float64
	sequence   int // final tie-breaker: insertion order, for a stable total ordering
}

// placementHeap is a min-heap total-ordered by (scheduled_week, score, key) -
// per-§9's guidance, keyed on a real date type rather than a zero-padded ISO
// string, with insertion order as a last-resort tiebreak for identical keys.
type placementHeap []*candidate

func (h placementHeap) Len() int { return len(h) }

func (h placementHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if !a.occurrence.ScheduledWeek.Equal(b.occurrence.ScheduledWeek) {
		return a.occurrence.ScheduledWeek.Before(b.occurrence.ScheduledWeek)
	}
	if a.score != b.score {
		return a.score < b.score
	}
	if a.occurrence.Key != b.occurrence.Key {
		return a.occurrence.Key < b.occurrence.Key
	}
	return a.sequence < b.sequence
}

func (h placementHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *placementHeap) Push(x interface{}) {
	*h = append(*h, x.(*candidate))
}

func (h *placementHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// PlacementQueue is a priority queue of pending occurrences ordered by
// ScheduledWeek, earliest first, then by PlacementPriorityScore, lowest
// first, then by Key. Callers push with the score they
// computed for the occurrence at enqueue time; the queue does not
// recompute scores on its own, since the bottom-up strategies deliberately
// rescore a task after each placement before re-pushing it.
type PlacementQueue struct {
	h    placementHeap
	next int
}

// NewPlacementQueue returns an empty queue ready for use.
func NewPlacementQueue() *PlacementQueue {
	q := &PlacementQueue{}
	heap.Init(&q.h)
	return q
}

// Push enqueues occ with the given priority score.
func (q *PlacementQueue) Push(occ domain.Occurrence, score float64) {
	heap.Push(&q.h, &candidate{occurrence: occ, score: score, sequence: q.next})
	q.next++
}

// Pop removes and returns the lowest-scored occurrence of the earliest
// queued week, and its score. It
// panics if the queue is empty; callers must check Len first.
func (q *PlacementQueue) Pop() (domain.Occurrence, float64) {
	c := heap.Pop(&q.h).(*candidate)
	return c.occurrence, c.score
}

// Len reports how many occurrences remain queued.
func (q *PlacementQueue) Len() int { return q.h.Len() }
