/**
 * CONTEXT:   The two priority scores that order scheduling decisions
 * INPUT:     A task's frequency, duration, and accumulated displacement
 * OUTPUT:    A scalar used either to pick the next occurrence to place (bottom-up) or the next victim to evict (top-down)
 * BUSINESS:  Infrequent, short tasks are the least displaceable; already-displaced tasks grow more urgent
 * CHANGE:    Initial implementation
 * RISK:      Medium - the two scores are deliberately different and must not be conflated
 */

package scheduler

import "github.com/gmbp/scheduler/internal/domain"

// PlacementPriorityScore orders bottom-up heap candidates: lower is more
// urgent. It is forced to -1 when the task's displacement has already
// reached its hard cap, which sorts it ahead of every other entry for the
// same week in the heap.
func PlacementPriorityScore(taskSequenceWeeks, hrs, deltaWeeks int, hardcap domain.HardCapTable) float64 {
	if hardcap.Reached(taskSequenceWeeks, deltaWeeks) {
		return -1
	}
	return (float64(taskSequenceWeeks) + 1/float64(hrs)) / (1 + float64(deltaWeeks))
}

// VictimPriorityScore orders top-down shift candidates: higher is more
// eligible to be evicted. Infrequent tasks are preferred victims (a delay
// costs them less, proportionally, to displace); among equally-frequent
// tasks, larger-hour tasks are preferred since evicting one frees more
// capacity per move.
func VictimPriorityScore(taskSequenceWeeks, hrs, deltaWeeks int) float64 {
	absDelta := deltaWeeks
	if absDelta < 0 {
		absDelta = -absDelta
	}
	const scale = 0.25
	return float64(taskSequenceWeeks/(absDelta+1)) + scale*float64(hrs)
}
