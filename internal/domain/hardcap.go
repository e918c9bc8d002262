package domain

// HardCapTable maps task_sequence_weeks to the maximum allowed |delta_weeks|
// for tasks at that frequency. An empty table means no hard caps apply.
type HardCapTable map[int]int

// CapFor returns the cap for a frequency and whether one is defined.
func (h HardCapTable) CapFor(taskSequenceWeeks int) (int, bool) {
	limit, ok := h[taskSequenceWeeks]
	return limit, ok
}

// Reached reports whether delta has hit or exceeded the cap for this
// frequency. Returns false when no cap is defined for the frequency.
func (h HardCapTable) Reached(taskSequenceWeeks, delta int) bool {
	limit, ok := h[taskSequenceWeeks]
	if !ok {
		return false
	}
	if delta < 0 {
		delta = -delta
	}
	return delta >= limit
}
