/**
 * CONTEXT:   In-memory week-master index used by every packing/insertion strategy
 * INPUT:     The external week-master table
 * OUTPUT:    A Monday-keyed lookup plus the chronological week ordering the strategies walk
 * BUSINESS:  The core never rebuilds this from scratch per shift - it is built once per run
 * CHANGE:    Initial implementation
 * RISK:      Low - read-mostly index over static capacity data
 */

package scheduler

import (
	"sort"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// WeekIndex is a Monday-keyed view over the week-master, with the weeks
// available in chronological order for strategies that must walk the
// calendar or find the first/last covered week.
type WeekIndex struct {
	rows  map[time.Time]domain.WeekMasterRow
	order []time.Time
}

// NewWeekIndex builds the index from the raw week-master rows. Rows are
// re-keyed on MondayOf in case the caller's dates carry a time-of-day.
func NewWeekIndex(rows []domain.WeekMasterRow) *WeekIndex {
	idx := &WeekIndex{rows: make(map[time.Time]domain.WeekMasterRow, len(rows))}
	for _, r := range rows {
		week := MondayOf(r.ScheduledWeek)
		idx.rows[week] = r
		idx.order = append(idx.order, week)
	}
	sort.Slice(idx.order, func(i, j int) bool { return idx.order[i].Before(idx.order[j]) })
	return idx
}

// Row returns the week-master row for week, and whether it exists.
func (w *WeekIndex) Row(week time.Time) (domain.WeekMasterRow, bool) {
	row, ok := w.rows[week]
	return row, ok
}

// Weeks returns every covered week in chronological order.
func (w *WeekIndex) Weeks() []time.Time {
	out := make([]time.Time, len(w.order))
	copy(out, w.order)
	return out
}

// First returns the earliest covered week.
func (w *WeekIndex) First() time.Time {
	return w.order[0]
}

// Last returns the latest covered week.
func (w *WeekIndex) Last() time.Time {
	return w.order[len(w.order)-1]
}

// RawRows returns the week-master rows, unchanged, for validators and
// downstream reporting that need the original table rather than the index.
func (w *WeekIndex) RawRows() []domain.WeekMasterRow {
	out := make([]domain.WeekMasterRow, 0, len(w.rows))
	for _, week := range w.order {
		out = append(out, w.rows[week])
	}
	return out
}
