/**
 * CONTEXT:   ISO-week normalization shared by every scheduling strategy
 * INPUT:     Any calendar date
 * OUTPUT:    The Monday anchoring that date's ISO week, normalized to a date-only UTC value
 * BUSINESS:  Every capacity lookup and displacement computation is keyed on week, not day
 * CHANGE:    Initial implementation
 * RISK:      Low - pure, total function
 */

package scheduler

import "time"

// MondayOf returns the Monday of the ISO week containing d, truncated to a
// date-only value in UTC so it can be used as a stable map key and compared
// with time.Time equality/ordering instead of a locale-dependent string.
func MondayOf(d time.Time) time.Time {
	d = normalizeDate(d)
	// time.Weekday: Sunday=0 .. Saturday=6. Days since Monday:
	daysSinceMonday := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -daysSinceMonday)
}

// normalizeDate strips time-of-day and location so that dates compare and
// hash consistently regardless of where they originated.
func normalizeDate(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// isoYearWeek returns the ISO-8601 (year, week) for d, used to populate the
// Occurrence.Year / Occurrence.Week fields.
func isoYearWeek(d time.Time) (int, int) {
	return d.ISOWeek()
}
