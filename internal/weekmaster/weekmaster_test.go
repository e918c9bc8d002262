package weekmaster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	t.Run("produces one row per Monday of the span with uniform capacity", func(t *testing.T) {
		rows := Generate(2024, 2025, 80, 12, nil)
		require.NotEmpty(t, rows)
		for _, row := range rows {
			assert.Equal(t, time.Monday, row.ScheduledWeek.Weekday())
			assert.Equal(t, 80, row.AllowedHours)
			assert.Equal(t, 12, row.AllowedTasks)
		}
		assert.True(t, rows[0].ScheduledWeek.Year() == 2024 || rows[0].ScheduledWeek.Year() == 2023)
		assert.True(t, rows[len(rows)-1].ScheduledWeek.Before(date(2025, 1, 1)))
	})

	t.Run("an unrepeated reduced-hours rule only affects its own span", func(t *testing.T) {
		rule := ReducedHoursRule{Start: date(2024, 7, 1), End: date(2024, 7, 31), Hours: 40, Repetition: Once}
		rows := Generate(2024, 2026, 80, 12, []ReducedHoursRule{rule})

		for _, row := range rows {
			inSpan := !row.ScheduledWeek.Before(rule.Start) && !row.ScheduledWeek.After(rule.End)
			inNextYearSpan := row.ScheduledWeek.Year() == 2025 &&
				!row.ScheduledWeek.Before(date(2025, 7, 1)) && !row.ScheduledWeek.After(date(2025, 7, 31))
			if inSpan {
				assert.Equal(t, 40, row.AllowedHours)
			} else if !inNextYearSpan {
				assert.Equal(t, 80, row.AllowedHours)
			}
		}
	})

	t.Run("a yearly reduced-hours rule repeats its span every year through end_year", func(t *testing.T) {
		rule := ReducedHoursRule{Start: date(2024, 7, 1), End: date(2024, 7, 7), Hours: 20, Repetition: Yearly}
		rows := Generate(2024, 2026, 80, 12, []ReducedHoursRule{rule})

		var sawReducedIn2025 bool
		for _, row := range rows {
			if row.ScheduledWeek.Year() == 2025 &&
				!row.ScheduledWeek.Before(date(2025, 7, 1)) && !row.ScheduledWeek.After(date(2025, 7, 7)) {
				assert.Equal(t, 20, row.AllowedHours)
				sawReducedIn2025 = true
			}
		}
		assert.True(t, sawReducedIn2025, "the yearly rule should have recurred into 2025")
	})
}

func TestApplyBlackouts(t *testing.T) {
	t.Run("deducts one fifth of AllowedHours per blacked-out weekday", func(t *testing.T) {
		rows := Generate(2024, 2025, 100, 12, nil)
		monday := rows[0].ScheduledWeek

		rule := BlackoutRule{Start: monday, End: monday.AddDate(0, 0, 1), Notes: "holiday"}
		out := ApplyBlackouts(rows, []BlackoutRule{rule}, 2025)

		assert.Equal(t, 60, out[0].AllowedHours, "two blacked-out days at 1/5 of 100 each should remove 40")
		assert.Contains(t, out[0].Notes, "holiday")
	})

	t.Run("never drives AllowedHours below zero", func(t *testing.T) {
		rows := Generate(2024, 2025, 5, 12, nil)
		monday := rows[0].ScheduledWeek
		rule := BlackoutRule{Start: monday, End: monday.AddDate(0, 0, 4)}
		out := ApplyBlackouts(rows, []BlackoutRule{rule}, 2025)
		assert.Equal(t, 0, out[0].AllowedHours)
	})

	t.Run("returns the input unchanged when there are no rules", func(t *testing.T) {
		rows := Generate(2024, 2025, 80, 12, nil)
		out := ApplyBlackouts(rows, nil, 2025)
		assert.Equal(t, rows, out)
	})

	t.Run("does not mutate the input rows", func(t *testing.T) {
		rows := Generate(2024, 2025, 100, 12, nil)
		monday := rows[0].ScheduledWeek
		rule := BlackoutRule{Start: monday, End: monday}
		_ = ApplyBlackouts(rows, []BlackoutRule{rule}, 2025)
		assert.Equal(t, 100, rows[0].AllowedHours)
	})
}
