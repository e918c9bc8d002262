/**
 * CONTEXT:   Week-master construction - an external collaborator the core treats as a finished input
 * INPUT:     A year range plus optional blackout and reduced-hours rules
 * OUTPUT:    One capacity row per Monday in range, with blackout/reduced-hours adjustments applied
 * BUSINESS:  The core never builds this table itself; it only ever consumes the finished result
 * CHANGE:    Initial implementation
 * RISK:      Low - pure table construction, no scheduling logic
 */

package weekmaster

import (
	"time"

	"github.com/gmbp/scheduler/internal/domain"
	"github.com/gmbp/scheduler/internal/scheduler"
)

// Repetition selects whether a rule applies once or repeats yearly until
// the week-master's end year.
type Repetition string

const (
	Once   Repetition = "O"
	Yearly Repetition = "Y"
)

// ReducedHoursRule lowers AllowedHours for every week whose Monday falls in
// [Start, End], either once or on the same calendar span every year.
type ReducedHoursRule struct {
	Start      time.Time
	End        time.Time
	Hours      int
	Repetition Repetition
	Notes      string
}

// BlackoutRule marks a calendar span (e.g. a holiday) whose weeks lose a
// pro-rated slice of their hours - one fifth of AllowedHours per blacked-out
// weekday, mirroring a 5-day work week.
type BlackoutRule struct {
	Start      time.Time
	End        time.Time
	Repetition Repetition
	Notes      string
}

// Generate builds one row per Monday in [startYear, endYear), applying
// reducedHours rules before blackouts so that blackout pro-ration always
// starts from the already-reduced baseline for that week.
func Generate(startYear, endYear, allowedHours, allowedTasks int, reducedHours []ReducedHoursRule) []domain.WeekMasterRow {
	var rows []domain.WeekMasterRow

	first := firstMonday(startYear)
	end := time.Date(endYear, 1, 1, 0, 0, 0, 0, time.UTC)
	for monday := first; monday.Before(end); monday = monday.AddDate(0, 0, 7) {
		rows = append(rows, domain.WeekMasterRow{
			ScheduledWeek: monday,
			AllowedHours:  allowedHours,
			AllowedTasks:  allowedTasks,
		})
	}

	for _, rule := range reducedHours {
		applyReducedHours(rows, rule, endYear)
	}
	return rows
}

// firstMonday returns the Monday on or after January 1 of year.
func firstMonday(year int) time.Time {
	d := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	monday := scheduler.MondayOf(d)
	if monday.Before(d) {
		monday = monday.AddDate(0, 0, 7)
	}
	return monday
}

func applyReducedHours(rows []domain.WeekMasterRow, rule ReducedHoursRule, endYear int) {
	start, end := rule.Start, rule.End
	for {
		for i := range rows {
			week := rows[i].ScheduledWeek
			if !week.Before(start) && !week.After(end) {
				rows[i].AllowedHours = rule.Hours
				rows[i].Notes = appendNote(rows[i].Notes, rule.Notes)
			}
		}
		if rule.Repetition != Yearly || start.Year()+1 >= endYear {
			break
		}
		start = time.Date(start.Year()+1, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		end = time.Date(end.Year()+1, end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// ApplyBlackouts deducts a pro-rated amount of AllowedHours - one fifth per
// blacked-out weekday (Monday to Friday) that falls in a week - from every
// affected week, never taking AllowedHours below zero. Blacked-out Saturdays
// and Sundays deduct nothing.
func ApplyBlackouts(rows []domain.WeekMasterRow, rules []BlackoutRule, endYear int) []domain.WeekMasterRow {
	if len(rules) == 0 {
		return rows
	}

	byWeek := make(map[time.Time]int, len(rows))
	for i, row := range rows {
		byWeek[row.ScheduledWeek] = i
	}

	out := make([]domain.WeekMasterRow, len(rows))
	copy(out, rows)

	for _, rule := range rules {
		start, end := rule.Start, rule.End
		for {
			for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
				if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
					continue
				}
				monday := scheduler.MondayOf(day)
				idx, ok := byWeek[monday]
				if !ok {
					continue
				}
				daily := float64(rows[idx].AllowedHours) / 5
				out[idx].AllowedHours -= int(daily)
				if out[idx].AllowedHours < 0 {
					out[idx].AllowedHours = 0
				}
				out[idx].Notes = appendNote(out[idx].Notes, rule.Notes)
			}
			if rule.Repetition != Yearly || start.Year()+1 >= endYear {
				break
			}
			start = time.Date(start.Year()+1, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
			end = time.Date(end.Year()+1, end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return out
}

func appendNote(existing, addition string) string {
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}
	return existing + "; " + addition
}
