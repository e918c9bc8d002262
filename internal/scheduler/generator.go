/**
 * CONTEXT:   Base occurrence generator shared by the top-down strategies
 * INPUT:     The task catalogue and a forecast horizon
 * OUTPUT:    Every occurrence of every task between its base date and the horizon, sorted by date
 * BUSINESS:  The top-down strategies pack an already-complete occurrence list; this builds it
 * CHANGE:    Initial implementation
 * RISK:      Low - pure expansion with no capacity awareness
 */

package scheduler

import (
	"sort"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// Horizon returns the forecast end: occurrence generation stops strictly
// before this date.
func Horizon(now time.Time, forecastYears int) time.Time {
	return now.AddDate(forecastYears, 0, 0)
}

// GenerateOccurrences expands every task in tasks into one Occurrence per
// scheduled_date step from its base date up to (not including) horizon,
// returned sorted ascending by ScheduledDate.
func GenerateOccurrences(tasks []domain.Task, forecastYears int, now time.Time) []domain.Occurrence {
	horizon := Horizon(now, forecastYears)

	var out []domain.Occurrence
	for _, task := range tasks {
		tenYearTotal := (52 * forecastYears) / task.TaskSequenceWeeks

		scheduledDate := task.BaseDate
		totalCount := 0
		for scheduledDate.Before(horizon) {
			totalCount++
			year, week := isoYearWeek(scheduledDate)
			out = append(out, domain.Occurrence{
				Key:                      task.Key,
				DataSource:               task.DataSource,
				TaskDescription:          task.TaskDescription,
				TaskSequence:             task.TaskSequence,
				TaskSequenceWeeks:        task.TaskSequenceWeeks,
				Trade:                    task.Trade,
				Hrs:                      task.Hrs,
				EstimatedLastServiceDate: task.EstimatedLastServiceDate,
				ScheduledDate:            scheduledDate,
				ScheduledWeek:            MondayOf(scheduledDate),
				DeltaWeeks:               0,
				TotalCount:               totalCount,
				TenYearTotal:             tenYearTotal,
				HardCapped:               false,
				Year:                     year,
				Week:                     week,
			})
			scheduledDate = scheduledDate.AddDate(0, 0, 7*task.TaskSequenceWeeks)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out
}

// ExpectedOccurrenceCount returns invariant I3's n for a single task: the
// number of occurrences it is expected to have in [base_date, horizon).
// Mirrors GenerateOccurrences' own stepping loop exactly (strictly-before-
// horizon, step 7*TaskSequenceWeeks days) rather than a closed-form day-count
// formula, so the two can never disagree at the horizon boundary.
func ExpectedOccurrenceCount(task domain.Task, forecastYears int, now time.Time) int {
	horizon := Horizon(now, forecastYears)
	count := 0
	for d := task.BaseDate; d.Before(horizon); d = d.AddDate(0, 0, 7*task.TaskSequenceWeeks) {
		count++
	}
	return count
}
