/**
 * CONTEXT:   Post-run safety nets shared by every scheduling strategy
 * INPUT:     A completed schedule, the week-master, and the originating task catalogue
 * OUTPUT:    An error describing the first invariant violation found, or nil
 * BUSINESS:  A strategy bug must never silently emit an over-capacity or incomplete schedule
 * CHANGE:    Initial implementation
 * RISK:      High - these are the last line of defense before a bad schedule reaches callers
 */

package scheduler

import (
	"fmt"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// ValidateCapacity re-checks every week in the week-master against the
// constraint predicate with newHrs=0, addTask=0 - i.e. it asks "is the week
// as currently filled still within its own limits?". It mutates nothing.
func ValidateCapacity(weekMaster *WeekIndex, schedule []domain.Occurrence) error {
	byWeek := make(map[time.Time][]domain.Occurrence)
	for _, occ := range schedule {
		byWeek[occ.ScheduledWeek] = append(byWeek[occ.ScheduledWeek], occ)
	}

	for _, week := range weekMaster.Weeks() {
		occupants := byWeek[week]
		ok, err := CheckConstraint(weekMaster, week, occupants, 0, false, 0, 0)
		if err != nil {
			return &domain.ValidationFailedError{Reason: err.Error()}
		}
		if !ok {
			totalHrs := 0
			for _, occ := range occupants {
				totalHrs += occ.Hrs
			}
			return &domain.ValidationFailedError{Reason: fmt.Sprintf(
				"week %s has %d hours across %d tasks, exceeding capacity",
				week.Format("2006-01-02"), totalHrs, len(occupants),
			)}
		}
	}
	return nil
}

// ValidateCompleteness checks invariant I3: every input task appears in the
// output exactly as many times as the cadence formula predicts - no losses,
// no duplicates.
func ValidateCompleteness(tasks []domain.Task, schedule []domain.Occurrence, forecastYears int, now time.Time) error {
	counts := make(map[int]int)
	for _, occ := range schedule {
		counts[occ.Key]++
	}

	for _, task := range tasks {
		expected := ExpectedOccurrenceCount(task, forecastYears, now)
		got := counts[task.Key]
		if got != expected {
			return &domain.ValidationFailedError{Reason: fmt.Sprintf(
				"task %d (%s) has %d occurrences in the schedule, expected %d",
				task.Key, task.DataSource, got, expected,
			)}
		}
		delete(counts, task.Key)
	}

	for key, count := range counts {
		return &domain.ValidationFailedError{Reason: fmt.Sprintf(
			"schedule contains %d occurrences for unknown task key %d", count, key,
		)}
	}
	return nil
}
