/**
 * CONTEXT:   Constraint predicate shared by every scheduling strategy
 * INPUT:     Week-master, a target week, its current occupants, and a candidate placement
 * OUTPUT:    Whether the placement keeps the week within allowed_hours/allowed_tasks
 * BUSINESS:  I1/I2 - no week may ever exceed its declared capacity
 * CHANGE:    Initial implementation
 * RISK:      High - every strategy's correctness rests on this predicate
 */

package scheduler

import (
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// CheckConstraint tests whether placing a candidate with newHrs hours into
// week, alongside occupants already assigned there, still satisfies the
// week-master's allowed_hours and allowed_tasks. addTask is normally 1 (a
// new occurrence is being added); validators call it with addTask=0 and
// newHrs=0 to re-check an already-filled week without double counting.
//
// hardCapped must be false on entry - the caller is expected to have
// already excluded hard-capped candidates from consideration. Passing true
// asserts a broken contract and always fails with HardCapExceededError.
func CheckConstraint(
	weekMaster *WeekIndex,
	week time.Time,
	occupants []domain.Occurrence,
	newHrs int,
	hardCapped bool,
	taskFreq int,
	addTask int,
) (bool, error) {
	row, ok := weekMaster.Row(week)
	if !ok {
		return false, &domain.WeekNotCoveredError{Week: week}
	}
	if hardCapped {
		return false, &domain.HardCapExceededError{TaskSequenceWeeks: taskFreq}
	}

	totalHrs := newHrs
	for _, occ := range occupants {
		totalHrs += occ.Hrs
	}

	if totalHrs > row.AllowedHours {
		return false, nil
	}
	if len(occupants)+addTask > row.AllowedTasks {
		return false, nil
	}
	return true, nil
}
