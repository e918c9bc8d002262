/**
 * CONTEXT:   Greedy heap-driven insertion strategies
 * INPUT:     Task catalogue, week-master, forecast window, hard-cap table
 * OUTPUT:    A schedule built by placing one pending occurrence at a time: earliest week first, most urgent within that week
 * BUSINESS:  §4.7 - bottom-up-fb adds a look-behind attempt before falling back to look-forward;
 *            bottom-up-b always advances forward on conflict
 * CHANGE:    Initial implementation
 * RISK:      High - the next-date formula's "- delta_weeks" term is load-bearing for I3;
 *            see runBottomUp's accept path
 */

package scheduler

import (
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// BottomUpForwardBackward implements bottom-up-fb (§4.7 canonical form):
// on conflict it first tries a symmetric look-behind placement before
// falling back to advancing one week forward.
type BottomUpForwardBackward struct {
	Hardcap domain.HardCapTable
}

func (s BottomUpForwardBackward) Schedule(tasks []domain.Task, weekMaster *WeekIndex, forecastYears int, now time.Time) ([]domain.Occurrence, error) {
	return runBottomUp(tasks, weekMaster, forecastYears, now, s.Hardcap, true)
}

// BottomUpBackward implements bottom-up-b: identical to the canonical form
// but it never attempts the look-behind placement, always advancing the
// occurrence one week forward when its natural week is full.
type BottomUpBackward struct {
	Hardcap domain.HardCapTable
}

func (s BottomUpBackward) Schedule(tasks []domain.Task, weekMaster *WeekIndex, forecastYears int, now time.Time) ([]domain.Occurrence, error) {
	return runBottomUp(tasks, weekMaster, forecastYears, now, s.Hardcap, false)
}

// firstOccurrence builds the seed occurrence for a task: its base date,
// snapped to Monday, with delta_weeks and total_count at their initial
// values.
func firstOccurrence(task domain.Task) domain.Occurrence {
	year, week := isoYearWeek(task.BaseDate)
	return domain.Occurrence{
		Key:                      task.Key,
		DataSource:               task.DataSource,
		TaskDescription:          task.TaskDescription,
		TaskSequence:             task.TaskSequence,
		TaskSequenceWeeks:        task.TaskSequenceWeeks,
		Trade:                    task.Trade,
		Hrs:                      task.Hrs,
		EstimatedLastServiceDate: task.EstimatedLastServiceDate,
		ScheduledDate:            task.BaseDate,
		ScheduledWeek:            MondayOf(task.BaseDate),
		DeltaWeeks:               0,
		TotalCount:               1,
		HardCapped:               false,
		Year:                     year,
		Week:                     week,
	}
}

// runBottomUp drives the shared heap loop for both bottom-up variants.
// allowLookBehind selects bottom-up-fb's symmetric earlier-week attempt
// versus bottom-up-b's forward-only behaviour.
func runBottomUp(
	tasks []domain.Task,
	weekMaster *WeekIndex,
	forecastYears int,
	now time.Time,
	hardcap domain.HardCapTable,
	allowLookBehind bool,
) ([]domain.Occurrence, error) {
	horizon := Horizon(now, forecastYears)
	tenYearTotal := func(taskSequenceWeeks int) int { return (52 * forecastYears) / taskSequenceWeeks }

	queue := NewPlacementQueue()
	for _, task := range tasks {
		occ := firstOccurrence(task)
		occ.TenYearTotal = tenYearTotal(task.TaskSequenceWeeks)
		score := PlacementPriorityScore(occ.TaskSequenceWeeks, occ.Hrs, occ.DeltaWeeks, hardcap)
		queue.Push(occ, score)
	}

	schedule := make(map[time.Time][]domain.Occurrence)
	var out []domain.Occurrence

	for queue.Len() > 0 {
		occ, _ := queue.Pop()

		accepted, err := CheckConstraint(weekMaster, occ.ScheduledWeek, schedule[occ.ScheduledWeek], occ.Hrs, false, occ.TaskSequenceWeeks, 1)
		if err != nil {
			return nil, err
		}

		if accepted {
			schedule[occ.ScheduledWeek] = append(schedule[occ.ScheduledWeek], occ)
			out = append(out, occ)

			nextDate := occ.ScheduledDate.AddDate(0, 0, 7*(occ.TaskSequenceWeeks-occ.DeltaWeeks))
			if nextDate.Before(horizon) {
				year, week := isoYearWeek(nextDate)
				next := occ.Clone()
				next.ScheduledDate = nextDate
				next.ScheduledWeek = MondayOf(nextDate)
				next.DeltaWeeks = 0
				next.TotalCount = occ.TotalCount + 1
				next.HardCapped = false
				next.Year, next.Week = year, week
				score := PlacementPriorityScore(next.TaskSequenceWeeks, next.Hrs, next.DeltaWeeks, hardcap)
				queue.Push(next, score)
			}
			continue
		}

		if occ.HardCapped {
			capLimit, _ := hardcap.CapFor(occ.TaskSequenceWeeks)
			return nil, &domain.HardCapExceededError{TaskKey: occ.Key, TaskSequenceWeeks: occ.TaskSequenceWeeks, Cap: capLimit}
		}

		if allowLookBehind {
			placed, ok := attemptLookBehind(occ, weekMaster, schedule, hardcap)
			if ok {
				schedule[placed.ScheduledWeek] = append(schedule[placed.ScheduledWeek], placed)
				out = append(out, placed)

				nextDate := placed.ScheduledDate.AddDate(0, 0, 7*(placed.TaskSequenceWeeks-placed.DeltaWeeks))
				if nextDate.Before(horizon) {
					year, week := isoYearWeek(nextDate)
					next := placed.Clone()
					next.ScheduledDate = nextDate
					next.ScheduledWeek = MondayOf(nextDate)
					next.DeltaWeeks = 0
					next.TotalCount = placed.TotalCount + 1
					next.HardCapped = false
					next.Year, next.Week = year, week
					score := PlacementPriorityScore(next.TaskSequenceWeeks, next.Hrs, next.DeltaWeeks, hardcap)
					queue.Push(next, score)
				}
				continue
			}
		}

		// Look-forward: advance one week and re-queue with a fresh score.
		forward := occ.Clone()
		forward.ScheduledDate = forward.ScheduledDate.AddDate(0, 0, 7)
		forward.ScheduledWeek = MondayOf(forward.ScheduledDate)
		forward.DeltaWeeks++
		forward.Year, forward.Week = isoYearWeek(forward.ScheduledDate)
		forward.HardCapped = hardcap.Reached(forward.TaskSequenceWeeks, forward.DeltaWeeks)
		score := PlacementPriorityScore(forward.TaskSequenceWeeks, forward.Hrs, forward.DeltaWeeks, hardcap)
		queue.Push(forward, score)
	}

	return flattenByScheduledDate(schedule), nil
}

// attemptLookBehind tries the symmetric earlier-week placement from §4.7:
// current_date - (2*delta_weeks + 1) weeks. The earlier target, not the
// occurrence's original week, is what gets checked against the predicate -
// §9 flags the literal source as checking the wrong week here.
func attemptLookBehind(
	occ domain.Occurrence,
	weekMaster *WeekIndex,
	schedule map[time.Time][]domain.Occurrence,
	hardcap domain.HardCapTable,
) (domain.Occurrence, bool) {
	earlierDate := occ.ScheduledDate.AddDate(0, 0, -7*(2*occ.DeltaWeeks+1))
	earlierWeek := MondayOf(earlierDate)

	accepted, err := CheckConstraint(weekMaster, earlierWeek, schedule[earlierWeek], occ.Hrs, false, occ.TaskSequenceWeeks, 1)
	if err != nil || !accepted {
		return domain.Occurrence{}, false
	}

	placed := occ.Clone()
	placed.ScheduledDate = earlierDate
	placed.ScheduledWeek = earlierWeek
	placed.DeltaWeeks = -(occ.DeltaWeeks + 1)
	placed.Year, placed.Week = isoYearWeek(earlierDate)
	placed.HardCapped = hardcap.Reached(placed.TaskSequenceWeeks, placed.DeltaWeeks)
	return placed, true
}
