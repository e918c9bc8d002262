/**
 * CONTEXT:   Expand-then-pack strategy, backward-only shifts
 * INPUT:     Task catalogue, week-master, forecast window, hard-cap table
 * OUTPUT:    A schedule where every week respects capacity, built by pushing overflow forward
 * BUSINESS:  The simplest of the four strategies - no look-behind, no search window
 * CHANGE:    Initial implementation
 * RISK:      Medium - shares its shift mechanics with top-down-fb; keep the two in sync deliberately
 */

package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/gmbp/scheduler/internal/domain"
)

// TopDownBackward implements top-down-b (§4.5): occurrences are expanded in
// full up front, then every week is visited in chronological order and any
// overflow is pushed one week later at a time until the week fits.
type TopDownBackward struct {
	Hardcap domain.HardCapTable
}

// Schedule runs the strategy to completion or returns the first fatal error.
func (s TopDownBackward) Schedule(tasks []domain.Task, weekMaster *WeekIndex, forecastYears int, now time.Time) ([]domain.Occurrence, error) {
	occs := GenerateOccurrences(tasks, forecastYears, now)
	byWeek := indexByWeek(occs)

	for _, week := range weekMaster.Weeks() {
		row, _ := weekMaster.Row(week)

		if row.AllowedHours == 0 {
			occupants := byWeek[week]
			delete(byWeek, week)
			for _, occ := range occupants {
				shifted := shiftOneWeekForward(occ, s.Hardcap)
				byWeek[shifted.ScheduledWeek] = append(byWeek[shifted.ScheduledWeek], shifted)
			}
			continue
		}

		for {
			occupants := byWeek[week]
			totalHrs, count := sumHrsAndCount(occupants)
			if totalHrs <= row.AllowedHours && count <= row.AllowedTasks {
				break
			}

			victimIdx, bestScore := -1, -math.MaxFloat64
			for i, occ := range occupants {
				if occ.HardCapped {
					continue
				}
				score := VictimPriorityScore(occ.TaskSequenceWeeks, occ.Hrs, occ.DeltaWeeks)
				if score > bestScore {
					bestScore, victimIdx = score, i
				}
			}
			if victimIdx == -1 {
				pinned := occupants[0]
				capLimit, _ := s.Hardcap.CapFor(pinned.TaskSequenceWeeks)
				return nil, &domain.HardCapExceededError{
					TaskKey:           pinned.Key,
					TaskSequenceWeeks: pinned.TaskSequenceWeeks,
					Cap:               capLimit,
				}
			}

			victim := occupants[victimIdx]
			victim.WeekPriorityScore = bestScore
			occupants = append(append([]domain.Occurrence{}, occupants[:victimIdx]...), occupants[victimIdx+1:]...)
			byWeek[week] = occupants

			shifted := shiftOneWeekForward(victim, s.Hardcap)
			byWeek[shifted.ScheduledWeek] = append(byWeek[shifted.ScheduledWeek], shifted)
		}
	}

	return flattenByScheduledDate(byWeek), nil
}

// indexByWeek groups occurrences by their current ScheduledWeek.
func indexByWeek(occs []domain.Occurrence) map[time.Time][]domain.Occurrence {
	byWeek := make(map[time.Time][]domain.Occurrence)
	for _, occ := range occs {
		byWeek[occ.ScheduledWeek] = append(byWeek[occ.ScheduledWeek], occ)
	}
	return byWeek
}

// sumHrsAndCount totals the hours and count of a week's occupants.
func sumHrsAndCount(occupants []domain.Occurrence) (hrs, count int) {
	for _, occ := range occupants {
		hrs += occ.Hrs
	}
	return hrs, len(occupants)
}

// shiftOneWeekForward moves occ to the following week, updating every
// derived field (§4.5 step 2) and re-evaluating its hard-cap flag.
func shiftOneWeekForward(occ domain.Occurrence, hardcap domain.HardCapTable) domain.Occurrence {
	out := occ.Clone()
	out.ScheduledDate = out.ScheduledDate.AddDate(0, 0, 7)
	out.ScheduledWeek = MondayOf(out.ScheduledDate)
	out.DeltaWeeks++
	out.Year, out.Week = isoYearWeek(out.ScheduledDate)
	out.HardCapped = hardcap.Reached(out.TaskSequenceWeeks, out.DeltaWeeks)
	return out
}

// flattenByScheduledDate collects a by-week index back into a single slice
// sorted ascending by ScheduledDate, matching §4.4's output ordering.
func flattenByScheduledDate(byWeek map[time.Time][]domain.Occurrence) []domain.Occurrence {
	var out []domain.Occurrence
	for _, occupants := range byWeek {
		out = append(out, occupants...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out
}
