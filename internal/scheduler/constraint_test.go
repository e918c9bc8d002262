package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmbp/scheduler/internal/domain"
)

func mustIndex(rows []domain.WeekMasterRow) *WeekIndex {
	return NewWeekIndex(rows)
}

func week(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckConstraint(t *testing.T) {
	wm := mustIndex([]domain.WeekMasterRow{
		{ScheduledWeek: week(2024, 1, 1), AllowedHours: 80, AllowedTasks: 2},
	})

	t.Run("week absent from week-master fails WeekNotCovered", func(t *testing.T) {
		ok, err := CheckConstraint(wm, week(2024, 2, 5), nil, 10, false, 4, 1)
		assert.False(t, ok)
		var target *domain.WeekNotCoveredError
		require.True(t, errors.As(err, &target))
	})

	t.Run("hardCapped=true always fails with HardCapExceeded", func(t *testing.T) {
		ok, err := CheckConstraint(wm, week(2024, 1, 1), nil, 10, true, 4, 1)
		assert.False(t, ok)
		var target *domain.HardCapExceededError
		require.True(t, errors.As(err, &target))
	})

	t.Run("accepts when within both hours and task count", func(t *testing.T) {
		ok, err := CheckConstraint(wm, week(2024, 1, 1), nil, 80, false, 4, 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects when hours would be exceeded", func(t *testing.T) {
		ok, err := CheckConstraint(wm, week(2024, 1, 1), nil, 81, false, 4, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects when task count would be exceeded", func(t *testing.T) {
		occupants := []domain.Occurrence{{Hrs: 1}, {Hrs: 1}}
		ok, err := CheckConstraint(wm, week(2024, 1, 1), occupants, 1, false, 4, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("validator call style with addTask=0 newHrs=0 re-checks an already-filled week", func(t *testing.T) {
		occupants := []domain.Occurrence{{Hrs: 80}}
		ok, err := CheckConstraint(wm, week(2024, 1, 1), occupants, 0, false, 4, 0)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
