package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMondayOf(t *testing.T) {
	t.Run("already a Monday returns itself", func(t *testing.T) {
		monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, MondayOf(monday).Equal(monday))
	})

	t.Run("mid-week date snaps back to Monday", func(t *testing.T) {
		thursday := time.Date(2024, 1, 4, 15, 30, 0, 0, time.UTC)
		want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, MondayOf(thursday).Equal(want))
	})

	t.Run("Sunday snaps back to the prior Monday", func(t *testing.T) {
		sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
		want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, MondayOf(sunday).Equal(want))
	})

	t.Run("time-of-day and location are stripped", func(t *testing.T) {
		loc, _ := time.LoadLocation("America/New_York")
		d := time.Date(2024, 1, 3, 23, 59, 0, 0, loc)
		got := MondayOf(d)
		assert.Equal(t, time.UTC, got.Location())
		assert.Equal(t, 0, got.Hour())
	})
}
