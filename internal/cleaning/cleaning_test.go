package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	t.Run("converts a well-formed row into a validated task", func(t *testing.T) {
		rows := []RawRow{
			{Key: " 1 ", DataSource: "cmms", TaskDescription: " Lube pump ", TaskSequence: "4W", TaskSequenceWeeks: "4", Trade: " Mechanical ", Hrs: "8", ConsolidatedDates: "2024-03-04"},
		}
		tasks, err := Clean(rows, 0)
		require.NoError(t, err)
		require.Len(t, tasks, 1)

		task := tasks[0]
		assert.Equal(t, 1, task.Key)
		assert.Equal(t, "cmms", task.DataSource)
		assert.Equal(t, "Lube pump", task.TaskDescription)
		assert.Equal(t, "Mechanical", task.Trade)
		assert.Equal(t, 4, task.TaskSequenceWeeks)
		assert.Equal(t, 8, task.Hrs)
		assert.True(t, task.BaseDate.Equal(task.EstimatedLastServiceDate.AddDate(0, 0, 7*4)))
	})

	t.Run("tries each date layout in turn", func(t *testing.T) {
		for _, raw := range []string{"2024-03-04", "03/04/2024", "3/4/2024", "2024/03/04"} {
			rows := []RawRow{{Key: "1", TaskSequenceWeeks: "4", Hrs: "8", ConsolidatedDates: raw}}
			_, err := Clean(rows, 0)
			assert.NoError(t, err, "layout for %q should be accepted", raw)
		}
	})

	t.Run("rejects a non-numeric Key", func(t *testing.T) {
		rows := []RawRow{{Key: "not-a-number", TaskSequenceWeeks: "4", Hrs: "8", ConsolidatedDates: "2024-03-04"}}
		_, err := Clean(rows, 0)
		assert.Error(t, err)
	})

	t.Run("rejects an unparseable date", func(t *testing.T) {
		rows := []RawRow{{Key: "1", TaskSequenceWeeks: "4", Hrs: "8", ConsolidatedDates: "not-a-date"}}
		_, err := Clean(rows, 0)
		assert.Error(t, err)
	})

	t.Run("rejects Hrs over the max_allowed_hours cap", func(t *testing.T) {
		rows := []RawRow{{Key: "1", TaskSequenceWeeks: "4", Hrs: "100", ConsolidatedDates: "2024-03-04"}}
		_, err := Clean(rows, 80)
		assert.Error(t, err)
	})

	t.Run("stops at the first invalid row rather than collecting partial output", func(t *testing.T) {
		rows := []RawRow{
			{Key: "1", TaskSequenceWeeks: "4", Hrs: "8", ConsolidatedDates: "2024-03-04"},
			{Key: "bad", TaskSequenceWeeks: "4", Hrs: "8", ConsolidatedDates: "2024-03-04"},
		}
		tasks, err := Clean(rows, 0)
		assert.Error(t, err)
		assert.Nil(t, tasks)
	})
}
