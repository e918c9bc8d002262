package tradesplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmbp/scheduler/internal/domain"
)

func TestByTrade(t *testing.T) {
	t.Run("groups tasks by Trade preserving relative order within each group", func(t *testing.T) {
		tasks := []domain.Task{
			{Key: 1, Trade: "Mechanical"},
			{Key: 2, Trade: "Electrical"},
			{Key: 3, Trade: "Mechanical"},
		}
		groups := ByTrade(tasks)

		require.Len(t, groups, 2)
		require.Len(t, groups["Mechanical"], 2)
		assert.Equal(t, 1, groups["Mechanical"][0].Key)
		assert.Equal(t, 3, groups["Mechanical"][1].Key)
		require.Len(t, groups["Electrical"], 1)
		assert.Equal(t, 2, groups["Electrical"][0].Key)
	})

	t.Run("an empty catalogue yields an empty map", func(t *testing.T) {
		groups := ByTrade(nil)
		assert.Empty(t, groups)
	})
}
