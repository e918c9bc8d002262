package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOccurrenceClone(t *testing.T) {
	original := Occurrence{Key: 1, Hrs: 40, ScheduledDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	clone := original.Clone()
	clone.Hrs = 99
	clone.ScheduledDate = clone.ScheduledDate.AddDate(0, 0, 7)

	assert.Equal(t, 40, original.Hrs, "mutating the clone must not affect the original")
	assert.True(t, original.ScheduledDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
