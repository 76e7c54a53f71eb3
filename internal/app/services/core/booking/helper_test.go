package booking

import (
	"medibook-service/internal/pkg/constvars"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtractSlots(t *testing.T) {
	t.Run("RemovesBookedKeepingOrder", func(t *testing.T) {
		available := SubtractSlots([]string{"09:30", "14:00", "16:30"})

		assert.Equal(t, []string{
			"09:00", "10:00", "10:30", "11:00", "11:30",
			"14:30", "15:00", "15:30", "16:00",
		}, available)
	})

	t.Run("IgnoresUnknownBookedValues", func(t *testing.T) {
		available := SubtractSlots([]string{"08:00", "12:00"})
		assert.Equal(t, constvars.TimeSlots, available)
	})

	t.Run("NothingBooked", func(t *testing.T) {
		assert.Equal(t, constvars.TimeSlots, SubtractSlots(nil))
	})

	t.Run("EverythingBooked", func(t *testing.T) {
		available := SubtractSlots(constvars.TimeSlots)
		assert.Empty(t, available)
	})
}

func TestContainsSlot(t *testing.T) {
	assert.True(t, ContainsSlot([]string{"09:00", "09:30"}, "09:30"))
	assert.False(t, ContainsSlot([]string{"09:00", "09:30"}, "10:00"))
	assert.False(t, ContainsSlot(nil, "09:00"))
}

func TestAllSlotsReturnsCopy(t *testing.T) {
	slots := AllSlots()
	slots[0] = "mutated"
	assert.Equal(t, "09:00", constvars.TimeSlots[0])
}
