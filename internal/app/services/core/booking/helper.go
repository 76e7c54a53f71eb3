package booking

import (
	"medibook-service/internal/pkg/constvars"
)

// SubtractSlots returns the fixed slot set minus the booked ones, preserving
// the canonical slot order.
func SubtractSlots(booked []string) []string {
	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := make([]string, 0, len(constvars.TimeSlots))
	for _, slot := range constvars.TimeSlots {
		if taken[slot] {
			continue
		}
		available = append(available, slot)
	}
	return available
}

func ContainsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

// AllSlots returns a fresh copy of the fixed slot set.
func AllSlots() []string {
	slots := make([]string, len(constvars.TimeSlots))
	copy(slots, constvars.TimeSlots)
	return slots
}
