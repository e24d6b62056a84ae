// Package capacity decides whether a time slot can take another enrollee and
// whether a proposed slot edit is safe given the occupancy already committed.
// Everything here is pure: no storage, no clocks, no logging.
package capacity

import (
	"fmt"

	"clubconnect/internal/domain/club"
)

// ConflictError rejects a capacity edit that would drop below live occupancy.
// ProposedCapacity is 0 when the edit removes the slot altogether.
type ConflictError struct {
	SlotID           string
	DayOfWeek        club.DayOfWeek
	TimeRange        string
	CurrentEnrolled  int
	ProposedCapacity int
}

// Error implements error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot reduce capacity for slot %s (%s %s) to %d below current enrollment (%d)",
		e.SlotID, e.DayOfWeek, e.TimeRange, e.ProposedCapacity, e.CurrentEnrolled)
}

// CanAcceptOne reports whether one more student fits in slot.
// PRE: none
// POST: true iff EnrolledCount < Capacity
func CanAcceptOne(slot club.TimeSlot) bool {
	return slot.EnrolledCount < slot.Capacity
}

// ValidateCapacityEdit checks a proposed capacity against the slot's live count.
// PRE: existing is the stored slot, including its current EnrolledCount
// POST: Returns nil when proposed >= EnrolledCount, *ConflictError otherwise
func ValidateCapacityEdit(existing club.TimeSlot, proposed int) error {
	if proposed < existing.EnrolledCount {
		return &ConflictError{
			SlotID:           existing.ID,
			DayOfWeek:        existing.DayOfWeek,
			TimeRange:        existing.TimeRange(),
			CurrentEnrolled:  existing.EnrolledCount,
			ProposedCapacity: proposed,
		}
	}
	return nil
}

// ValidateTimeRange requires end to be strictly after start within one day.
// Overnight slots are not supported.
// PRE: none
// POST: Returns nil or *club.ValidationError on field "endTime"
func ValidateTimeRange(start, end club.ClockTime) error {
	if end <= start {
		verr := &club.ValidationError{}
		verr.Add("endTime", "end time must be after start time")
		return verr
	}
	return nil
}

// Available returns the number of free seats, never negative.
func Available(slot club.TimeSlot) int {
	if n := slot.Capacity - slot.EnrolledCount; n > 0 {
		return n
	}
	return 0
}

// Totals sums occupancy and capacity across slots.
func Totals(slots []club.TimeSlot) (enrolled, capacity int) {
	for _, s := range slots {
		enrolled += s.EnrolledCount
		capacity += s.Capacity
	}
	return enrolled, capacity
}

// HasAvailability reports whether any slot has a free seat.
func HasAvailability(slots []club.TimeSlot) bool {
	for _, s := range slots {
		if CanAcceptOne(s) {
			return true
		}
	}
	return false
}
