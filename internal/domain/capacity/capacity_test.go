package capacity_test

import (
	"errors"
	"testing"

	"clubconnect/internal/domain/capacity"
	"clubconnect/internal/domain/club"
)

// TestCanAcceptOne covers the seat check at and around the boundary.
func TestCanAcceptOne(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		enrolled int
		want     bool
	}{
		{"empty slot", 10, 0, true},
		{"one seat left", 10, 9, true},
		{"full", 10, 10, false},
		{"zero capacity", 0, 0, false},
		{"capacity one taken", 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := club.TimeSlot{Capacity: tt.capacity, EnrolledCount: tt.enrolled}
			if got := capacity.CanAcceptOne(slot); got != tt.want {
				t.Errorf("CanAcceptOne() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValidateCapacityEdit verifies reductions below occupancy are rejected with detail.
func TestValidateCapacityEdit(t *testing.T) {
	slot := club.TimeSlot{
		ID: "ts-1", DayOfWeek: club.Wednesday,
		StartTime: club.MustParseClockTime("17:00"), EndTime: club.MustParseClockTime("19:00"),
		Capacity: 10, EnrolledCount: 7,
	}

	for _, ok := range []int{7, 8, 10, 50} {
		if err := capacity.ValidateCapacityEdit(slot, ok); err != nil {
			t.Errorf("proposed %d: unexpected error %v", ok, err)
		}
	}

	err := capacity.ValidateCapacityEdit(slot, 5)
	var conflict *capacity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want *ConflictError", err)
	}
	if conflict.SlotID != "ts-1" || conflict.CurrentEnrolled != 7 || conflict.ProposedCapacity != 5 {
		t.Errorf("conflict = %+v", conflict)
	}
	if conflict.TimeRange != "17:00 - 19:00" {
		t.Errorf("TimeRange = %q", conflict.TimeRange)
	}
}

// TestValidateTimeRange verifies end must be strictly after start.
func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		start, end string
		wantErr    bool
	}{
		{"16:00", "18:00", false},
		{"16:00", "16:01", false},
		{"16:00", "16:00", true},
		{"18:00", "16:00", true},
		{"23:00", "01:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			err := capacity.ValidateTimeRange(club.MustParseClockTime(tt.start), club.MustParseClockTime(tt.end))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTimeRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *club.ValidationError
				if !errors.As(err, &verr) || verr.Fields[0].Field != "endTime" {
					t.Errorf("error = %v, want ValidationError on endTime", err)
				}
			}
		})
	}
}

// TestTotals verifies aggregate occupancy is derived from slots.
func TestTotals(t *testing.T) {
	slots := []club.TimeSlot{
		{Capacity: 20, EnrolledCount: 5},
		{Capacity: 15, EnrolledCount: 15},
	}
	enrolled, total := capacity.Totals(slots)
	if enrolled != 20 || total != 35 {
		t.Errorf("Totals = %d/%d, want 20/35", enrolled, total)
	}
	if !capacity.HasAvailability(slots) {
		t.Error("HasAvailability = false, want true")
	}
	if capacity.HasAvailability(slots[1:]) {
		t.Error("HasAvailability on full slot = true")
	}
	if got := capacity.Available(club.TimeSlot{Capacity: 3, EnrolledCount: 5}); got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}
}
