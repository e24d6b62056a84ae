package club_test

import (
	"encoding/json"
	"errors"
	"testing"

	"clubconnect/internal/domain/club"
)

func validClub() club.Club {
	return club.Club{
		Name:        "Chess Club",
		Description: "Strategy games for all levels",
		TimeSlots: []club.TimeSlot{
			{ID: "ts-1", DayOfWeek: club.Monday, StartTime: club.MustParseClockTime("16:00"), EndTime: club.MustParseClockTime("18:00"), Capacity: 20},
		},
	}
}

// TestClub_Validate tests validation of Club.
func TestClub_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *club.Club)
		wantFields []string
	}{
		{"valid club", func(c *club.Club) {}, nil},
		{"no slots", func(c *club.Club) { c.TimeSlots = nil }, nil},
		{"short name", func(c *club.Club) { c.Name = "Go" }, []string{"name"}},
		{"whitespace padded name", func(c *club.Club) { c.Name = "  ab  " }, []string{"name"}},
		{"short description", func(c *club.Club) { c.Description = "Too short" }, []string{"description"}},
		{"bad day", func(c *club.Club) { c.TimeSlots[0].DayOfWeek = "Funday" }, []string{"timeSlots[0].dayOfWeek"}},
		{"negative capacity", func(c *club.Club) { c.TimeSlots[0].Capacity = -1 }, []string{"timeSlots[0].capacity"}},
		{"duplicate slot ids", func(c *club.Club) {
			c.TimeSlots = append(c.TimeSlots, c.TimeSlots[0])
		}, []string{"timeSlots[1].id"}},
		{"several problems at once", func(c *club.Club) {
			c.Name = ""
			c.Description = ""
		}, []string{"name", "description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClub()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("Club.Validate() unexpected error = %v", err)
				}
				return
			}
			var verr *club.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Club.Validate() error = %v, want *ValidationError", err)
			}
			got := verr.ByField()
			if len(got) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", got, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := got[f]; !ok {
					t.Errorf("missing field %q in %v", f, got)
				}
			}
		})
	}
}

// TestParseClockTime covers the accepted 24-hour format.
func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    club.ClockTime
		wantErr bool
	}{
		{"00:00", 0, false},
		{"16:00", 960, false},
		{"23:59", 1439, false},
		{"09:05", 545, false},
		{"24:00", 0, true},
		{"9:05", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
		{"noon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := club.ParseClockTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClockTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, club.ErrInvalidClockTime) {
				t.Errorf("error %v does not wrap ErrInvalidClockTime", err)
			}
			if got != tt.want {
				t.Errorf("ParseClockTime(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// TestTimeSlot_JSON verifies clock times travel as "HH:MM" strings.
func TestTimeSlot_JSON(t *testing.T) {
	slot := validClub().TimeSlots[0]
	b, err := json.Marshal(slot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["startTime"] != "16:00" || raw["endTime"] != "18:00" {
		t.Errorf("times = %v/%v, want 16:00/18:00", raw["startTime"], raw["endTime"])
	}

	var bad club.TimeSlot
	if err := json.Unmarshal([]byte(`{"startTime":"4pm"}`), &bad); err == nil {
		t.Error("expected error for malformed startTime")
	}
}

// TestParseDayOfWeek verifies case-insensitive day parsing.
func TestParseDayOfWeek(t *testing.T) {
	d, err := club.ParseDayOfWeek(" monday ")
	if err != nil || d != club.Monday {
		t.Errorf("ParseDayOfWeek = %q, %v", d, err)
	}
	if _, err := club.ParseDayOfWeek("Lunes"); !errors.Is(err, club.ErrInvalidDay) {
		t.Errorf("err = %v, want ErrInvalidDay", err)
	}
}

// TestPatch_Apply verifies nil fields are left alone and slots are copied.
func TestPatch_Apply(t *testing.T) {
	orig := validClub()
	orig.ID = "c1"
	name := "Chess & Go Club"
	slots := []club.TimeSlot{{ID: "ts-9", DayOfWeek: club.Friday, Capacity: 5}}

	got := club.Patch{Name: &name, TimeSlots: &slots}.Apply(orig)
	if got.Name != name {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Description != orig.Description {
		t.Errorf("Description changed to %q", got.Description)
	}
	if len(got.TimeSlots) != 1 || got.TimeSlots[0].ID != "ts-9" {
		t.Errorf("TimeSlots = %+v", got.TimeSlots)
	}
	slots[0].Capacity = 99
	if got.TimeSlots[0].Capacity != 5 {
		t.Error("patched club shares slot storage with the patch")
	}
	if orig.TimeSlots[0].ID != "ts-1" {
		t.Error("original club mutated")
	}
}
