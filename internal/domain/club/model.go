package club

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field length minimums for admin-authored club details.
const (
	MinNameLength        = 3
	MinDescriptionLength = 10
)

// DayOfWeek is one of the seven weekdays a slot can recur on.
type DayOfWeek string

// Day of week constants
const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
	Sunday    DayOfWeek = "Sunday"
)

// ValidDays contains all valid day values in calendar order.
var ValidDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Domain errors
var (
	ErrClubNotFound = errors.New("club not found")
	ErrSlotNotFound = errors.New("time slot not found")
	ErrInvalidDay   = errors.New("day must be a valid day of the week")
)

// ParseDayOfWeek resolves a day name case-insensitively.
// PRE: none
// POST: Returns the canonical DayOfWeek or ErrInvalidDay
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	s = strings.TrimSpace(s)
	for _, d := range ValidDays {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", ErrInvalidDay
}

// IsValid reports whether d is one of ValidDays.
func (d DayOfWeek) IsValid() bool {
	for _, v := range ValidDays {
		if v == d {
			return true
		}
	}
	return false
}

// TimeSlot is a weekly window with a seat capacity, owned by exactly one Club.
// EnrolledCount is maintained by the enrollment engine and never authored by clients.
type TimeSlot struct {
	ID            string    `json:"id"`
	DayOfWeek     DayOfWeek `json:"dayOfWeek"`
	StartTime     ClockTime `json:"startTime"`
	EndTime       ClockTime `json:"endTime"`
	Capacity      int       `json:"capacity"`
	EnrolledCount int       `json:"enrolledCount"`
}

// TimeRange renders the slot window as "HH:MM - HH:MM".
func (s TimeSlot) TimeRange() string {
	return s.StartTime.String() + " - " + s.EndTime.String()
}

// Club is a named activity group offering one or more time slots.
type Club struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CategoryIcon string     `json:"categoryIcon,omitempty"`
	TimeSlots    []TimeSlot `json:"timeSlots"`
}

// Slot returns the slot with the given id.
// PRE: none
// POST: Returns (slot, true) when present, (zero, false) otherwise
func (c Club) Slot(id string) (TimeSlot, bool) {
	for _, s := range c.TimeSlots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// Clone returns a deep copy so callers never share the slot slice.
func (c Club) Clone() Club {
	cp := c
	cp.TimeSlots = append([]TimeSlot(nil), c.TimeSlots...)
	if cp.TimeSlots == nil {
		cp.TimeSlots = []TimeSlot{}
	}
	return cp
}

// Validate checks field-level constraints on the club and its slots.
// Time ranges are checked by the capacity engine, not here.
// PRE: Club struct is populated
// POST: Returns nil if valid, *ValidationError listing every problem otherwise
func (c *Club) Validate() error {
	verr := &ValidationError{}
	if utf8.RuneCountInString(strings.TrimSpace(c.Name)) < MinNameLength {
		verr.Add("name", fmt.Sprintf("name must be at least %d characters", MinNameLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Description)) < MinDescriptionLength {
		verr.Add("description", fmt.Sprintf("description must be at least %d characters", MinDescriptionLength))
	}
	seen := make(map[string]bool, len(c.TimeSlots))
	for i, s := range c.TimeSlots {
		prefix := fmt.Sprintf("timeSlots[%d]", i)
		if !s.DayOfWeek.IsValid() {
			verr.Add(prefix+".dayOfWeek", ErrInvalidDay.Error())
		}
		if s.Capacity < 0 {
			verr.Add(prefix+".capacity", "capacity cannot be negative")
		}
		if s.EnrolledCount < 0 {
			verr.Add(prefix+".enrolledCount", "enrolled count cannot be negative")
		}
		if s.ID != "" {
			if seen[s.ID] {
				verr.Add(prefix+".id", "duplicate time slot id")
			}
			seen[s.ID] = true
		}
	}
	return verr.OrNil()
}

// Patch carries an explicit partial update to a Club. Nil fields are left unchanged.
type Patch struct {
	Name         *string
	Description  *string
	CategoryIcon *string
	TimeSlots    *[]TimeSlot
}

// Apply merges the patch into c and returns the result. Slot IDs are not assigned here.
// PRE: none
// POST: Returns a copy of c with every non-nil patch field replaced
func (p Patch) Apply(c Club) Club {
	out := c.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.CategoryIcon != nil {
		out.CategoryIcon = *p.CategoryIcon
	}
	if p.TimeSlots != nil {
		out.TimeSlots = append([]TimeSlot{}, (*p.TimeSlots)...)
	}
	return out
}
