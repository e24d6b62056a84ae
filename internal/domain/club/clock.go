package club

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidClockTime is returned for anything other than a 24-hour "HH:MM" string.
var ErrInvalidClockTime = errors.New("time must be in HH:MM format (24-hour)")

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ClockTime is a minute-precision time of day, stored as minutes since midnight.
type ClockTime int

// ParseClockTime parses a 24-hour "HH:MM" string.
// PRE: none
// POST: Returns minutes since midnight, or ErrInvalidClockTime
func ParseClockTime(s string) (ClockTime, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClockTime)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return ClockTime(h*60 + mm), nil
}

// MustParseClockTime is ParseClockTime for literals in tests and seed data.
func MustParseClockTime(s string) ClockTime {
	t, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String renders the time as "HH:MM".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalText renders the time as "HH:MM" for JSON and form encoding.
func (t ClockTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses "HH:MM".
func (t *ClockTime) UnmarshalText(b []byte) error {
	v, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
