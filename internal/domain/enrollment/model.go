package enrollment

import (
	"errors"
	"strings"
	"time"

	"clubconnect/internal/domain/club"
)

// Domain errors
var (
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrSlotFull            = errors.New("this time slot is full")
	ErrDuplicateEnrollment = errors.New("student is already enrolled in this time slot")
)

// Enrollment binds one student to one time slot of one club.
// It references the club and slot by ID only; the club owns the slot.
type Enrollment struct {
	ID               string    `json:"id"`
	StudentMatricula string    `json:"studentMatricula"`
	StudentFirstName string    `json:"studentFirstName"`
	StudentLastName  string    `json:"studentLastName"`
	StudentGroup     string    `json:"studentGroup"`
	ClubID           string    `json:"clubId"`
	TimeSlotID       string    `json:"timeSlotId"`
	EnrolledAt       time.Time `json:"enrolledAt"`
}

// Key identifies the (student, club, slot) triple that must be unique among live enrollments.
type Key struct {
	Matricula  string
	ClubID     string
	TimeSlotID string
}

// Key returns the uniqueness key of e.
func (e Enrollment) Key() Key {
	return Key{Matricula: e.StudentMatricula, ClubID: e.ClubID, TimeSlotID: e.TimeSlotID}
}

// StudentName joins first and last name for display.
func (e Enrollment) StudentName() string {
	return strings.TrimSpace(e.StudentFirstName + " " + e.StudentLastName)
}

// Validate checks that every sign-up field is present.
// PRE: Enrollment struct is populated
// POST: Returns nil if valid, *club.ValidationError listing missing fields otherwise
func (e *Enrollment) Validate() error {
	verr := &club.ValidationError{}
	required := []struct {
		field string
		value string
		msg   string
	}{
		{"matricula", e.StudentMatricula, "matricula is required"},
		{"firstName", e.StudentFirstName, "first name is required"},
		{"lastName", e.StudentLastName, "last name is required"},
		{"group", e.StudentGroup, "group is required"},
		{"clubId", e.ClubID, "club selection is required"},
		{"timeSlotId", e.TimeSlotID, "time slot selection is required"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.Add(r.field, r.msg)
		}
	}
	return verr.OrNil()
}
