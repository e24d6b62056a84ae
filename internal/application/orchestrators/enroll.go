package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	clubstore "clubconnect/internal/adapters/storage/club"
	"clubconnect/internal/application/clublock"
	"clubconnect/internal/application/inputval"
	"clubconnect/internal/domain/capacity"
	"clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

// EnrollmentStore is the store surface the enrollment service needs.
type EnrollmentStore interface {
	GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error)
	Atomically(ctx context.Context, fn func(tx clubstore.Tx) error) error
}

// SignUpInput carries the sign-up form.
type SignUpInput struct {
	Matricula  string `json:"matricula" validate:"max=32"`
	FirstName  string `json:"firstName" validate:"max=100"`
	LastName   string `json:"lastName" validate:"max=100"`
	Group      string `json:"group" validate:"max=32"`
	ClubID     string `json:"clubId"`
	TimeSlotID string `json:"timeSlotId"`
}

func (in SignUpInput) enrollment() enrollment.Enrollment {
	return enrollment.Enrollment{
		StudentMatricula: strings.TrimSpace(in.Matricula),
		StudentFirstName: strings.TrimSpace(in.FirstName),
		StudentLastName:  strings.TrimSpace(in.LastName),
		StudentGroup:     strings.TrimSpace(in.Group),
		ClubID:           strings.TrimSpace(in.ClubID),
		TimeSlotID:       strings.TrimSpace(in.TimeSlotID),
	}
}

// EnrollDeps holds dependencies for Enroll.
type EnrollDeps struct {
	Store    EnrollmentStore
	Locks    *clublock.Locker
	Notifier SlotFullNotifier // optional
}

// ExecuteEnroll signs a student up for one time slot of one club.
// PRE: none; input is validated here
// POST: On success the slot's EnrolledCount grew by one and the enrollment is stored; on error nothing was written
// INVARIANT: EnrolledCount never exceeds Capacity
func ExecuteEnroll(ctx context.Context, input SignUpInput, deps EnrollDeps) (enrollment.Enrollment, error) {
	e := input.enrollment()
	verr := &club.ValidationError{}
	if err := e.Validate(); err != nil {
		verr.Merge(asValidation(err))
	}
	if err := inputval.Struct(input); err != nil {
		verr.Merge(asValidation(err))
	}
	if err := verr.OrNil(); err != nil {
		return enrollment.Enrollment{}, err
	}

	var (
		created  enrollment.Enrollment
		slot     club.TimeSlot
		clubName string
	)
	err := deps.Locks.WithLock(e.ClubID, func() error {
		return deps.Store.Atomically(ctx, func(tx clubstore.Tx) error {
			c, err := tx.GetClub(ctx, e.ClubID)
			if err != nil {
				return err
			}
			var ok bool
			slot, ok = c.Slot(e.TimeSlotID)
			if !ok {
				return club.ErrSlotNotFound
			}
			if !capacity.CanAcceptOne(slot) {
				return enrollment.ErrSlotFull
			}
			if _, exists, err := tx.FindEnrollment(ctx, e.Key()); err != nil {
				return err
			} else if exists {
				return enrollment.ErrDuplicateEnrollment
			}

			slot.EnrolledCount++
			if err := tx.SetEnrolledCount(ctx, c.ID, slot.ID, slot.EnrolledCount); err != nil {
				return err
			}
			created, err = tx.InsertEnrollmentRaw(ctx, e)
			clubName = c.Name
			return err
		})
	})
	if err != nil {
		logEnrollRejected(e, err)
		return enrollment.Enrollment{}, err
	}
	slog.Info("enrollment_event", "event", "enrolled",
		"enrollment_id", created.ID, "club_id", created.ClubID, "slot_id", created.TimeSlotID,
		"enrolled", slot.EnrolledCount, "capacity", slot.Capacity)

	if deps.Notifier != nil && !capacity.CanAcceptOne(slot) {
		deps.Notifier.SlotFilled(ctx, clubName, slot)
	}
	return created, nil
}

func logEnrollRejected(e enrollment.Enrollment, err error) {
	switch {
	case errors.Is(err, club.ErrClubNotFound), errors.Is(err, club.ErrSlotNotFound),
		errors.Is(err, enrollment.ErrSlotFull), errors.Is(err, enrollment.ErrDuplicateEnrollment):
		slog.Info("enrollment_event", "event", "enroll_rejected",
			"club_id", e.ClubID, "slot_id", e.TimeSlotID, "reason", err.Error())
	default:
		slog.Error("enrollment_event", "event", "enroll_failed",
			"club_id", e.ClubID, "slot_id", e.TimeSlotID, "error", err)
	}
}

// RemoveEnrollmentInput identifies the enrollment to remove.
type RemoveEnrollmentInput struct {
	EnrollmentID string
}

// RemoveEnrollmentDeps holds dependencies for RemoveEnrollment.
type RemoveEnrollmentDeps struct {
	Store EnrollmentStore
	Locks *clublock.Locker
}

// ExecuteRemoveEnrollment deletes an enrollment and releases its seat.
// PRE: none
// POST: The enrollment is gone and its slot's EnrolledCount dropped by one, floored at 0
func ExecuteRemoveEnrollment(ctx context.Context, input RemoveEnrollmentInput, deps RemoveEnrollmentDeps) error {
	// Resolve the club first so the right lock is taken; re-read under the lock.
	found, err := deps.Store.GetEnrollment(ctx, input.EnrollmentID)
	if err != nil {
		return err
	}

	unlock := deps.Locks.Lock(found.ClubID)
	defer unlock()
	err = deps.Store.Atomically(ctx, func(tx clubstore.Tx) error {
		e, err := tx.GetEnrollment(ctx, input.EnrollmentID)
		if err != nil {
			return err
		}
		c, err := tx.GetClub(ctx, e.ClubID)
		if err != nil && !errors.Is(err, club.ErrClubNotFound) {
			return err
		}
		if slot, ok := c.Slot(e.TimeSlotID); ok && err == nil {
			if err := tx.SetEnrolledCount(ctx, c.ID, slot.ID, max(slot.EnrolledCount-1, 0)); err != nil {
				return err
			}
		}
		ok, err := tx.DeleteEnrollmentRaw(ctx, e.ID)
		if err != nil {
			return err
		}
		if !ok {
			return enrollment.ErrEnrollmentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("enrollment_event", "event", "removed",
		"enrollment_id", found.ID, "club_id", found.ClubID, "slot_id", found.TimeSlotID)
	return nil
}

// asValidation unwraps err into a *club.ValidationError, or wraps a plain error under "input".
func asValidation(err error) *club.ValidationError {
	var verr *club.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	out := &club.ValidationError{}
	out.Add("input", err.Error())
	return out
}
