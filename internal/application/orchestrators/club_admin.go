package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	clubstore "clubconnect/internal/adapters/storage/club"
	"clubconnect/internal/application/clublock"
	"clubconnect/internal/application/inputval"
	"clubconnect/internal/domain/capacity"
	"clubconnect/internal/domain/club"
)

// ClubStore is the store surface the club admin service needs.
type ClubStore interface {
	InsertClub(ctx context.Context, c club.Club) (club.Club, error)
	Atomically(ctx context.Context, fn func(tx clubstore.Tx) error) error
}

// SlotInput is one proposed time slot as submitted by an admin.
// ID is empty for new slots and set to keep an existing slot and its occupancy.
type SlotInput struct {
	ID        string `json:"id,omitempty" validate:"max=64"`
	DayOfWeek string `json:"dayOfWeek" validate:"required,dayofweek"`
	StartTime string `json:"startTime" validate:"required,clocktime"`
	EndTime   string `json:"endTime" validate:"required,clocktime"`
	Capacity  int    `json:"capacity" validate:"gte=0"`
}

// ClubInput carries club details and the full proposed slot list.
type ClubInput struct {
	Name         string      `json:"name" validate:"notblank,max=120"`
	Description  string      `json:"description" validate:"notblank,max=4000"`
	CategoryIcon string      `json:"categoryIcon" validate:"max=16"`
	TimeSlots    []SlotInput `json:"timeSlots" validate:"dive"`
}

// buildClub validates input and converts it to a domain club.
// Format problems and domain rule problems are reported together, one entry per field.
func buildClub(input ClubInput) (club.Club, error) {
	verr := &club.ValidationError{}
	if err := inputval.Struct(input); err != nil {
		verr.Merge(asValidation(err))
	}
	reported := make(map[string]bool, len(verr.Fields))
	for _, f := range verr.Fields {
		reported[f.Field] = true
	}

	c := club.Club{
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		CategoryIcon: strings.TrimSpace(input.CategoryIcon),
		TimeSlots:    make([]club.TimeSlot, 0, len(input.TimeSlots)),
	}
	for i, in := range input.TimeSlots {
		day, _ := club.ParseDayOfWeek(in.DayOfWeek)
		start, startErr := club.ParseClockTime(in.StartTime)
		end, endErr := club.ParseClockTime(in.EndTime)
		c.TimeSlots = append(c.TimeSlots, club.TimeSlot{
			ID:        strings.TrimSpace(in.ID),
			DayOfWeek: day,
			StartTime: start,
			EndTime:   end,
			Capacity:  in.Capacity,
		})
		if startErr == nil && endErr == nil {
			if err := capacity.ValidateTimeRange(start, end); err != nil {
				verr.Add(fmt.Sprintf("timeSlots[%d].endTime", i), asValidation(err).Fields[0].Message)
			}
		}
	}

	if err := c.Validate(); err != nil {
		for _, f := range asValidation(err).Fields {
			if !reported[f.Field] {
				verr.Add(f.Field, f.Message)
			}
		}
	}
	if err := verr.OrNil(); err != nil {
		return club.Club{}, err
	}
	return c, nil
}

// CreateClubDeps holds dependencies for CreateClub.
type CreateClubDeps struct {
	Store ClubStore
}

// ExecuteCreateClub validates and stores a new club.
// PRE: none; input is validated here
// POST: Returns the stored club with fresh IDs and every EnrolledCount at 0, or *club.ValidationError
func ExecuteCreateClub(ctx context.Context, input ClubInput, deps CreateClubDeps) (club.Club, error) {
	c, err := buildClub(input)
	if err != nil {
		return club.Club{}, err
	}
	created, err := deps.Store.InsertClub(ctx, c)
	if err != nil {
		return club.Club{}, err
	}
	slog.Info("club_event", "event", "created", "club_id", created.ID, "slots", len(created.TimeSlots))
	return created, nil
}

// UpdateClubDeps holds dependencies for UpdateClub.
type UpdateClubDeps struct {
	Store ClubStore
	Locks *clublock.Locker
}

// ExecuteUpdateClub replaces a club's details and slot list.
// PRE: none; input is validated here
// POST: On success kept slots carry their EnrolledCount forward and new slots start at 0;
// on any error the stored club is unchanged
// INVARIANT: no slot's Capacity drops below its EnrolledCount
func ExecuteUpdateClub(ctx context.Context, id string, input ClubInput, deps UpdateClubDeps) (club.Club, error) {
	proposed, err := buildClub(input)
	if err != nil {
		return club.Club{}, err
	}

	var updated club.Club
	unlock := deps.Locks.Lock(id)
	defer unlock()
	err = deps.Store.Atomically(ctx, func(tx clubstore.Tx) error {
		existing, err := tx.GetClub(ctx, id)
		if err != nil {
			return err
		}
		slots, err := reconcileSlots(existing.TimeSlots, proposed.TimeSlots)
		if err != nil {
			return err
		}
		updated, err = tx.ReplaceClub(ctx, id, club.Patch{
			Name:         &proposed.Name,
			Description:  &proposed.Description,
			CategoryIcon: &proposed.CategoryIcon,
			TimeSlots:    &slots,
		})
		return err
	})
	if err != nil {
		var conflict *capacity.ConflictError
		if errors.As(err, &conflict) {
			slog.Info("club_event", "event", "update_rejected", "club_id", id,
				"slot_id", conflict.SlotID, "enrolled", conflict.CurrentEnrolled, "proposed", conflict.ProposedCapacity)
		}
		return club.Club{}, err
	}
	slog.Info("club_event", "event", "updated", "club_id", id, "slots", len(updated.TimeSlots))
	return updated, nil
}

// reconcileSlots checks every proposed slot against the stored ones and
// returns the slot list to persist.
// Proposed IDs with no stored match are treated as new. A stored slot that is
// dropped while it still has enrollees is a conflict with ProposedCapacity 0.
func reconcileSlots(existing, proposed []club.TimeSlot) ([]club.TimeSlot, error) {
	byID := make(map[string]club.TimeSlot, len(existing))
	for _, s := range existing {
		byID[s.ID] = s
	}

	out := make([]club.TimeSlot, 0, len(proposed))
	kept := make(map[string]bool, len(proposed))
	for _, p := range proposed {
		old, ok := byID[p.ID]
		if p.ID == "" || !ok {
			p.ID = ""
			p.EnrolledCount = 0
			out = append(out, p)
			continue
		}
		if err := capacity.ValidateCapacityEdit(old, p.Capacity); err != nil {
			return nil, err
		}
		p.EnrolledCount = old.EnrolledCount
		kept[p.ID] = true
		out = append(out, p)
	}

	for _, s := range existing {
		if !kept[s.ID] && s.EnrolledCount > 0 {
			if err := capacity.ValidateCapacityEdit(s, 0); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// DeleteClubDeps holds dependencies for DeleteClub.
type DeleteClubDeps struct {
	Store ClubStore
	Locks *clublock.Locker
}

// ExecuteDeleteClub removes a club, its slots and every enrollment in it.
// PRE: none
// POST: club and dependents are gone, or ErrClubNotFound and nothing changed
func ExecuteDeleteClub(ctx context.Context, id string, deps DeleteClubDeps) error {
	unlock := deps.Locks.Lock(id)
	defer unlock()

	var removed int
	err := deps.Store.Atomically(ctx, func(tx clubstore.Tx) error {
		enrollments, err := tx.ListEnrollments(ctx, clubstore.ListFilter{ClubID: id})
		if err != nil {
			return err
		}
		removed = len(enrollments)
		ok, err := tx.DeleteClub(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return club.ErrClubNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("club_event", "event", "deleted", "club_id", id, "enrollments_removed", removed)
	return nil
}
