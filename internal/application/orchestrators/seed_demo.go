package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"clubconnect/internal/application/clublock"
	"clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

// SeedDemoStore is the store surface demo seeding needs.
type SeedDemoStore interface {
	ClubStore
	EnrollmentStore
	ListClubs(ctx context.Context) ([]club.Club, error)
}

// SeedDemoDeps holds dependencies for SeedDemo.
type SeedDemoDeps struct {
	Store SeedDemoStore
	Locks *clublock.Locker
}

func demoClubs() []ClubInput {
	return []ClubInput{
		{
			Name:         "Chess Club",
			Description:  "Sharpen your mind with the ancient game of strategy. All levels welcome!",
			CategoryIcon: "Puzzle",
			TimeSlots: []SlotInput{
				{DayOfWeek: "Monday", StartTime: "16:00", EndTime: "18:00", Capacity: 20},
				{DayOfWeek: "Wednesday", StartTime: "17:00", EndTime: "19:00", Capacity: 15},
			},
		},
		{
			Name:         "Debate Society",
			Description:  "Join stimulating discussions and polish your public speaking.",
			CategoryIcon: "Mic",
			TimeSlots: []SlotInput{
				{DayOfWeek: "Tuesday", StartTime: "18:00", EndTime: "20:00", Capacity: 25},
				{DayOfWeek: "Thursday", StartTime: "18:00", EndTime: "20:00", Capacity: 25},
			},
		},
		{
			Name:         "Art & Painting Club",
			Description:  "Unleash your creativity on canvas. Materials provided for beginners.",
			CategoryIcon: "Paintbrush",
			TimeSlots: []SlotInput{
				{DayOfWeek: "Friday", StartTime: "15:00", EndTime: "17:30", Capacity: 12},
			},
		},
		{
			Name:         "Coding Ninjas",
			Description:  "Build projects together, learn new tech and get ready for hackathons.",
			CategoryIcon: "Code",
			TimeSlots: []SlotInput{
				{DayOfWeek: "Monday", StartTime: "19:00", EndTime: "21:00", Capacity: 30},
				{DayOfWeek: "Wednesday", StartTime: "19:00", EndTime: "21:00", Capacity: 30},
				{DayOfWeek: "Saturday", StartTime: "10:00", EndTime: "13:00", Capacity: 20},
			},
		},
	}
}

// ExecuteSeedDemo loads the demo clubs and one enrollment for the demo student.
// It is idempotent: nothing happens when any club already exists.
// PRE: store is empty or already seeded
// POST: 4 clubs exist and the demo student is enrolled in the first Chess Club slot
func ExecuteSeedDemo(ctx context.Context, deps SeedDemoDeps) error {
	existing, err := deps.Store.ListClubs(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("seed_event", "event", "demo_skipped", "clubs", len(existing))
		return nil
	}

	var first club.Club
	for i, in := range demoClubs() {
		c, err := ExecuteCreateClub(ctx, in, CreateClubDeps{Store: deps.Store})
		if err != nil {
			return fmt.Errorf("seed club %q: %w", in.Name, err)
		}
		if i == 0 {
			first = c
		}
	}

	var e enrollment.Enrollment
	e, err = ExecuteEnroll(ctx, SignUpInput{
		Matricula: "12345", FirstName: "Juan", LastName: "Pérez", Group: "CS101",
		ClubID: first.ID, TimeSlotID: first.TimeSlots[0].ID,
	}, EnrollDeps{Store: deps.Store, Locks: deps.Locks})
	if err != nil {
		return fmt.Errorf("seed enrollment: %w", err)
	}
	slog.Info("seed_event", "event", "demo_seeded", "clubs", len(demoClubs()), "enrollment_id", e.ID)
	return nil
}
