package club_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"clubconnect/internal/adapters/storage"
	store "clubconnect/internal/adapters/storage/club"
	domain "clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

var fixedNow = time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)

func seqIDs() store.IDFunc {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

// newStores returns one of each implementation, both with deterministic IDs and clock.
func newStores(t *testing.T) map[string]store.Store {
	t.Helper()
	opts := func() []store.Option {
		return []store.Option{store.WithIDFunc(seqIDs()), store.WithNow(func() time.Time { return fixedNow })}
	}

	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "clubs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]store.Store{
		"memory": store.NewMemoryStore(opts()...),
		"sqlite": store.NewSQLiteStore(db, opts()...),
	}
}

func chessClub() domain.Club {
	return domain.Club{
		Name:        "Chess Club",
		Description: "Strategy games for all levels",
		TimeSlots: []domain.TimeSlot{
			{DayOfWeek: domain.Monday, StartTime: domain.MustParseClockTime("16:00"), EndTime: domain.MustParseClockTime("18:00"), Capacity: 2, EnrolledCount: 9},
			{DayOfWeek: domain.Wednesday, StartTime: domain.MustParseClockTime("17:00"), EndTime: domain.MustParseClockTime("19:00"), Capacity: 10},
		},
	}
}

func signUp(c domain.Club, slot int, matricula string) enrollment.Enrollment {
	return enrollment.Enrollment{
		StudentMatricula: matricula, StudentFirstName: "Juan", StudentLastName: "Pérez",
		StudentGroup: "CS101", ClubID: c.ID, TimeSlotID: c.TimeSlots[slot].ID,
	}
}

// TestStore_InsertClub verifies fresh IDs and zeroed counters.
func TestStore_InsertClub(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := chessClub()
			in.ID = "client-chosen"
			c, err := s.InsertClub(ctx, in)
			if err != nil {
				t.Fatalf("InsertClub: %v", err)
			}
			if c.ID == "" || c.ID == "client-chosen" {
				t.Errorf("ID = %q, want store-assigned", c.ID)
			}
			for _, ts := range c.TimeSlots {
				if ts.ID == "" {
					t.Error("slot without ID")
				}
				if ts.EnrolledCount != 0 {
					t.Errorf("EnrolledCount = %d, want 0", ts.EnrolledCount)
				}
			}

			got, err := s.GetClub(ctx, c.ID)
			if err != nil {
				t.Fatalf("GetClub: %v", err)
			}
			if got.Name != "Chess Club" || len(got.TimeSlots) != 2 {
				t.Errorf("GetClub = %+v", got)
			}
			if got.TimeSlots[1].StartTime.String() != "17:00" || got.TimeSlots[1].DayOfWeek != domain.Wednesday {
				t.Errorf("slot order or fields lost: %+v", got.TimeSlots)
			}
		})
	}
}

// TestStore_ListClubs_InsertionOrder verifies clubs list in the order created.
func TestStore_ListClubs_InsertionOrder(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, n := range []string{"Zeta Club", "Alpha Club", "Mid Club"} {
				c := chessClub()
				c.Name = n
				if _, err := s.InsertClub(ctx, c); err != nil {
					t.Fatalf("InsertClub: %v", err)
				}
			}
			clubs, err := s.ListClubs(ctx)
			if err != nil {
				t.Fatalf("ListClubs: %v", err)
			}
			if len(clubs) != 3 || clubs[0].Name != "Zeta Club" || clubs[2].Name != "Mid Club" {
				t.Errorf("order = %v", clubs)
			}
		})
	}
}

// TestStore_GetClub_NotFound verifies the sentinel error.
func TestStore_GetClub_NotFound(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetClub(context.Background(), "missing")
			if !errors.Is(err, domain.ErrClubNotFound) {
				t.Errorf("err = %v, want ErrClubNotFound", err)
			}
		})
	}
}

// TestStore_ReplaceClub verifies patch merge and ID assignment for new slots.
func TestStore_ReplaceClub(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c, _ := s.InsertClub(ctx, chessClub())

			desc := "Openings, endgames and tournaments"
			slots := []domain.TimeSlot{
				{ID: c.TimeSlots[0].ID, DayOfWeek: domain.Monday, StartTime: domain.MustParseClockTime("16:00"), EndTime: domain.MustParseClockTime("18:00"), Capacity: 5, EnrolledCount: 1},
				{DayOfWeek: domain.Friday, StartTime: domain.MustParseClockTime("15:00"), EndTime: domain.MustParseClockTime("16:00"), Capacity: 8},
			}
			got, err := s.ReplaceClub(ctx, c.ID, domain.Patch{Description: &desc, TimeSlots: &slots})
			if err != nil {
				t.Fatalf("ReplaceClub: %v", err)
			}
			if got.Name != "Chess Club" || got.Description != desc {
				t.Errorf("merge = %q / %q", got.Name, got.Description)
			}
			if got.TimeSlots[1].ID == "" {
				t.Error("new slot was not assigned an ID")
			}

			reread, _ := s.GetClub(ctx, c.ID)
			if len(reread.TimeSlots) != 2 || reread.TimeSlots[0].EnrolledCount != 1 || reread.TimeSlots[0].Capacity != 5 {
				t.Errorf("persisted slots = %+v", reread.TimeSlots)
			}

			if _, err := s.ReplaceClub(ctx, "missing", domain.Patch{}); !errors.Is(err, domain.ErrClubNotFound) {
				t.Errorf("missing club err = %v", err)
			}
		})
	}
}

// TestStore_DeleteClub_Cascades verifies enrollments go with their club.
func TestStore_DeleteClub_Cascades(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a, _ := s.InsertClub(ctx, chessClub())
			b, _ := s.InsertClub(ctx, chessClub())
			s.InsertEnrollmentRaw(ctx, signUp(a, 0, "1"))
			s.InsertEnrollmentRaw(ctx, signUp(a, 1, "2"))
			s.InsertEnrollmentRaw(ctx, signUp(b, 0, "1"))

			ok, err := s.DeleteClub(ctx, a.ID)
			if err != nil || !ok {
				t.Fatalf("DeleteClub = %v, %v", ok, err)
			}
			all, _ := s.ListEnrollments(ctx, store.ListFilter{})
			if len(all) != 1 || all[0].ClubID != b.ID {
				t.Errorf("remaining enrollments = %+v", all)
			}
			ok, err = s.DeleteClub(ctx, a.ID)
			if err != nil || ok {
				t.Errorf("second delete = %v, %v; want false, nil", ok, err)
			}
		})
	}
}

// TestStore_Enrollments verifies raw insert, lookup, filter and delete.
func TestStore_Enrollments(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a, _ := s.InsertClub(ctx, chessClub())
			b, _ := s.InsertClub(ctx, chessClub())

			e, err := s.InsertEnrollmentRaw(ctx, signUp(a, 0, "12345"))
			if err != nil {
				t.Fatalf("InsertEnrollmentRaw: %v", err)
			}
			if e.ID == "" || !e.EnrolledAt.Equal(fixedNow) {
				t.Errorf("assigned = %q at %v", e.ID, e.EnrolledAt)
			}
			s.InsertEnrollmentRaw(ctx, signUp(b, 0, "12345"))

			got, err := s.GetEnrollment(ctx, e.ID)
			if err != nil || got.StudentLastName != "Pérez" || !got.EnrolledAt.Equal(fixedNow) {
				t.Errorf("GetEnrollment = %+v, %v", got, err)
			}
			found, ok, err := s.FindEnrollment(ctx, e.Key())
			if err != nil || !ok || found.ID != e.ID {
				t.Errorf("FindEnrollment = %+v, %v, %v", found, ok, err)
			}
			if _, ok, _ := s.FindEnrollment(ctx, enrollment.Key{Matricula: "999", ClubID: a.ID, TimeSlotID: a.TimeSlots[0].ID}); ok {
				t.Error("FindEnrollment matched a different student")
			}

			onlyA, _ := s.ListEnrollments(ctx, store.ListFilter{ClubID: a.ID})
			if len(onlyA) != 1 {
				t.Errorf("filtered = %d, want 1", len(onlyA))
			}

			if ok, _ := s.DeleteEnrollmentRaw(ctx, e.ID); !ok {
				t.Error("DeleteEnrollmentRaw = false")
			}
			if _, err := s.GetEnrollment(ctx, e.ID); !errors.Is(err, enrollment.ErrEnrollmentNotFound) {
				t.Errorf("after delete err = %v", err)
			}
			if ok, _ := s.DeleteEnrollmentRaw(ctx, e.ID); ok {
				t.Error("second delete = true")
			}
		})
	}
}

// TestStore_SetEnrolledCount verifies the counter write and its bounds.
func TestStore_SetEnrolledCount(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c, _ := s.InsertClub(ctx, chessClub())
			slot := c.TimeSlots[0]

			if err := s.SetEnrolledCount(ctx, c.ID, slot.ID, 2); err != nil {
				t.Fatalf("SetEnrolledCount: %v", err)
			}
			got, _ := s.GetClub(ctx, c.ID)
			if got.TimeSlots[0].EnrolledCount != 2 {
				t.Errorf("EnrolledCount = %d, want 2", got.TimeSlots[0].EnrolledCount)
			}
			if err := s.SetEnrolledCount(ctx, c.ID, slot.ID, 3); err == nil {
				t.Error("expected error above capacity")
			}
			if err := s.SetEnrolledCount(ctx, c.ID, "nope", 1); !errors.Is(err, domain.ErrSlotNotFound) {
				t.Errorf("unknown slot err = %v", err)
			}
		})
	}
}

// TestStore_Atomically_RollsBack verifies a failing closure leaves no trace.
func TestStore_Atomically_RollsBack(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c, _ := s.InsertClub(ctx, chessClub())
			boom := errors.New("boom")

			err := s.Atomically(ctx, func(tx store.Tx) error {
				if err := tx.SetEnrolledCount(ctx, c.ID, c.TimeSlots[0].ID, 1); err != nil {
					return err
				}
				if _, err := tx.InsertEnrollmentRaw(ctx, signUp(c, 0, "1")); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("Atomically err = %v, want boom", err)
			}
			got, _ := s.GetClub(ctx, c.ID)
			if got.TimeSlots[0].EnrolledCount != 0 {
				t.Errorf("EnrolledCount = %d after rollback", got.TimeSlots[0].EnrolledCount)
			}
			all, _ := s.ListEnrollments(ctx, store.ListFilter{})
			if len(all) != 0 {
				t.Errorf("enrollments after rollback = %d", len(all))
			}
		})
	}
}

// TestStore_ReturnsCopies verifies callers cannot mutate stored state through results.
func TestStore_ReturnsCopies(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c, _ := s.InsertClub(ctx, chessClub())
			c.TimeSlots[0].Capacity = 99
			got, _ := s.GetClub(ctx, c.ID)
			got.TimeSlots[0].EnrolledCount = 50
			again, _ := s.GetClub(ctx, c.ID)
			if again.TimeSlots[0].Capacity != 2 || again.TimeSlots[0].EnrolledCount != 0 {
				t.Errorf("stored slot mutated: %+v", again.TimeSlots[0])
			}
		})
	}
}

// TestSQLiteStore_DuplicateEnrollment verifies the UNIQUE constraint maps to the domain error.
func TestSQLiteStore_DuplicateEnrollment(t *testing.T) {
	s := newStores(t)["sqlite"]
	ctx := context.Background()
	c, _ := s.InsertClub(ctx, chessClub())
	if _, err := s.InsertEnrollmentRaw(ctx, signUp(c, 0, "1")); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := s.InsertEnrollmentRaw(ctx, signUp(c, 0, "1")); !errors.Is(err, enrollment.ErrDuplicateEnrollment) {
		t.Errorf("err = %v, want ErrDuplicateEnrollment", err)
	}
}
