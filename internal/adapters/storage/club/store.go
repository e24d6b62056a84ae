package club

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

// ListFilter narrows ListEnrollments. The zero value lists everything.
type ListFilter struct {
	ClubID string
}

// Reader is the read half of the store.
type Reader interface {
	ListClubs(ctx context.Context) ([]domain.Club, error)
	GetClub(ctx context.Context, id string) (domain.Club, error)
	ListEnrollments(ctx context.Context, f ListFilter) ([]enrollment.Enrollment, error)
	GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error)
	FindEnrollment(ctx context.Context, k enrollment.Key) (enrollment.Enrollment, bool, error)
}

// Tx is the full read/write surface. Inside Atomically it is bound to one
// all-or-nothing unit of work; on a Store each call commits on its own.
type Tx interface {
	Reader

	// InsertClub assigns fresh IDs to the club and every slot and zeroes enrolled counts.
	InsertClub(ctx context.Context, c domain.Club) (domain.Club, error)
	// ReplaceClub merges p into the stored club. Slots without an ID get one;
	// EnrolledCount is stored as given.
	ReplaceClub(ctx context.Context, id string, p domain.Patch) (domain.Club, error)
	// DeleteClub removes the club and every enrollment that references it.
	DeleteClub(ctx context.Context, id string) (bool, error)

	// InsertEnrollmentRaw assigns ID and EnrolledAt without any capacity check.
	InsertEnrollmentRaw(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error)
	DeleteEnrollmentRaw(ctx context.Context, id string) (bool, error)
	// SetEnrolledCount overwrites one slot's counter.
	SetEnrolledCount(ctx context.Context, clubID, slotID string, n int) error
}

// Store persists clubs, their time slots and enrollments.
type Store interface {
	Tx

	// Atomically runs fn against a transactional view. Writes made through the
	// view become visible only if fn returns nil.
	Atomically(ctx context.Context, fn func(tx Tx) error) error
}

// IDFunc generates identifiers for new records.
type IDFunc func() string

// Option configures a store.
type Option func(*options)

type options struct {
	newID IDFunc
	now   func() time.Time
}

func defaultOptions() options {
	return options{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithIDFunc overrides ID generation (tests use deterministic IDs).
func WithIDFunc(f IDFunc) Option {
	return func(o *options) { o.newID = f }
}

// WithNow overrides the enrollment timestamp clock.
func WithNow(f func() time.Time) Option {
	return func(o *options) { o.now = f }
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// assignSlotIDs gives every slot without an ID a fresh one.
func assignSlotIDs(slots []domain.TimeSlot, newID IDFunc) []domain.TimeSlot {
	out := make([]domain.TimeSlot, len(slots))
	for i, s := range slots {
		if s.ID == "" {
			s.ID = newID()
		}
		out[i] = s
	}
	return out
}
