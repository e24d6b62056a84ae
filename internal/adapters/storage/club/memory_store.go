package club

import (
	"context"
	"fmt"
	"sync"

	domain "clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

// memoryState holds records in insertion order.
type memoryState struct {
	clubs       []domain.Club
	enrollments []enrollment.Enrollment
}

func (st memoryState) clone() memoryState {
	out := memoryState{
		clubs:       make([]domain.Club, len(st.clubs)),
		enrollments: append([]enrollment.Enrollment(nil), st.enrollments...),
	}
	for i, c := range st.clubs {
		out.clubs[i] = c.Clone()
	}
	return out
}

func (st *memoryState) clubIndex(id string) int {
	for i, c := range st.clubs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// MemoryStore is an in-process Store. State is lost on exit.
type MemoryStore struct {
	mu    sync.RWMutex
	state memoryState
	opts  options
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: buildOptions(opts)}
}

// memoryTx applies operations to a state it does not lock itself.
type memoryTx struct {
	st   *memoryState
	opts options
}

// Atomically runs fn on a private copy and swaps it in only on success.
// PRE: fn does not retain tx after returning
// POST: either every write fn made is visible, or none is
func (s *MemoryStore) Atomically(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&memoryTx{st: &work, opts: s.opts}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemoryStore) read() *memoryTx {
	return &memoryTx{st: &s.state, opts: s.opts}
}

// ListClubs returns copies of all clubs in insertion order.
func (s *MemoryStore) ListClubs(ctx context.Context) ([]domain.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListClubs(ctx)
}

// GetClub returns a copy of one club.
func (s *MemoryStore) GetClub(ctx context.Context, id string) (domain.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetClub(ctx, id)
}

// ListEnrollments returns enrollments matching f in insertion order.
func (s *MemoryStore) ListEnrollments(ctx context.Context, f ListFilter) ([]enrollment.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListEnrollments(ctx, f)
}

// GetEnrollment returns one enrollment by ID.
func (s *MemoryStore) GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetEnrollment(ctx, id)
}

// FindEnrollment looks an enrollment up by its uniqueness key.
func (s *MemoryStore) FindEnrollment(ctx context.Context, k enrollment.Key) (enrollment.Enrollment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindEnrollment(ctx, k)
}

// InsertClub stores a new club.
func (s *MemoryStore) InsertClub(ctx context.Context, c domain.Club) (domain.Club, error) {
	var out domain.Club
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		out, err = tx.InsertClub(ctx, c)
		return err
	})
	return out, err
}

// ReplaceClub merges p into an existing club.
func (s *MemoryStore) ReplaceClub(ctx context.Context, id string, p domain.Patch) (domain.Club, error) {
	var out domain.Club
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		out, err = tx.ReplaceClub(ctx, id, p)
		return err
	})
	return out, err
}

// DeleteClub removes a club and its enrollments.
func (s *MemoryStore) DeleteClub(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		ok, err = tx.DeleteClub(ctx, id)
		return err
	})
	return ok, err
}

// InsertEnrollmentRaw appends an enrollment without a capacity check.
func (s *MemoryStore) InsertEnrollmentRaw(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	var out enrollment.Enrollment
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		out, err = tx.InsertEnrollmentRaw(ctx, e)
		return err
	})
	return out, err
}

// DeleteEnrollmentRaw removes an enrollment without touching counters.
func (s *MemoryStore) DeleteEnrollmentRaw(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		ok, err = tx.DeleteEnrollmentRaw(ctx, id)
		return err
	})
	return ok, err
}

// SetEnrolledCount overwrites a slot's counter.
func (s *MemoryStore) SetEnrolledCount(ctx context.Context, clubID, slotID string, n int) error {
	return s.Atomically(ctx, func(tx Tx) error {
		return tx.SetEnrolledCount(ctx, clubID, slotID, n)
	})
}

// --- memoryTx ---

func (t *memoryTx) ListClubs(ctx context.Context) ([]domain.Club, error) {
	out := make([]domain.Club, len(t.st.clubs))
	for i, c := range t.st.clubs {
		out[i] = c.Clone()
	}
	return out, nil
}

func (t *memoryTx) GetClub(ctx context.Context, id string) (domain.Club, error) {
	i := t.st.clubIndex(id)
	if i < 0 {
		return domain.Club{}, domain.ErrClubNotFound
	}
	return t.st.clubs[i].Clone(), nil
}

func (t *memoryTx) ListEnrollments(ctx context.Context, f ListFilter) ([]enrollment.Enrollment, error) {
	out := []enrollment.Enrollment{}
	for _, e := range t.st.enrollments {
		if f.ClubID != "" && e.ClubID != f.ClubID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (t *memoryTx) GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error) {
	for _, e := range t.st.enrollments {
		if e.ID == id {
			return e, nil
		}
	}
	return enrollment.Enrollment{}, enrollment.ErrEnrollmentNotFound
}

func (t *memoryTx) FindEnrollment(ctx context.Context, k enrollment.Key) (enrollment.Enrollment, bool, error) {
	for _, e := range t.st.enrollments {
		if e.Key() == k {
			return e, true, nil
		}
	}
	return enrollment.Enrollment{}, false, nil
}

func (t *memoryTx) InsertClub(ctx context.Context, c domain.Club) (domain.Club, error) {
	c = c.Clone()
	c.ID = t.opts.newID()
	for i := range c.TimeSlots {
		c.TimeSlots[i].ID = t.opts.newID()
		c.TimeSlots[i].EnrolledCount = 0
	}
	t.st.clubs = append(t.st.clubs, c)
	return c.Clone(), nil
}

func (t *memoryTx) ReplaceClub(ctx context.Context, id string, p domain.Patch) (domain.Club, error) {
	i := t.st.clubIndex(id)
	if i < 0 {
		return domain.Club{}, domain.ErrClubNotFound
	}
	merged := p.Apply(t.st.clubs[i])
	merged.ID = id
	merged.TimeSlots = assignSlotIDs(merged.TimeSlots, t.opts.newID)
	t.st.clubs[i] = merged
	return merged.Clone(), nil
}

func (t *memoryTx) DeleteClub(ctx context.Context, id string) (bool, error) {
	i := t.st.clubIndex(id)
	if i < 0 {
		return false, nil
	}
	t.st.clubs = append(t.st.clubs[:i:i], t.st.clubs[i+1:]...)
	kept := t.st.enrollments[:0:0]
	for _, e := range t.st.enrollments {
		if e.ClubID != id {
			kept = append(kept, e)
		}
	}
	t.st.enrollments = kept
	return true, nil
}

func (t *memoryTx) InsertEnrollmentRaw(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	e.ID = t.opts.newID()
	e.EnrolledAt = t.opts.now()
	t.st.enrollments = append(t.st.enrollments, e)
	return e, nil
}

func (t *memoryTx) DeleteEnrollmentRaw(ctx context.Context, id string) (bool, error) {
	for i, e := range t.st.enrollments {
		if e.ID == id {
			t.st.enrollments = append(t.st.enrollments[:i:i], t.st.enrollments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) SetEnrolledCount(ctx context.Context, clubID, slotID string, n int) error {
	i := t.st.clubIndex(clubID)
	if i < 0 {
		return domain.ErrClubNotFound
	}
	for j := range t.st.clubs[i].TimeSlots {
		slot := &t.st.clubs[i].TimeSlots[j]
		if slot.ID != slotID {
			continue
		}
		if n < 0 || n > slot.Capacity {
			return fmt.Errorf("enrolled count %d outside [0, %d] for slot %s", n, slot.Capacity, slotID)
		}
		slot.EnrolledCount = n
		return nil
	}
	return domain.ErrSlotNotFound
}
