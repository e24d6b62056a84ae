package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubconnect/internal/adapters/storage"
	domain "clubconnect/internal/domain/club"
	"clubconnect/internal/domain/enrollment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   storage.SQLDB
	opts options
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore on a migrated database.
func NewSQLiteStore(db storage.SQLDB, opts ...Option) *SQLiteStore {
	return &SQLiteStore{db: db, opts: buildOptions(opts)}
}

const timeFormat = time.RFC3339Nano

// sqlOps runs every operation against one Querier: the pool for reads, a *sql.Tx inside Atomically.
type sqlOps struct {
	q    storage.Querier
	opts options
}

func (s *SQLiteStore) ops() *sqlOps {
	return &sqlOps{q: s.db, opts: s.opts}
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// Atomically runs fn inside one SQLite transaction.
// PRE: fn does not retain tx after returning
// POST: committed when fn returns nil, rolled back otherwise
func (s *SQLiteStore) Atomically(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(&sqlOps{q: tx, opts: s.opts}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListClubs returns all clubs with their slots in insertion order.
func (s *SQLiteStore) ListClubs(ctx context.Context) ([]domain.Club, error) {
	return s.ops().ListClubs(ctx)
}

// GetClub retrieves a club by ID.
// PRE: id is non-empty
// POST: returns the club or ErrClubNotFound
func (s *SQLiteStore) GetClub(ctx context.Context, id string) (domain.Club, error) {
	return s.ops().GetClub(ctx, id)
}

// ListEnrollments returns enrollments matching f in insertion order.
func (s *SQLiteStore) ListEnrollments(ctx context.Context, f ListFilter) ([]enrollment.Enrollment, error) {
	return s.ops().ListEnrollments(ctx, f)
}

// GetEnrollment retrieves an enrollment by ID.
func (s *SQLiteStore) GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error) {
	return s.ops().GetEnrollment(ctx, id)
}

// FindEnrollment looks an enrollment up by student, club and slot.
func (s *SQLiteStore) FindEnrollment(ctx context.Context, k enrollment.Key) (enrollment.Enrollment, bool, error) {
	return s.ops().FindEnrollment(ctx, k)
}

// InsertClub stores a club and its slots in one transaction.
func (s *SQLiteStore) InsertClub(ctx context.Context, c domain.Club) (domain.Club, error) {
	var out domain.Club
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		out, err = tx.InsertClub(ctx, c)
		return err
	})
	return out, err
}

// ReplaceClub merges p into the stored club in one transaction.
func (s *SQLiteStore) ReplaceClub(ctx context.Context, id string, p domain.Patch) (domain.Club, error) {
	var out domain.Club
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		out, err = tx.ReplaceClub(ctx, id, p)
		return err
	})
	return out, err
}

// DeleteClub removes a club with its slots and enrollments.
func (s *SQLiteStore) DeleteClub(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.Atomically(ctx, func(tx Tx) error {
		var err error
		ok, err = tx.DeleteClub(ctx, id)
		return err
	})
	return ok, err
}

// InsertEnrollmentRaw stores an enrollment without a capacity check.
func (s *SQLiteStore) InsertEnrollmentRaw(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	return s.ops().InsertEnrollmentRaw(ctx, e)
}

// DeleteEnrollmentRaw removes an enrollment without touching counters.
func (s *SQLiteStore) DeleteEnrollmentRaw(ctx context.Context, id string) (bool, error) {
	return s.ops().DeleteEnrollmentRaw(ctx, id)
}

// SetEnrolledCount overwrites a slot's counter.
func (s *SQLiteStore) SetEnrolledCount(ctx context.Context, clubID, slotID string, n int) error {
	return s.ops().SetEnrolledCount(ctx, clubID, slotID, n)
}

// --- sqlOps: clubs ---

func (o *sqlOps) ListClubs(ctx context.Context) ([]domain.Club, error) {
	rows, err := o.q.QueryContext(ctx,
		`SELECT id, name, description, category_icon FROM club ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	clubs := []domain.Club{}
	index := make(map[string]int)
	for rows.Next() {
		var c domain.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CategoryIcon); err != nil {
			rows.Close()
			return nil, err
		}
		c.TimeSlots = []domain.TimeSlot{}
		index[c.ID] = len(clubs)
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	slots, err := o.q.QueryContext(ctx,
		`SELECT club_id, id, day_of_week, start_minute, end_minute, capacity, enrolled_count
		 FROM time_slot ORDER BY club_id, position`)
	if err != nil {
		return nil, err
	}
	defer slots.Close()
	for slots.Next() {
		var clubID string
		ts, err := scanSlot(slots, &clubID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[clubID]; ok {
			clubs[i].TimeSlots = append(clubs[i].TimeSlots, ts)
		}
	}
	return clubs, slots.Err()
}

func (o *sqlOps) GetClub(ctx context.Context, id string) (domain.Club, error) {
	var c domain.Club
	err := o.q.QueryRowContext(ctx,
		`SELECT id, name, description, category_icon FROM club WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CategoryIcon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Club{}, domain.ErrClubNotFound
	}
	if err != nil {
		return domain.Club{}, err
	}

	rows, err := o.q.QueryContext(ctx,
		`SELECT club_id, id, day_of_week, start_minute, end_minute, capacity, enrolled_count
		 FROM time_slot WHERE club_id = ? ORDER BY position`, id)
	if err != nil {
		return domain.Club{}, err
	}
	defer rows.Close()
	c.TimeSlots = []domain.TimeSlot{}
	for rows.Next() {
		var clubID string
		ts, err := scanSlot(rows, &clubID)
		if err != nil {
			return domain.Club{}, err
		}
		c.TimeSlots = append(c.TimeSlots, ts)
	}
	return c, rows.Err()
}

func scanSlot(rows *sql.Rows, clubID *string) (domain.TimeSlot, error) {
	var ts domain.TimeSlot
	var day string
	var start, end int
	if err := rows.Scan(clubID, &ts.ID, &day, &start, &end, &ts.Capacity, &ts.EnrolledCount); err != nil {
		return ts, err
	}
	ts.DayOfWeek = domain.DayOfWeek(day)
	ts.StartTime = domain.ClockTime(start)
	ts.EndTime = domain.ClockTime(end)
	return ts, nil
}

func (o *sqlOps) insertSlots(ctx context.Context, clubID string, slots []domain.TimeSlot) error {
	for i, ts := range slots {
		_, err := o.q.ExecContext(ctx,
			`INSERT INTO time_slot (club_id, id, position, day_of_week, start_minute, end_minute, capacity, enrolled_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			clubID, ts.ID, i, string(ts.DayOfWeek), int(ts.StartTime), int(ts.EndTime), ts.Capacity, ts.EnrolledCount)
		if err != nil {
			return fmt.Errorf("insert slot %s: %w", ts.ID, err)
		}
	}
	return nil
}

func (o *sqlOps) InsertClub(ctx context.Context, c domain.Club) (domain.Club, error) {
	c = c.Clone()
	c.ID = o.opts.newID()
	for i := range c.TimeSlots {
		c.TimeSlots[i].ID = o.opts.newID()
		c.TimeSlots[i].EnrolledCount = 0
	}
	_, err := o.q.ExecContext(ctx,
		`INSERT INTO club (id, name, description, category_icon) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.CategoryIcon)
	if err != nil {
		return domain.Club{}, err
	}
	if err := o.insertSlots(ctx, c.ID, c.TimeSlots); err != nil {
		return domain.Club{}, err
	}
	return c, nil
}

func (o *sqlOps) ReplaceClub(ctx context.Context, id string, p domain.Patch) (domain.Club, error) {
	existing, err := o.GetClub(ctx, id)
	if err != nil {
		return domain.Club{}, err
	}
	merged := p.Apply(existing)
	merged.ID = id
	merged.TimeSlots = assignSlotIDs(merged.TimeSlots, o.opts.newID)

	_, err = o.q.ExecContext(ctx,
		`UPDATE club SET name = ?, description = ?, category_icon = ? WHERE id = ?`,
		merged.Name, merged.Description, merged.CategoryIcon, id)
	if err != nil {
		return domain.Club{}, err
	}
	if p.TimeSlots != nil {
		if _, err := o.q.ExecContext(ctx, `DELETE FROM time_slot WHERE club_id = ?`, id); err != nil {
			return domain.Club{}, err
		}
		if err := o.insertSlots(ctx, id, merged.TimeSlots); err != nil {
			return domain.Club{}, err
		}
	}
	return merged, nil
}

// DeleteClub deletes dependents explicitly so the cascade holds even if a
// connection was opened without foreign_keys(ON).
func (o *sqlOps) DeleteClub(ctx context.Context, id string) (bool, error) {
	if _, err := o.q.ExecContext(ctx, `DELETE FROM enrollment WHERE club_id = ?`, id); err != nil {
		return false, err
	}
	if _, err := o.q.ExecContext(ctx, `DELETE FROM time_slot WHERE club_id = ?`, id); err != nil {
		return false, err
	}
	res, err := o.q.ExecContext(ctx, `DELETE FROM club WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (o *sqlOps) SetEnrolledCount(ctx context.Context, clubID, slotID string, n int) error {
	res, err := o.q.ExecContext(ctx,
		`UPDATE time_slot SET enrolled_count = ? WHERE club_id = ? AND id = ?`, n, clubID, slotID)
	if err != nil {
		return fmt.Errorf("set enrolled count for slot %s: %w", slotID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

// --- sqlOps: enrollments ---

const enrollmentColumns = `id, student_matricula, student_first_name, student_last_name, student_group,
	club_id, time_slot_id, enrolled_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(r rowScanner) (enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	var at string
	err := r.Scan(&e.ID, &e.StudentMatricula, &e.StudentFirstName, &e.StudentLastName,
		&e.StudentGroup, &e.ClubID, &e.TimeSlotID, &at)
	if err != nil {
		return e, err
	}
	e.EnrolledAt, err = time.Parse(timeFormat, at)
	if err != nil {
		return e, fmt.Errorf("enrollment %s: bad enrolled_at %q: %w", e.ID, at, err)
	}
	return e, nil
}

func (o *sqlOps) ListEnrollments(ctx context.Context, f ListFilter) ([]enrollment.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollment`
	var args []any
	if f.ClubID != "" {
		query += ` WHERE club_id = ?`
		args = append(args, f.ClubID)
	}
	query += ` ORDER BY seq`

	rows, err := o.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []enrollment.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (o *sqlOps) GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error) {
	row := o.q.QueryRowContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollment WHERE id = ?`, id)
	e, err := scanEnrollment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return enrollment.Enrollment{}, enrollment.ErrEnrollmentNotFound
	}
	return e, err
}

func (o *sqlOps) FindEnrollment(ctx context.Context, k enrollment.Key) (enrollment.Enrollment, bool, error) {
	row := o.q.QueryRowContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollment
		 WHERE student_matricula = ? AND club_id = ? AND time_slot_id = ?`,
		k.Matricula, k.ClubID, k.TimeSlotID)
	e, err := scanEnrollment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return enrollment.Enrollment{}, false, nil
	}
	if err != nil {
		return enrollment.Enrollment{}, false, err
	}
	return e, true, nil
}

func (o *sqlOps) InsertEnrollmentRaw(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	e.ID = o.opts.newID()
	e.EnrolledAt = o.opts.now()
	_, err := o.q.ExecContext(ctx,
		`INSERT INTO enrollment (`+enrollmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.StudentMatricula, e.StudentFirstName, e.StudentLastName, e.StudentGroup,
		e.ClubID, e.TimeSlotID, e.EnrolledAt.Format(timeFormat))
	if isUniqueViolation(err) {
		return enrollment.Enrollment{}, enrollment.ErrDuplicateEnrollment
	}
	if err != nil {
		return enrollment.Enrollment{}, err
	}
	return e, nil
}

func (o *sqlOps) DeleteEnrollmentRaw(ctx context.Context, id string) (bool, error) {
	res, err := o.q.ExecContext(ctx, `DELETE FROM enrollment WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
