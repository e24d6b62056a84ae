package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clubconnect/internal/adapters/http/perf"
)

// Querier is the subset of *sql.DB and *sql.Tx that store operations need.
// Reads and writes inside Atomically run against a *sql.Tx through this interface.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDB is the database handle given to SQLite stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB   = (*sql.DB)(nil)
	_ SQLDB   = (*TimedDB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow statements and record them to a collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection; slowMs <= 0 selects DefaultSlowQueryMs
// POST: Returns a TimedDB that logs statements slower than slowMs and records every one to collector
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowMs int) *TimedDB {
	if slowMs <= 0 {
		slowMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowMs),
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// statementLabel reduces a statement to "VERB table" so the perf dashboard groups
// by shape rather than by literal text.
func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "empty"
	}
	verb := strings.ToUpper(fields[0])
	for i, f := range fields {
		switch strings.ToUpper(f) {
		case "FROM", "INTO", "UPDATE":
			if i+1 < len(fields) {
				return verb + " " + strings.Trim(fields[i+1], "(,;")
			}
		}
	}
	return verb
}

func (t *TimedDB) observe(query string, start time.Time, err error) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	label := statementLabel(query)

	if durationMs >= t.threshold {
		slog.Warn("slow_query", "stmt", label, "duration_ms", durationMs, "error", err)
	} else {
		slog.Debug("query", "stmt", label, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Label:      label,
			Failed:     err != nil && !errors.Is(err, sql.ErrNoRows),
			DurationMs: durationMs,
			At:         start,
		})
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(query, start, err)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(query, start, err)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(query, start, row.Err())
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing. With _txlock=immediate this is where
// writers queue for the database lock, so slow BeginTx means write contention.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe("BEGIN tx", start, err)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// PingContext verifies the database connection.
// PRE: none
// POST: returns nil if connection is alive
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}
