package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"reflect"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
)

// Ensure Postgres implements Store
var _ Store = (*Postgres)(nil)
var _ Tx = (*pgTx)(nil)

// Postgres is the PostgreSQL-backed Store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens the database, pings it and creates the schema if missing.
func NewPostgres(cfg *config.PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping postgres: %v", ErrUnavailable, err)
	}

	s := NewPostgresFromDB(db)
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL storage initialized")
	return s, nil
}

// NewPostgresFromDB wraps an already opened handle without touching the schema.
func NewPostgresFromDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Postgres) WithTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{q: tx}); err != nil {
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

// classify marks connectivity failures as ErrUnavailable and leaves everything else alone.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// pgTx implements Tx over one *sql.Tx.
type pgTx struct {
	q querier
}

// table describes the column layout shared by the select and upsert statements of one entity.
// Columns are listed key columns first.
type table struct {
	name string
	keys []string
	cols []string
}

func (t table) selectSQL(where string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(t.cols, ", "), t.name, where)
}

func (t table) placeholders() string {
	ph := make([]string, len(t.cols))
	for i := range t.cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ph, ", ")
}

func (t table) valueCols() []string {
	return t.cols[len(t.keys):]
}

// upsertSQL overwrites every non-key column on conflict.
func (t table) upsertSQL() string {
	sets := make([]string, 0, len(t.cols))
	for _, c := range t.valueCols() {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	sets = append(sets, "updated_at = NOW()")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		t.name, strings.Join(t.cols, ", "), t.placeholders(), strings.Join(t.keys, ", "), strings.Join(sets, ", "))
}

// saveSQL is upsertSQL that only touches the row when a value differs.
// RETURNING (xmax = 0) is true for inserts; no row comes back when nothing changed.
func (t table) saveSQL() string {
	vals := t.valueCols()
	excluded := make([]string, len(vals))
	current := make([]string, len(vals))
	for i, c := range vals {
		excluded[i] = "EXCLUDED." + c
		current[i] = t.name + "." + c
	}
	return t.upsertSQL() + fmt.Sprintf(" WHERE (%s) IS DISTINCT FROM (%s) RETURNING (xmax = 0)",
		strings.Join(current, ", "), strings.Join(excluded, ", "))
}

func (t table) insertSQL() string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.cols, ", "), t.placeholders())
}

// findOne scans a single row into dest, reporting false when there is none.
func (x *pgTx) findOne(ctx context.Context, query string, dest []any, args ...any) (bool, error) {
	err := x.q.QueryRowContext(ctx, query, args...).Scan(dest...)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// save runs a saveSQL statement and turns its RETURNING row into an Outcome.
func (x *pgTx) save(ctx context.Context, t table, args []any) (Outcome, error) {
	var inserted bool
	err := x.q.QueryRowContext(ctx, t.saveSQL(), args...).Scan(&inserted)
	if err == sql.ErrNoRows {
		return Unchanged, nil
	}
	if err != nil {
		return Unchanged, fmt.Errorf("failed to save %s: %w", t.name, err)
	}
	if inserted {
		return Inserted, nil
	}
	return Updated, nil
}

func (x *pgTx) put(ctx context.Context, t table, args []any) error {
	if _, err := x.q.ExecContext(ctx, t.upsertSQL(), args...); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", t.name, err)
	}
	return nil
}

// queryList runs query and scans each row through scan.
func queryList[T any](ctx context.Context, q querier, query string, scan func(*T) []any, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var v T
		if err := rows.Scan(scan(&v)...); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func queryStrings(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	return queryList(ctx, q, query, func(s *string) []any { return []any{s} }, args...)
}

// replace swaps a child row set in full. Unchanged when current already equals next.
func replace[T any](ctx context.Context, x *pgTx, t table, parentCol, parentID string, current, next []T, fields func(*T) []any) (Outcome, error) {
	if sameRows(current, next) {
		return Unchanged, nil
	}
	if _, err := x.q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.name, parentCol), parentID); err != nil {
		return Unchanged, fmt.Errorf("failed to clear %s: %w", t.name, err)
	}
	insert := t.insertSQL()
	for i := range next {
		if _, err := x.q.ExecContext(ctx, insert, fields(&next[i])...); err != nil {
			return Unchanged, fmt.Errorf("failed to insert %s: %w", t.name, err)
		}
	}
	if len(current) == 0 {
		return Inserted, nil
	}
	return Updated, nil
}

// sameRows compares two key-ordered row sets.
func sameRows[T any](a, b []T) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func utc(t **time.Time) {
	if *t != nil {
		u := (*t).UTC()
		*t = &u
	}
}
