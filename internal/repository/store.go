package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/gurkanbulca/workdesk/internal/database"
)

var (
	// ErrNotFound is returned both when a record does not exist and when it
	// belongs to another account. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Common column names
const (
	colID        = "id"
	colOwnerID   = "owner_id"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

// querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type querier interface {
	sqlx.ExtContext
}

// store holds what every repository needs: the connection, the dialect used
// to build queries, and the clock stamped onto new rows.
type store struct {
	db  *database.DB
	now func() time.Time
}

func newStore(db *database.DB) store {
	return store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.db.Dialect())
}

func (s store) get(ctx context.Context, q querier, dest any, b entsql.Querier) error {
	query, args := b.Query()
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s store) selectAll(ctx context.Context, q querier, dest any, b entsql.Querier) error {
	query, args := b.Query()
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func (s store) exec(ctx context.Context, q querier, b entsql.Querier) (int64, error) {
	query, args := b.Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return 0, err
	}
	return res.RowsAffected()
}

func (s store) count(ctx context.Context, q querier, table string, where *entsql.Predicate) (int, error) {
	b := s.builder()
	sel := b.Select(entsql.Count("*")).From(b.Table(table)).Where(where)
	var n int
	if err := s.get(ctx, q, &n, sel); err != nil {
		return 0, err
	}
	return n, nil
}

// requireOwned fails with ErrNotFound unless id exists in table under ownerID.
func (s store) requireOwned(ctx context.Context, q querier, table string, ownerID, id uuid.UUID) error {
	n, err := s.count(ctx, q, table, ownedBy(ownerID, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Helper function for transaction rollback
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func ownedBy(ownerID, id uuid.UUID) *entsql.Predicate {
	return entsql.And(entsql.EQ(colID, id), entsql.EQ(colOwnerID, ownerID))
}

func idArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// optionalString stores empty strings as NULL.
func optionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
