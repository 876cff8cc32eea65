// Package sqlite implements the repository ports on SQLite through modernc.org/sqlite.
// Amounts are stored as exact decimal text and times as fixed-width UTC text so that
// string comparison orders them correctly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB *sql.DB
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
// The DSN makes every transaction IMMEDIATE, so the write lock is held from the start.
func (r *BaseRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewTransactionFailure("failed to begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewTransactionFailure("failed to commit transaction", err)
	}
	return nil
}

// mapSQLiteError converts driver errors into the application error kinds.
func mapSQLiteError(err error, action string) error {
	var sqliteErr *sqlite.Error
	code := 0
	if errors.As(err, &sqliteErr) {
		code = sqliteErr.Code() & 0xff
	}
	msg := err.Error()

	switch {
	case code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED ||
		strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY"):
		return apperrors.NewTransactionFailure(action, err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, action)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperrors.NewConflictError(fmt.Sprintf("%s: record is still referenced or a reference is missing", action))
	case strings.Contains(msg, "CHECK constraint failed"):
		return apperrors.NewValidationError(action + ": check constraint failed")
	case code == sqlite3.SQLITE_CONSTRAINT:
		return apperrors.NewConflictError(action)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyScale)
}

// timeColumn scans a TEXT timestamp written by formatTime.
type timeColumn struct {
	dst *time.Time
}

func (c timeColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c.dst = v.UTC()
		return nil
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (c timeColumn) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid stored time %q: %w", s, err)
	}
	*c.dst = t.UTC()
	return nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
