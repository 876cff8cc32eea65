package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		code     string
		wantKind string
	}{
		{"23505", apperrors.KindConflict},
		{"23503", apperrors.KindConflict},
		{"23514", apperrors.KindBadRequest},
		{"40001", apperrors.KindTransactionFailure},
		{"40P01", apperrors.KindTransactionFailure},
		{"55P03", apperrors.KindTransactionFailure},
		{"42601", apperrors.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := mapPgError(&pgconn.PgError{Code: tt.code}, "save debt")
			assert.Equal(t, tt.wantKind, apperrors.Kind(err))
		})
	}
}

func TestMapPgError_UniqueIsDuplicate(t *testing.T) {
	err := mapPgError(&pgconn.PgError{Code: "23505"}, "save person")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestMapPgError_PlainErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := mapPgError(cause, "find debt")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "find debt")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off`, escapeLike("50% off"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
	assert.Equal(t, "Bob", escapeLike("Bob"))
}
