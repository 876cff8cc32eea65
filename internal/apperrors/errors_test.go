package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus int
	}{
		{"not found sentinel", apperrors.ErrNotFound, apperrors.KindNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("debt lookup: %w", apperrors.ErrNotFound), apperrors.KindNotFound, http.StatusNotFound},
		{"validation app error", apperrors.NewValidationError("bad status"), apperrors.KindBadRequest, http.StatusBadRequest},
		{"conflict", apperrors.NewConflictError("person in use"), apperrors.KindConflict, http.StatusConflict},
		{"duplicate maps to conflict", apperrors.ErrDuplicate, apperrors.KindConflict, http.StatusConflict},
		{"transaction failure", apperrors.NewTransactionFailure("commit", errors.New("busy")), apperrors.KindTransactionFailure, http.StatusServiceUnavailable},
		{"unauthorized", apperrors.ErrUnauthorized, apperrors.KindUnauthorized, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), apperrors.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, apperrors.Kind(tt.err))
			assert.Equal(t, tt.wantStatus, apperrors.HTTPStatus(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "debt not found", apperrors.Message(fmt.Errorf("wrap: %w", apperrors.NewNotFoundError("debt"))))
	assert.Equal(t, "internal server error", apperrors.Message(errors.New("pq: connection reset")))
	assert.Equal(t, "resource not found", apperrors.Message(apperrors.ErrNotFound))
}

func TestTransactionFailureKeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := apperrors.NewTransactionFailure("failed to commit transaction", cause)

	assert.ErrorIs(t, err, apperrors.ErrTransactionFailure)
	assert.ErrorIs(t, err, cause)
}
