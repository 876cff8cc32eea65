package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation clashes with existing references, e.g. deleting a person that still has debts.
var ErrConflict = errors.New("resource conflict")

// ErrTransactionFailure indicates the store could not complete an atomic unit of work (lock conflict, serialization failure, commit failure).
var ErrTransactionFailure = errors.New("transaction failure")

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Error kinds surfaced to API clients.
const (
	KindNotFound           = "NotFound"
	KindBadRequest         = "BadRequest"
	KindConflict           = "Conflict"
	KindTransactionFailure = "TransactionFailure"
	KindUnauthorized       = "Unauthorized"
	KindForbidden          = "Forbidden"
	KindInternal           = "Internal"
)

// AppError carries an HTTP-ish code and a client safe message next to the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns a 404 AppError for the named entity.
func NewNotFoundError(entity string) *AppError {
	return NewAppError(http.StatusNotFound, entity+" not found", ErrNotFound)
}

// NewValidationError returns a 400 AppError with the given message.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewConflictError returns a 409 AppError with the given message.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrConflict)
}

// NewTransactionFailure wraps a store level failure so callers can retry on it.
func NewTransactionFailure(message string, err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, errors.Join(ErrTransactionFailure, err))
}

// Kind classifies err into one of the client facing kinds.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindBadRequest
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrTransactionFailure):
		return KindTransactionFailure
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

// HTTPStatus maps err to the status code a handler should answer with.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindTransactionFailure:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client safe message for err. Internal errors never leak their cause.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	switch Kind(err) {
	case KindInternal:
		return "internal server error"
	default:
		return err.Error()
	}
}
