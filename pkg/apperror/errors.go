package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
	ErrInvalidInput = errors.New("invalid input")

	// Loan lifecycle preconditions.
	ErrUnavailable     = errors.New("book is not available")
	ErrLimitExceeded   = errors.New("borrowing limit reached")
	ErrDuplicateLoan   = errors.New("book already borrowed by this user")
	ErrAlreadyReturned = errors.New("loan already returned")

	// Extension workflow preconditions.
	ErrDuplicatePending = errors.New("a pending extension request already exists for this loan")
	ErrInvalidDays      = errors.New("requested days must be between 1 and 14")
	ErrMissingReason    = errors.New("a rejection reason is required")
	ErrAlreadyResolved  = errors.New("extension request already resolved")

	// Deletion guards.
	ErrHasActiveLoans = errors.New("book has active loans")
	ErrHasLoanHistory = errors.New("book has loan history")

	ErrDuplicateRecord   = errors.New("record already exists")
	ErrTooManyAttempts   = errors.New("too many login attempts, try again later")
	ErrInvalidCredential = errors.New("invalid PRN number or password")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrDuplicateLoan),
		errors.Is(err, ErrDuplicatePending),
		errors.Is(err, ErrDuplicateRecord),
		errors.Is(err, ErrAlreadyReturned),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrHasActiveLoans),
		errors.Is(err, ErrHasLoanHistory):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidDays),
		errors.Is(err, ErrMissingReason):
		return http.StatusBadRequest
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
