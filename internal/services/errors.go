package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorInvalid         ErrorCode = "invalid"
	ErrorForbidden       ErrorCode = "forbidden"
	ErrorNotFound        ErrorCode = "not_found"
	ErrorConflict        ErrorCode = "conflict"
	ErrorUnauthorized    ErrorCode = "unauthorized"
	ErrorPaymentRequired ErrorCode = "payment_required"
	ErrorTooManyRequests ErrorCode = "too_many_requests"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewPaymentRequiredError(msg string) error {
	return &ServiceError{Code: ErrorPaymentRequired, Message: msg}
}

func NewTooManyRequestsError(msg string) error {
	return &ServiceError{Code: ErrorTooManyRequests, Message: msg}
}

// wrapInvalid keeps the sentinel reachable through errors.Is while reporting an invalid code.
func wrapInvalid(err error) error {
	return &ServiceError{Code: ErrorInvalid, Message: err.Error(), Err: err}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrTooManyNations rejects comparisons above MaxComparisonNations.
	ErrTooManyNations = errors.New("a comparison accepts at most 3 nations")
	// ErrNoNations rejects an empty comparison.
	ErrNoNations = errors.New("a comparison needs at least one nation")
	// ErrIncompleteAssessment is returned when required answers are missing.
	ErrIncompleteAssessment = errors.New("assessment is incomplete")
	// ErrInvalidAssessment is returned when an answer is out of range or unknown.
	ErrInvalidAssessment = errors.New("assessment is invalid")
	// ErrShareLinkInvalid is returned when a share link cannot be decoded.
	ErrShareLinkInvalid = errors.New("share link is invalid")
)

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
