package workflow

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a workflow failure for transport mapping.
type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindInvalidState
	KindIllegalTransition
	KindConflict
	KindNotFound
	KindVersionConflict
	KindTooManyOperations
	KindValidation
)

// Error is the failure surface of the engine: a kind, a stable
// machine-readable reason code, and a human-readable message. Engine
// operations never fail with anything else for domain-level causes.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Stable reason codes for integrity and authorization failures.
const (
	ReasonDuplicateApplication = "duplicate_application"
	ReasonDuplicateReview      = "duplicate_review"
	ReasonSelfReview           = "self_review"
	ReasonSelfApplication      = "self_application"
	ReasonDuplicateEmail       = "duplicate_email"
)

func newError(kind Kind, reason, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized means the authorization gate denied the acting user.
func Unauthorized(reason, format string, args ...any) *Error {
	return newError(KindUnauthorized, reason, format, args...)
}

// InvalidState means the action is not permitted given the entity's
// current status, e.g. applying to a job that is not active.
func InvalidState(reason, format string, args ...any) *Error {
	return newError(KindInvalidState, reason, format, args...)
}

// IllegalTransition means the state machine rejected the requested move.
func IllegalTransition(reason, format string, args ...any) *Error {
	return newError(KindIllegalTransition, reason, format, args...)
}

// Conflict means a uniqueness or self-reference rule was violated.
func Conflict(reason, format string, args ...any) *Error {
	return newError(KindConflict, reason, format, args...)
}

// NotFound means the referenced entity does not exist.
func NotFound(reason, format string, args ...any) *Error {
	return newError(KindNotFound, reason, format, args...)
}

// VersionConflict means a concurrent write won the race and bounded
// retries were exhausted.
func VersionConflict(reason, format string, args ...any) *Error {
	return newError(KindVersionConflict, reason, format, args...)
}

// TooManyOperations means a batch exceeded its size cap.
func TooManyOperations(format string, args ...any) *Error {
	return newError(KindTooManyOperations, "too_many_operations", format, args...)
}

// Validation means a field-level constraint failed.
func Validation(reason, format string, args ...any) *Error {
	return newError(KindValidation, reason, format, args...)
}

// KindOf extracts the failure kind, or zero for non-workflow errors.
func KindOf(err error) Kind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return 0
}

// ReasonOf extracts the stable reason code, or "" for non-workflow errors.
func ReasonOf(err error) string {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Reason
	}
	return ""
}

// HTTPStatus maps a workflow error to the status reported per operation.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusForbidden
	case KindInvalidState, KindTooManyOperations, KindValidation:
		return http.StatusBadRequest
	case KindIllegalTransition, KindConflict, KindVersionConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
