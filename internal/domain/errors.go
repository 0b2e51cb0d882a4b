package domain

import (
	"errors"
	"fmt"
)

// ValidationCode categorizes invalid-input errors.
type ValidationCode string

const (
	// ErrCodeInvalidPage indicates page < 1 in a list request.
	ErrCodeInvalidPage ValidationCode = "INVALID_PAGE"

	// ErrCodeInvalidLimit indicates limit < 1 in a list request.
	ErrCodeInvalidLimit ValidationCode = "INVALID_LIMIT"

	// ErrCodeUnknownField indicates a filter key or sort field that the
	// entity's schema does not define.
	ErrCodeUnknownField ValidationCode = "UNKNOWN_FIELD"

	// ErrCodeBadFilterValue indicates a filter value whose type does not
	// match the field's kind.
	ErrCodeBadFilterValue ValidationCode = "BAD_FILTER_VALUE"

	// ErrCodeSelfConnection indicates a connection request from a user to
	// themselves.
	ErrCodeSelfConnection ValidationCode = "SELF_CONNECTION"

	// ErrCodeSelfThread indicates a message thread between a user and
	// themselves.
	ErrCodeSelfThread ValidationCode = "SELF_THREAD"

	// ErrCodeUnknownUser indicates a reference to a user id that does not
	// exist (e.g. creating a profile for a missing user).
	ErrCodeUnknownUser ValidationCode = "UNKNOWN_USER"

	// ErrCodeBadEnum indicates an enum value outside its closed set.
	ErrCodeBadEnum ValidationCode = "BAD_ENUM"

	// ErrCodeMissingField indicates a required field was empty at create.
	ErrCodeMissingField ValidationCode = "MISSING_FIELD"

	// ErrCodeDuplicate indicates a uniqueness violation outside the
	// idempotent-create contract (second profile for a user, reused
	// email).
	ErrCodeDuplicate ValidationCode = "DUPLICATE"

	// ErrCodeNotParticipant indicates a message sent to a thread by a
	// non-participant.
	ErrCodeNotParticipant ValidationCode = "NOT_PARTICIPANT"

	// ErrCodeBadRange indicates an interval whose end precedes its start.
	ErrCodeBadRange ValidationCode = "BAD_RANGE"
)

// ValidationError reports invalid caller input. Expected conditions like a
// missing record are not validation errors; those surface as (zero, false)
// returns.
type ValidationError struct {
	Code    ValidationCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(code ValidationCode, field, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationCodeOf returns the code of a wrapped ValidationError, or "".
func ValidationCodeOf(err error) ValidationCode {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
