// Package domainerrors carries typed failures across service boundaries.
//
// Services return *Error values (optionally wrapping an underlying cause) so
// transports can map a stable Code to a status without string matching.
// Infrastructure layers return pkg/platform/sentinel errors instead and let
// services translate them.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine readable failure kind.
type Code string

// Generic platform codes.
const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Authorization engine codes. Order matters: NumericCode derives the
// reference numbering from it.
const (
	CodeNotAuthorized         Code = "not_authorized"
	CodeInvalidParameter      Code = "invalid_parameter"
	CodeInvalidDataID         Code = "invalid_data_id"
	CodeInvalidDuration       Code = "invalid_duration"
	CodeInvalidResearcher     Code = "invalid_researcher"
	CodeInvalidAccessType     Code = "invalid_access_type"
	CodeInvalidPatient        Code = "invalid_patient"
	CodeConsentNotFound       Code = "consent_not_found"
	CodeAlreadyRevoked        Code = "already_revoked"
	CodeMaxConsentsExceeded   Code = "max_consents_exceeded"
	CodeResearcherNotVerified Code = "researcher_not_verified"
	CodeAccessLimitExceeded   Code = "access_limit_exceeded"
	CodeDataNotFound          Code = "data_not_found"
	CodeDataInactive          Code = "data_inactive"
	CodeConsentRequired       Code = "consent_required"
	CodeConsentCheckFailed    Code = "consent_check_failed"
)

var engineCodes = []Code{
	CodeNotAuthorized,
	CodeInvalidParameter,
	CodeInvalidDataID,
	CodeInvalidDuration,
	CodeInvalidResearcher,
	CodeInvalidAccessType,
	CodeInvalidPatient,
	CodeConsentNotFound,
	CodeAlreadyRevoked,
	CodeMaxConsentsExceeded,
	CodeResearcherNotVerified,
	CodeAccessLimitExceeded,
	CodeDataNotFound,
	CodeDataInactive,
	CodeConsentRequired,
	CodeConsentCheckFailed,
}

// numericBase is the first reference number (u100) used by reporting tooling.
const numericBase = 100

// NumericCode returns the reference number for an engine code, or 0 for codes
// outside the engine taxonomy.
func NumericCode(code Code) int {
	for i, c := range engineCodes {
		if c == code {
			return numericBase + i
		}
	}
	return 0
}

// Error is a typed domain failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether the outermost domain error in err's chain has code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for handler call sites.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost domain code, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message, or "" for foreign errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
