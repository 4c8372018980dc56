package domain

import dErrors "consentgate/pkg/domain-errors"

// AccessType is the kind of access a consent grants or a researcher requests.
// Invariant: the value must be one of the supported access types.
//
// Usage: construct via ParseAccessType at trust boundaries. The engine still
// checks IsValid because direct casting bypasses validation.
type AccessType string

const (
	AccessReadOnly  AccessType = "read-only"
	AccessReadWrite AccessType = "read-write"
)

// ParseAccessType constructs an AccessType from external input.
//
// Errors: returns CodeInvalidAccessType when the value is empty or unsupported.
func ParseAccessType(s string) (AccessType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidAccessType, "access type cannot be empty")
	}
	a := AccessType(s)
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidAccessType, "invalid access type")
	}
	return a, nil
}

// IsValid checks if the access type is one of the supported enum values.
func (a AccessType) IsValid() bool {
	switch a {
	case AccessReadOnly, AccessReadWrite:
		return true
	}
	return false
}

// String returns the string representation of the access type.
func (a AccessType) String() string {
	return string(a)
}
