package domain

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "consentgate/pkg/domain-errors"
)

// Identity is an opaque, comparable principal reference (patient, researcher
// or authority). Invariant: values produced by ParseIdentity are non-empty,
// valid UTF-8, free of whitespace and control characters, and bounded.
//
// Direct casting bypasses validation; use it only for trusted values such as
// JWT subjects already checked by the token service.
type Identity string

// NullIdentity is the reserved burn principal. It is rejected wherever a
// researcher or patient identity is required.
const NullIdentity Identity = "SP000000000000000000002Q6VF78"

const maxIdentityLen = 128

// ParseIdentity constructs an Identity from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, oversized, or
// contains whitespace, control characters or invalid UTF-8.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity cannot be empty")
	}
	if len(s) > maxIdentityLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity is too long")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity must be valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || unicode.In(r, unicode.Cf) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "identity contains invalid characters")
		}
	}
	return Identity(s), nil
}

// IsNull reports whether the identity is empty or the reserved burn principal.
func (i Identity) IsNull() bool {
	return i == "" || i == NullIdentity
}

func (i Identity) String() string {
	return string(i)
}

// DataID identifies a record in the data registry. Zero is never valid.
type DataID uint64

// ParseDataID parses a base-10 data identifier. Zero is accepted here and
// rejected by the consent ledger with its own code.
func ParseDataID(s string) (DataID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "data id must be an unsigned integer")
	}
	return DataID(v), nil
}

// IsValid reports whether the id is strictly positive.
func (d DataID) IsValid() bool {
	return d > 0
}

func (d DataID) String() string {
	return strconv.FormatUint(uint64(d), 10)
}

// Height is a value of the host's monotonically non-decreasing clock.
type Height uint64

// MaxValue bounds heights, durations and tunables so every ledger quantity
// fits a signed 64-bit column.
const MaxValue uint64 = math.MaxInt64

// AddDuration returns h+d, or false when the sum exceeds MaxValue.
func (h Height) AddDuration(d uint64) (Height, bool) {
	if d > MaxValue || uint64(h) > MaxValue-d {
		return 0, false
	}
	return h + Height(d), true
}

// LogID numbers access log entries from zero.
type LogID uint64

// ParseLogID parses a base-10 log identifier.
func ParseLogID(s string) (LogID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "log id must be an unsigned integer")
	}
	return LogID(v), nil
}
