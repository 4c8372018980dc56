package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consentgate/pkg/domain-errors"
)

// TestParseIdentity_Invariants validates the parsing invariant:
// "identities are non-empty, bounded and free of whitespace or control bytes"
//
// Justification: This is a pure function enforcing a domain invariant
// at trust boundaries.
func TestParseIdentity_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Empty string", "", true},
		{"Whitespace only", "   ", true},
		{"Embedded space", "SP2J6 ZY48GV1", true},
		{"Null byte injection", "SP2J6ZY48GV1\x00admin", true},
		{"Unicode zero-width space", "SP2J6\u200BZY48GV1", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Invalid UTF-8", string([]byte{0xff, 0xfe}), true},

		{"Surrounding whitespace trimmed", "  SP2J6ZY48GV1  ", false},
		{"Stacks principal", "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7", false},
		{"Burn principal parses", NullIdentity.String(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIdentity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestIdentity_IsNull pins the reserved sentinel. Parsing accepts the burn
// principal; the engine rejects it with its own codes.
func TestIdentity_IsNull(t *testing.T) {
	assert.True(t, Identity("").IsNull())
	assert.True(t, NullIdentity.IsNull())
	assert.False(t, Identity("SP2J6ZY48GV1").IsNull())
}

func TestParseDataID(t *testing.T) {
	t.Run("accepts positive integers", func(t *testing.T) {
		id, err := ParseDataID("42")
		require.NoError(t, err)
		assert.Equal(t, DataID(42), id)
		assert.True(t, id.IsValid())
	})

	t.Run("zero parses but is not valid", func(t *testing.T) {
		id, err := ParseDataID("0")
		require.NoError(t, err)
		assert.False(t, id.IsValid())
	})

	t.Run("rejects negative and non numeric input", func(t *testing.T) {
		for _, in := range []string{"-1", "abc", "", "1.5"} {
			_, err := ParseDataID(in)
			require.Error(t, err, in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}

func TestParseAccessType(t *testing.T) {
	t.Run("accepts supported values", func(t *testing.T) {
		for _, in := range []string{"read-only", "read-write"} {
			a, err := ParseAccessType(in)
			require.NoError(t, err)
			assert.True(t, a.IsValid())
		}
	})

	t.Run("rejects empty and unknown values", func(t *testing.T) {
		for _, in := range []string{"", "write", "READ-ONLY", "admin"} {
			_, err := ParseAccessType(in)
			require.Error(t, err, in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAccessType))
		}
	})

	t.Run("direct cast is caught by IsValid", func(t *testing.T) {
		assert.False(t, AccessType("delete").IsValid())
	})
}

func TestHeight_AddDuration(t *testing.T) {
	h, ok := Height(10).AddDuration(5)
	assert.True(t, ok)
	assert.Equal(t, Height(15), h)

	_, ok = Height(MaxValue).AddDuration(1)
	assert.False(t, ok)

	_, ok = Height(0).AddDuration(MaxValue + 1)
	assert.False(t, ok)

	h, ok = Height(1).AddDuration(MaxValue - 1)
	assert.True(t, ok)
	assert.Equal(t, Height(MaxValue), h)
}
