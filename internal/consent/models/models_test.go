package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsentRecord_IsValidAt(t *testing.T) {
	r := &ConsentRecord{Allowed: true, ExpiryHeight: 110}

	assert.True(t, r.IsValidAt(100))
	assert.True(t, r.IsValidAt(110), "expiry height itself is still valid")
	assert.False(t, r.IsValidAt(111))

	r.Allowed = false
	assert.False(t, r.IsValidAt(100))

	var none *ConsentRecord
	assert.False(t, none.IsValidAt(0))
}
