package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_IsAuthority(t *testing.T) {
	s := &Settings{}
	assert.False(t, s.HasAuthority())
	assert.False(t, s.IsAuthority(""), "unset authority must not match the empty caller")

	s.Authority = "ST1AUTHORITY"
	assert.True(t, s.HasAuthority())
	assert.True(t, s.IsAuthority("ST1AUTHORITY"))
	assert.False(t, s.IsAuthority("ST1OTHER"))
}
