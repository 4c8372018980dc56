package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consentgate/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	token, err := Generate()
	require.NoError(t, err)
	assert.Len(t, token, 43)

	hash, err := Hash(token)
	require.NoError(t, err)
	assert.NotEqual(t, token, hash)

	require.NoError(t, Verify(token, hash))

	err = Verify("wrong", hash)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	assert.Error(t, Verify(token, "not-a-hash"))
}

func TestHash_Empty(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
