package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHashAndCompare(t *testing.T) {
	hash, err := CreateHash("hunter2")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	match, err := ComparePasswordAndHash("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = ComparePasswordAndHash("wrong", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCompareRejectsMalformedHash(t *testing.T) {
	_, err := ComparePasswordAndHash("x", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
