package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("1991")
	require.NoError(t, err)
	assert.NotEqual(t, "1991", hashed)

	ok, err := h.Verify("1991", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("1992", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	first, err := h.Hash("1991")
	require.NoError(t, err)
	second, err := h.Hash("1991")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBcryptHasherUnusableHashes(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Verify("1991", "")
	assert.ErrorIs(t, err, ErrMissingHash)

	_, err = h.Verify("1991", "plain-text")
	assert.Error(t, err)
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, 10, NewBcryptHasher(0).cost)
	assert.Equal(t, 10, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
