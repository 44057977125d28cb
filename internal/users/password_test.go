package users

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	ok, err := h.Verify(hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "wrongpass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasherSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBcryptHasherNoFalsePositives(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	buf := make([]byte, 16)
	for i := 0; i < 200; i++ {
		_, err := rand.Read(buf)
		require.NoError(t, err)
		candidate := hex.EncodeToString(buf[:1+i%len(buf)])

		ok, err := h.Verify(hash, candidate)
		require.NoError(t, err)
		assert.False(t, ok, "candidate %q must not verify", candidate)
	}
}

func TestBcryptHasherMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	ok, err := h.Verify("not-a-hash", "secret1")
	assert.Error(t, err)
	assert.False(t, ok)
}
