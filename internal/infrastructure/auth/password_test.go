package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogweb/blog-api/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, plain := range []string{"a", "pass123", "Tr0ub4dor&3", "ÄÖÜ-unicode-✓"} {
		hash, err := h.Hash(plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, hash)

		ok, err := h.Verify(hash, plain)
		require.NoError(t, err)
		assert.True(t, ok, "verify(hash(%q), %q)", plain, plain)
	}
}

func TestBcryptHasher_Mismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("goodpass")
	require.NoError(t, err)

	ok, err := h.Verify(hash, "badpass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_NonDeterministic(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("same-input")
	require.NoError(t, err)
	second, err := h.Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, hash := range []string{first, second} {
		ok, err := h.Verify(hash, "same-input")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "plaintext", "$2a$04$short"} {
		ok, err := h.Verify(hash, "whatever")
		assert.False(t, ok)
		assert.True(t, errors.Is(err, domain.ErrHashMalformed), "hash %q: got %v", hash, err)
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
