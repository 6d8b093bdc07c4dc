package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotContains(t, hash, "secret123", "hash must not contain the plaintext")

	assert.True(t, h.Verify("secret123", hash))
	assert.False(t, h.Verify("wrong", hash))
}

func TestPasswordHasher_MalformedHashVerifiesFalse(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("anything", "not-a-bcrypt-hash"),
		"malformed hash must verify false, not panic or succeed")
}

func TestNewPasswordHasher_CostClamped(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{-1, 0, 100} {
		h := NewPasswordHasher(cost)
		assert.Equal(t, bcrypt.DefaultCost, h.cost, "cost %d should clamp to default", cost)
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two hashes of the same password must differ")
}
