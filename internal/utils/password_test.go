package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("segredo123")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("segredo123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("errada", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesRandomSalt(t *testing.T) {
	a, err := HashPassword("mesma")
	require.NoError(t, err)
	b, err := HashPassword("mesma")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$2a$10$bcrypt", "$argon2id$v=19$m=1$salt"} {
		ok, err := VerifyPassword("x", h)
		assert.False(t, ok, h)
		assert.Error(t, err, h)
	}
}
