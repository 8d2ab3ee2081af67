package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword("correct horse battery staple", hash))
	assert.ErrorIs(t, CheckPassword("wrong password", hash), ErrInvalidPassword)
}

func TestGenerateSigningSecret(t *testing.T) {
	first, err := GenerateSigningSecret()
	require.NoError(t, err)
	second, err := GenerateSigningSecret()
	require.NoError(t, err)

	assert.Len(t, first, 64) // 32 bytes hex encoded = 64 chars
	assert.NotEqual(t, first, second)
}
