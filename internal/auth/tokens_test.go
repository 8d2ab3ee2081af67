package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookwriter/internal/config"
	"github.com/mrlokans/bookwriter/internal/entities"
)

func newTestIssuer(accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return NewTokenIssuer(config.Auth{
		JWTSecret:       "test-signing-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	})
}

func TestTokenIssuer_IssuePair(t *testing.T) {
	issuer := newTestIssuer(15*time.Minute, 30*24*time.Hour)
	user := &entities.User{ID: 42, Username: "bob"}

	access, refresh, err := issuer.IssuePair(user)

	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
}

func TestTokenIssuer_ParseAccess(t *testing.T) {
	issuer := newTestIssuer(15*time.Minute, 30*24*time.Hour)
	user := &entities.User{ID: 42, Username: "bob"}

	access, _, err := issuer.IssuePair(user)
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(access)

	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestTokenIssuer_RefreshTokenRejectedAsAccess(t *testing.T) {
	issuer := newTestIssuer(15*time.Minute, 30*24*time.Hour)
	user := &entities.User{ID: 42, Username: "bob"}

	_, refresh, err := issuer.IssuePair(user)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenUse)

	claims, err := issuer.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := newTestIssuer(-time.Minute, 30*24*time.Hour)
	user := &entities.User{ID: 42, Username: "bob"}

	access, _, err := issuer.IssuePair(user)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := newTestIssuer(15*time.Minute, 30*24*time.Hour)
	user := &entities.User{ID: 42, Username: "bob"}

	access, _, err := issuer.IssuePair(user)
	require.NoError(t, err)

	other := NewTokenIssuer(config.Auth{
		JWTSecret:      "a different secret",
		AccessTokenTTL: 15 * time.Minute,
	})
	_, err = other.ParseAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := newTestIssuer(15*time.Minute, 30*24*time.Hour)

	_, err := issuer.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
