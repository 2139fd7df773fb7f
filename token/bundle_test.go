package token_test

import (
	"testing"
	"time"

	"github.com/greenpulse/pulse-client/token"
	"github.com/greenpulse/pulse-client/token/jwt"
	"github.com/greenpulse/pulse-client/users"
	"github.com/stretchr/testify/require"
)

func TestNewBundle_OpaqueTokenUsesPolicy(t *testing.T) {
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	b := token.NewBundle("tok1", "refresh1", issued, token.DefaultAccessTokenExpiry, token.DefaultRefreshTokenExpiry)

	require.Equal(t, issued.Add(time.Hour), b.Expiry)
	require.Equal(t, issued.Add(7*24*time.Hour), b.RefreshExpiry)
	require.False(t, b.ExpiredAt(issued.Add(59*time.Minute)))
	require.True(t, b.ExpiredAt(issued.Add(time.Hour)))
}

func TestNewBundle_JWTUsesExpClaim(t *testing.T) {
	creator, err := jwt.NewCreator("key", "test", 15*time.Minute)
	require.NoError(t, err)
	raw, exp, err := creator.CreateAccessToken(users.User{ID: "1", Email: "a@b.com"})
	require.NoError(t, err)

	b := token.NewBundle(raw, "", time.Now().Add(-24*time.Hour), token.DefaultAccessTokenExpiry, token.DefaultRefreshTokenExpiry)
	require.Equal(t, exp.Unix(), b.Expiry.Unix())
	require.True(t, b.RefreshExpiry.IsZero())
}

func TestExpiry_NotAJWT(t *testing.T) {
	_, ok := token.Expiry("opaque")
	require.False(t, ok)
	_, ok = token.Expiry("")
	require.False(t, ok)
}
