package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Lifetime policy. Nothing refreshes on a timer: these only give the bundle an
// expiry estimate when the access token carries no exp claim.
const (
	DefaultAccessTokenExpiry  = 1 * time.Hour
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Bundle is the access token, the optional refresh token and the access
// token's expiry.
type Bundle struct {
	*oauth2.Token
	RefreshExpiry time.Time
}

// NewBundle builds a bundle for tokens issued at issuedAt. The access expiry
// comes from the token's exp claim when it is a JWT, otherwise issuedAt plus
// accessLifetime.
func NewBundle(accessToken, refreshToken string, issuedAt time.Time, accessLifetime, refreshLifetime time.Duration) Bundle {
	expiry, ok := Expiry(accessToken)
	if !ok {
		expiry = issuedAt.Add(accessLifetime)
	}
	b := Bundle{
		Token: &oauth2.Token{
			AccessToken:  accessToken,
			TokenType:    "Bearer",
			RefreshToken: refreshToken,
			Expiry:       expiry,
		},
	}
	if refreshToken != "" {
		b.RefreshExpiry = issuedAt.Add(refreshLifetime)
	}
	return b
}

// Expiry reads the exp claim of a JWT without verifying its signature. The
// client cannot verify server tokens; the value is informational only.
func Expiry(rawToken string) (time.Time, bool) {
	if rawToken == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiredAt reports whether the access token is past its expiry at now.
func (b Bundle) ExpiredAt(now time.Time) bool {
	if b.Token == nil || b.Token.AccessToken == "" {
		return true
	}
	return !b.Token.Expiry.IsZero() && !now.Before(b.Token.Expiry)
}
