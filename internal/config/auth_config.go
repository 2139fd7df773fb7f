package config

import "time"

// AuthConfig holds the session lifetime policy. The client never enforces these
// with a timer; an expired token is discovered through a 401 response.
type AuthConfig interface {
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
	GetSigningKey() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return 1 * time.Hour
}

func (Auth) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (Auth) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

// GetSigningKey returns the HMAC key the dev server signs access tokens with.
func (Auth) GetSigningKey() string {
	return GetEnv("DEV_SIGNING_KEY", "green-pulse-dev-signing-key")
}
