package jwt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/greenpulse/pulse-client/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims carried by access tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// Creator signs and verifies HS256 access tokens, and remembers revoked
// token ids until they would have expired anyway.
type Creator struct {
	key    []byte
	issuer string
	expiry time.Duration

	revoked map[string]time.Time // jti -> exp
	mu      sync.RWMutex
}

// NewCreator creates a new JWT creator
func NewCreator(signingKey, issuer string, expiry time.Duration) (*Creator, error) {
	if signingKey == "" {
		return nil, errors.New("[NewCreator] signing key is required")
	}
	if expiry <= 0 {
		return nil, errors.New("[NewCreator] expiry must be positive")
	}
	return &Creator{
		key:     []byte(signingKey),
		issuer:  issuer,
		expiry:  expiry,
		revoked: make(map[string]time.Time),
	}, nil
}

// CreateAccessToken creates an access token for user.
func (c *Creator) CreateAccessToken(user users.User) (string, time.Time, error) {
	now := NowTimeFunc()
	exp := now.Add(c.expiry)
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   string(user.ID),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
			ID:        uuid.New().String(), // Unique token ID for revocation
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, expiry and revocation and returns the claims.
func (c *Creator) Verify(rawToken string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(rawToken, claims, func(t *jwtlib.Token) (any, error) {
		return c.key, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithIssuer(c.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.isRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blocks a still valid token. Invalid tokens are ignored.
func (c *Creator) Revoke(rawToken string) {
	claims, err := c.Verify(rawToken)
	if err != nil || claims.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[claims.ID] = claims.ExpiresAt.Time
}

// CleanupRevoked drops revocations whose tokens have expired.
func (c *Creator) CleanupRevoked() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := NowTimeFunc()
	for jti, exp := range c.revoked {
		if now.After(exp) {
			delete(c.revoked, jti)
		}
	}
}

func (c *Creator) isRevoked(jti string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.revoked[jti]
	return exists
}
