package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Manager handles refresh token creation, validation, and rotation
type Manager struct {
	repo        Repo
	tokenLength int
	expiry      time.Duration
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, tokenLength int, expiry time.Duration) *Manager {
	return &Manager{
		repo:        repo,
		tokenLength: tokenLength,
		expiry:      expiry,
	}
}

// Create generates a new refresh token and stores it. A user holds a single
// refresh token; any previous one is revoked.
func (m *Manager) Create(userID string) (string, error) {
	if existingToken, err := m.repo.GetByUserID(userID); err == nil && existingToken != nil {
		if err := m.repo.Delete(existingToken.Token); err != nil {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, m.tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokenStr, nil
}

// Rotate validates token, revokes it and issues its replacement. It returns
// the new token and the owning user id.
func (m *Manager) Rotate(token string) (string, string, error) {
	stored, err := m.repo.Get(token)
	if err != nil || stored == nil {
		return "", "", ErrInvalidRefreshToken
	}
	if m.IsExpired(stored) {
		_ = m.repo.Delete(token)
		return "", "", fmt.Errorf("%w: expired", ErrInvalidRefreshToken)
	}

	next, err := m.Create(stored.UserID)
	if err != nil {
		return "", "", err
	}
	return next, stored.UserID, nil
}

// Revoke removes a refresh token. Unknown tokens are not an error.
func (m *Manager) Revoke(token string) {
	_ = m.repo.Delete(token)
}

// RevokeUser removes the refresh token held by userID, if any.
func (m *Manager) RevokeUser(userID string) {
	if stored, err := m.repo.GetByUserID(userID); err == nil && stored != nil {
		_ = m.repo.Delete(stored.Token)
	}
}

// IsExpired checks if a refresh token has outlived the configured expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return NowTimeFunc().Sub(rt.Iat) > m.expiry
}
