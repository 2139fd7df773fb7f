package refreshrepofake

import (
	"sync"

	"github.com/greenpulse/pulse-client/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

// FakeRefreshTokenRepo keeps at most one refresh token per user in memory.
type FakeRefreshTokenRepo struct {
	mu      sync.RWMutex
	byToken map[string]refresh.StoredRefreshToken
	byUser  map[string]string
}

func NewFakeRefreshTokenRepo() refresh.Repo {
	return &FakeRefreshTokenRepo{
		byToken: make(map[string]refresh.StoredRefreshToken),
		byUser:  make(map[string]string),
	}
}

func (r *FakeRefreshTokenRepo) Upsert(rt *refresh.StoredRefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.byUser[rt.UserID]; ok && previous != rt.Token {
		delete(r.byToken, previous)
	}
	r.byToken[rt.Token] = *rt
	r.byUser[rt.UserID] = rt.Token
	return nil
}

func (r *FakeRefreshTokenRepo) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.byToken[token]
	if !ok {
		return refresh.ErrInvalidRefreshToken
	}
	if r.byUser[rt.UserID] == token {
		delete(r.byUser, rt.UserID)
	}
	delete(r.byToken, token)
	return nil
}

func (r *FakeRefreshTokenRepo) Get(token string) (*refresh.StoredRefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.byToken[token]
	if !ok {
		return nil, refresh.ErrInvalidRefreshToken
	}
	return &rt, nil
}

func (r *FakeRefreshTokenRepo) GetByUserID(userID string) (*refresh.StoredRefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.byUser[userID]
	if !ok {
		return nil, refresh.ErrInvalidRefreshToken
	}
	rt := r.byToken[token]
	return &rt, nil
}
