package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/greenpulse/pulse-client/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Keys the session is persisted under.
const (
	TokenKey        = "authToken"
	UserKey         = "user"
	RefreshTokenKey = "refreshToken"
)

var allKeys = []string{UserKey, TokenKey, RefreshTokenKey}

// Record is a persisted session: the user and the tokens that back it.
type Record struct {
	User         users.User
	AccessToken  string
	RefreshToken string // Empty when the server issued none
}

// Store persists the session triple (user, access token, refresh token) in a
// Backend. Every write replaces the whole triple.
type Store struct {
	backend Backend
	logger  zerolog.Logger
}

type StoreOption func(*Store)

func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(backend Backend, options ...StoreOption) (*Store, error) {
	if backend == nil {
		return nil, errors.New("[NewStore] backend is required")
	}
	s := &Store{
		backend: backend,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Load returns the persisted session, or nil when there is none. A user
// record that does not parse, or a user without a token (and the reverse),
// counts as no session and is cleared so the keys never disagree.
func (s *Store) Load(ctx context.Context) (*Record, error) {
	values, err := s.backend.Get(ctx, allKeys...)
	if err != nil {
		return nil, fmt.Errorf("[Store.Load] backend.Get: %w", err)
	}

	rawUser, hasUser := values[UserKey]
	token, hasToken := values[TokenKey]
	if !hasUser && !hasToken {
		return nil, nil
	}

	var user users.User
	if hasUser {
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil || !user.Valid() {
			s.logger.Warn().Err(err).Msg("stored user record is unreadable, clearing session")
			return nil, s.Clear(ctx)
		}
	}
	if !hasUser || !hasToken || token == "" {
		s.logger.Warn().Bool("has_user", hasUser).Bool("has_token", hasToken).Msg("incomplete stored session, clearing")
		return nil, s.Clear(ctx)
	}

	return &Record{
		User:         user,
		AccessToken:  token,
		RefreshToken: values[RefreshTokenKey],
	}, nil
}

// Save replaces the persisted session. An empty refreshToken removes any
// previously stored one.
func (s *Store) Save(ctx context.Context, user users.User, accessToken, refreshToken string) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("[Store.Save] marshal user: %w", err)
	}

	set := map[string]string{
		UserKey:  string(rawUser),
		TokenKey: accessToken,
	}
	var del []string
	if refreshToken != "" {
		set[RefreshTokenKey] = refreshToken
	} else {
		del = append(del, RefreshTokenKey)
	}

	if err := s.backend.Apply(ctx, set, del); err != nil {
		return fmt.Errorf("[Store.Save] backend.Apply: %w", err)
	}
	return nil
}

// Clear removes every session key. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Apply(ctx, nil, allKeys); err != nil {
		return fmt.Errorf("[Store.Clear] backend.Apply: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token, or "" when there is none.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, TokenKey)
}

// RefreshToken returns the stored refresh token, or "" when there is none.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, RefreshTokenKey)
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	values, err := s.backend.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("[Store.get] backend.Get %s: %w", key, err)
	}
	return values[key], nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
