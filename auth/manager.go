package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/greenpulse/pulse-client/apiclient"
	"github.com/greenpulse/pulse-client/apimodel"
	"github.com/greenpulse/pulse-client/internal/config"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
	"github.com/greenpulse/pulse-client/sessions"
	"github.com/greenpulse/pulse-client/token"
	"github.com/greenpulse/pulse-client/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// API is the part of the REST client the manager uses.
type API interface {
	Send(ctx context.Context, req apiclient.Request) (json.RawMessage, error)
	SetRefresher(refresher apiclient.Refresher)
}

// SessionStore persists the session triple.
type SessionStore interface {
	Load(ctx context.Context) (*sessions.Record, error)
	Save(ctx context.Context, user users.User, accessToken, refreshToken string) error
	Clear(ctx context.Context) error
	RefreshToken(ctx context.Context) (string, error)
}

var _ apiclient.Refresher = (*Manager)(nil)

// Manager owns the authoritative in-memory session and keeps the store in
// step with it: whenever the authenticated flag changes the store is written
// in the same call.
type Manager struct {
	api       API
	store     SessionStore
	endpoints config.Endpoints
	logger    zerolog.Logger
	nowTime   func() time.Time

	accessLifetime  time.Duration
	refreshLifetime time.Duration

	mu         sync.RWMutex
	state      State
	user       *users.User
	bundle     token.Bundle
	generation uint64 // Bumped by every transition

	listenersMu    sync.Mutex
	listeners      map[int]Listener
	nextListenerID int
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithTokenLifetimes overrides the lifetimes used to estimate token expiry.
func WithTokenLifetimes(access, refresh time.Duration) ManagerOption {
	return func(m *Manager) {
		if access > 0 {
			m.accessLifetime = access
		}
		if refresh > 0 {
			m.refreshLifetime = refresh
		}
	}
}

// NewManager restores any stored session and registers the manager as the
// API client's refresher.
func NewManager(ctx context.Context, api API, store SessionStore, endpoints config.Endpoints, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[NewManager] api client is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] session store is required")
	}
	if endpoints.Login == "" || endpoints.Refresh == "" {
		return nil, errors.New("[NewManager] endpoints are required")
	}

	m := &Manager{
		api:             api,
		store:           store,
		endpoints:       endpoints,
		logger:          log.Logger,
		nowTime:         time.Now,
		accessLifetime:  token.DefaultAccessTokenExpiry,
		refreshLifetime: token.DefaultRefreshTokenExpiry,
		state:           StateUninitialized,
		listeners:       make(map[int]Listener),
	}
	for _, opt := range options {
		opt(m)
	}

	m.restore(ctx)
	api.SetRefresher(m)
	return m, nil
}

func (m *Manager) restore(ctx context.Context) {
	m.setState(StateLoading, nil, token.Bundle{})

	record, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to load stored session, starting anonymous")
	}
	if record == nil {
		m.setState(StateAnonymous, nil, token.Bundle{})
		return
	}

	user := record.User
	m.setState(StateAuthenticated, &user, m.newBundle(record.AccessToken, record.RefreshToken))
	m.logger.Debug().Str("user_id", string(user.ID)).Msg("restored stored session")
}

// Login authenticates with the server. Invalid credentials fail locally with a
// *errors.ValidationError; a rejected login restores the prior session and
// returns ErrAuthenticationFailed.
func (m *Manager) Login(ctx context.Context, creds users.LoginCredentials) (users.User, error) {
	if err := creds.Validate(); err != nil {
		return users.User{}, err
	}

	prior := m.beginLoading()
	user, err := m.login(ctx, creds)
	if err != nil {
		m.rollback(prior)
		return users.User{}, fmt.Errorf("[Manager.Login] %w", err)
	}
	return user, nil
}

func (m *Manager) login(ctx context.Context, creds users.LoginCredentials) (users.User, error) {
	resp, err := m.post(ctx, m.endpoints.Login, creds)
	if err != nil {
		m.logger.Warn().Err(err).Msg("login rejected")
		return users.User{}, normalize(apperrors.ErrAuthenticationFailed, err)
	}
	user, err := m.establish(ctx, resp, "")
	if err != nil {
		m.logger.Warn().Err(err).Msg("login response unusable")
		return users.User{}, errors.Join(apperrors.ErrAuthenticationFailed, err)
	}
	return user, nil
}

// Register creates an account and leaves the manager authenticated as it. When
// the server answers with the user only, one follow-up login is issued with
// the same credentials.
func (m *Manager) Register(ctx context.Context, creds users.RegisterCredentials) (users.User, error) {
	if err := creds.Validate(); err != nil {
		return users.User{}, err
	}

	prior := m.beginLoading()
	user, err := m.register(ctx, creds)
	if err != nil {
		m.rollback(prior)
		return users.User{}, fmt.Errorf("[Manager.Register] %w", err)
	}
	return user, nil
}

func (m *Manager) register(ctx context.Context, creds users.RegisterCredentials) (users.User, error) {
	resp, err := m.post(ctx, m.endpoints.Register, apimodel.RegisterRequest{
		Username: creds.Name,
		Email:    creds.Email,
		Password: creds.Password,
		CPF:      creds.NationalID,
	})
	if err != nil {
		m.logger.Warn().Err(err).Msg("registration rejected")
		return users.User{}, normalize(apperrors.ErrRegistrationFailed, err)
	}

	if resp.User.Valid() && resp.AccessTokenValue() != "" {
		user, err := m.establish(ctx, resp, "")
		if err != nil {
			return users.User{}, errors.Join(apperrors.ErrRegistrationFailed, err)
		}
		return user, nil
	}

	m.logger.Debug().Msg("registration returned no session, logging in")
	user, err := m.login(ctx, creds.Login())
	if err != nil {
		return users.User{}, errors.Join(apperrors.ErrRegistrationFailed, err)
	}
	return user, nil
}

// normalize hides server rejections behind sentinel. Transport failures stay
// matchable so a timeout does not read as bad credentials.
func normalize(sentinel, err error) error {
	var transportErr *apperrors.TransportError
	if errors.As(err, &transportErr) {
		return errors.Join(sentinel, transportErr)
	}
	return sentinel
}

// Logout tells the server the session is over and always ends it locally. The
// server call's failure is logged and ignored.
func (m *Manager) Logout(ctx context.Context) error {
	if _, err := m.api.Send(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Endpoint:    m.endpoints.Logout,
		SkipRefresh: true,
	}); err != nil {
		m.logger.Warn().Err(err).Msg("server logout failed, logging out locally")
	}

	err := m.store.Clear(ctx)
	m.setState(StateAnonymous, nil, token.Bundle{})
	if err != nil {
		return fmt.Errorf("[Manager.Logout] %w", err)
	}
	return nil
}

// RefreshToken exchanges the stored refresh token (or the server's cookie
// session when there is none) for a new access token. Any failure clears the
// session and returns ErrSessionExpired.
func (m *Manager) RefreshToken(ctx context.Context) error {
	if err := m.refresh(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("token refresh failed, clearing session")
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.Error().Err(clearErr).Msg("failed to clear session store")
		}
		m.setState(StateAnonymous, nil, token.Bundle{})
		return fmt.Errorf("[Manager.RefreshToken] %w", apperrors.ErrSessionExpired)
	}
	return nil
}

func (m *Manager) refresh(ctx context.Context) error {
	previous, err := m.store.RefreshToken(ctx)
	if err != nil {
		return err
	}

	resp, err := m.post(ctx, m.endpoints.Refresh, apimodel.RefreshRequest{RefreshToken: previous})
	if err != nil {
		return err
	}

	if !resp.User.Valid() {
		user, err := m.knownUser(ctx)
		if err != nil {
			return err
		}
		resp.User = user
	}
	_, err = m.establish(ctx, resp, previous)
	return err
}

// knownUser returns the session's user, falling back to the stored record.
func (m *Manager) knownUser(ctx context.Context) (*users.User, error) {
	if user := m.CurrentUser(); user != nil {
		return user, nil
	}
	record, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return &record.User, nil
}

// Validate asks the server whether the current access token is still valid.
func (m *Manager) Validate(ctx context.Context) (bool, error) {
	bundle, ok := m.Token()
	if !ok {
		return false, nil
	}

	raw, err := m.api.Send(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Endpoint:    m.endpoints.Validate,
		Body:        apimodel.ValidateRequest{Token: bundle.AccessToken},
		SkipRefresh: true,
	})
	if apperrors.IsStatus(err, http.StatusUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("[Manager.Validate] %w", err)
	}

	var resp apimodel.ValidateResponse
	if err := apimodel.Unwrap(raw, &resp); err != nil {
		return false, fmt.Errorf("[Manager.Validate] %w: %v", apperrors.ErrMalformedResponse, err)
	}
	return resp.Valid, nil
}

// Profile fetches the logged in user's record from the server.
func (m *Manager) Profile(ctx context.Context) (users.User, error) {
	if !m.IsAuthenticated() {
		return users.User{}, fmt.Errorf("[Manager.Profile] %w", apperrors.ErrNotAuthenticated)
	}

	raw, err := m.api.Send(ctx, apiclient.Request{Method: http.MethodGet, Endpoint: m.endpoints.Profile})
	if err != nil {
		return users.User{}, fmt.Errorf("[Manager.Profile] %w", err)
	}
	var user users.User
	if err := apimodel.Unwrap(raw, &user); err != nil || !user.Valid() {
		return users.User{}, fmt.Errorf("[Manager.Profile] %w", apperrors.ErrMalformedResponse)
	}
	return user, nil
}

func (m *Manager) post(ctx context.Context, endpoint string, body any) (apimodel.AuthResponse, error) {
	raw, err := m.api.Send(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Endpoint:    endpoint,
		Body:        body,
		SkipRefresh: true,
		OmitToken:   true,
	})
	if err != nil {
		return apimodel.AuthResponse{}, err
	}
	var resp apimodel.AuthResponse
	if err := apimodel.Unwrap(raw, &resp); err != nil {
		return apimodel.AuthResponse{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	return resp, nil
}

// establish persists the session carried by resp and makes it current. A
// response without a refresh token keeps fallbackRefresh.
func (m *Manager) establish(ctx context.Context, resp apimodel.AuthResponse, fallbackRefresh string) (users.User, error) {
	accessToken := resp.AccessTokenValue()
	if !resp.User.Valid() || accessToken == "" {
		return users.User{}, fmt.Errorf("%w: missing user or token", apperrors.ErrMalformedResponse)
	}
	refreshToken := resp.RefreshToken
	if refreshToken == "" {
		refreshToken = fallbackRefresh
	}

	user := *resp.User
	if err := m.store.Save(ctx, user, accessToken, refreshToken); err != nil {
		return users.User{}, err
	}
	m.setState(StateAuthenticated, &user, m.newBundle(accessToken, refreshToken))
	return user, nil
}

func (m *Manager) newBundle(accessToken, refreshToken string) token.Bundle {
	return token.NewBundle(accessToken, refreshToken, m.nowTime(), m.accessLifetime, m.refreshLifetime)
}

type snapshot struct {
	state      State
	user       *users.User
	bundle     token.Bundle
	generation uint64 // Generation right after loading began
}

// beginLoading marks the session as loading and returns what to roll back to.
func (m *Manager) beginLoading() snapshot {
	m.mu.Lock()
	prior := snapshot{state: m.state, user: m.user, bundle: m.bundle}
	m.state = StateLoading
	m.generation++
	prior.generation = m.generation
	session := m.sessionLocked()
	m.mu.Unlock()

	m.notify(session)
	return prior
}

// rollback restores prior unless another transition (a logout, a cleared
// refresh, a newer login) happened since loading began. That transition
// already wrote the store and stays current.
func (m *Manager) rollback(prior snapshot) {
	m.mu.Lock()
	if m.generation != prior.generation {
		state := m.state
		m.mu.Unlock()
		m.logger.Debug().Str("state", state.String()).Msg("session changed during the call, not rolling back")
		return
	}
	m.state = prior.state
	m.user = prior.user
	m.bundle = prior.bundle
	m.generation++
	session := m.sessionLocked()
	m.mu.Unlock()

	m.notify(session)
}

func (m *Manager) setState(state State, user *users.User, bundle token.Bundle) {
	m.mu.Lock()
	m.state = state
	m.user = user
	m.bundle = bundle
	m.generation++
	session := m.sessionLocked()
	m.mu.Unlock()

	m.notify(session)
}

func (m *Manager) sessionLocked() Session {
	session := Session{
		Authenticated: m.user != nil && m.bundle.Token != nil,
		Loading:       m.state == StateLoading || m.state == StateUninitialized,
	}
	if m.user != nil {
		user := *m.user
		session.User = &user
	}
	return session
}

// Session returns a snapshot of the current session.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionLocked()
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsAuthenticated() bool {
	return m.Session().Authenticated
}

// CurrentUser returns a copy of the logged in user, or nil.
func (m *Manager) CurrentUser() *users.User {
	return m.Session().User
}

// Token returns the current token bundle. ok is false when there is no
// session.
func (m *Manager) Token() (bundle token.Bundle, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.bundle.Token == nil {
		return token.Bundle{}, false
	}
	tok := *m.bundle.Token
	return token.Bundle{Token: &tok, RefreshExpiry: m.bundle.RefreshExpiry}, true
}

// Subscribe registers fn to receive each new session snapshot and returns a
// function that removes it.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()

	id := m.nextListenerID
	m.nextListenerID++
	m.listeners[id] = fn

	return func() {
		m.listenersMu.Lock()
		defer m.listenersMu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) notify(session Session) {
	m.listenersMu.Lock()
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}
	m.listenersMu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}
