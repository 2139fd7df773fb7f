package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/greenpulse/pulse-client/apiclient"
	"github.com/greenpulse/pulse-client/auth"
	"github.com/greenpulse/pulse-client/internal/config"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
	"github.com/greenpulse/pulse-client/sessions"
	"github.com/greenpulse/pulse-client/users"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "a@b.com"
	testPassword = "x"
	profilePath  = "/api/user/profile"
)

// fakeAPI is a scripted backend. Handlers keyed by path; every call is
// counted.
type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
	bearers  map[string][]string
	bodies   map[string][]map[string]any
	server   *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
		calls:    make(map[string]int),
		bearers:  make(map[string][]string),
		bodies:   make(map[string][]map[string]any),
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.calls[r.URL.Path]++
		f.bearers[r.URL.Path] = append(f.bearers[r.URL.Path], r.Header.Get("Authorization"))
		f.bodies[r.URL.Path] = append(f.bodies[r.URL.Path], body)
		handler, ok := f.handlers[r.URL.Path]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) handle(path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = handler
}

func (f *fakeAPI) respond(path string, status int, body string) {
	f.handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeAPI) lastBearer(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bearers[path]
	if len(b) == 0 {
		return ""
	}
	return b[len(b)-1]
}

func (f *fakeAPI) lastBody(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.bodies[path]
	if len(b) == 0 {
		return nil
	}
	return b[len(b)-1]
}

type fixture struct {
	api       *fakeAPI
	backend   *sessions.InMemoryBackend
	store     *sessions.Store
	client    *apiclient.Client
	manager   *auth.Manager
	endpoints config.Endpoints
}

func setupFixture(t *testing.T, seed func(*sessions.InMemoryBackend)) *fixture {
	t.Helper()

	api := newFakeAPI(t)
	backend := sessions.NewInMemoryBackend()
	if seed != nil {
		seed(backend)
	}
	store, err := sessions.NewStore(backend)
	require.NoError(t, err)

	client, err := apiclient.New(api.server.URL, store, apiclient.WithTimeout(2*time.Second))
	require.NoError(t, err)

	endpoints := config.NewEndpoints("/api")
	manager, err := auth.NewManager(context.Background(), client, store, endpoints)
	require.NoError(t, err)

	return &fixture{api: api, backend: backend, store: store, client: client, manager: manager, endpoints: endpoints}
}

func seedSession(user, accessToken, refreshToken string) func(*sessions.InMemoryBackend) {
	return func(b *sessions.InMemoryBackend) {
		b.Set(sessions.UserKey, user)
		b.Set(sessions.TokenKey, accessToken)
		if refreshToken != "" {
			b.Set(sessions.RefreshTokenKey, refreshToken)
		}
	}
}

func TestNewManager(t *testing.T) {
	t.Run("required arguments", func(t *testing.T) {
		store, err := sessions.NewStore(sessions.NewInMemoryBackend())
		require.NoError(t, err)
		client, err := apiclient.New("http://localhost", store)
		require.NoError(t, err)

		_, err = auth.NewManager(context.Background(), nil, store, config.NewEndpoints("/api"))
		require.Error(t, err)
		_, err = auth.NewManager(context.Background(), client, nil, config.NewEndpoints("/api"))
		require.Error(t, err)
		_, err = auth.NewManager(context.Background(), client, store, config.Endpoints{})
		require.Error(t, err)
	})

	t.Run("empty store is anonymous", func(t *testing.T) {
		f := setupFixture(t, nil)
		require.Equal(t, auth.StateAnonymous, f.manager.State())
		require.Equal(t, auth.Session{}, f.manager.Session())
		_, ok := f.manager.Token()
		require.False(t, ok)
	})

	t.Run("stored session is restored", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", "r1"))
		require.Equal(t, auth.StateAuthenticated, f.manager.State())
		require.True(t, f.manager.IsAuthenticated())
		require.Equal(t, users.ID("1"), f.manager.CurrentUser().ID)

		bundle, ok := f.manager.Token()
		require.True(t, ok)
		require.Equal(t, "tok1", bundle.AccessToken)
		require.Equal(t, "r1", bundle.RefreshToken)
		require.Zero(t, f.api.totalCalls())
	})

	t.Run("corrupt user record is cleared", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{not json`, "tok1", ""))
		require.Equal(t, auth.StateAnonymous, f.manager.State())
		require.Zero(t, f.backend.Len())
	})
}

func TestManager_Login(t *testing.T) {
	t.Run("login then request carrying a refreshed token", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/login", http.StatusOK, `{"user":{"id":"1","name":"A","email":"a@b.com"},"token":"tok1"}`)
		f.api.respond("/api/auth/refresh", http.StatusOK, `{"token":"tok2"}`)
		f.api.handle(profilePath, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":"1","name":"A","email":"a@b.com"}`))
		})

		user, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: testEmail, Password: testPassword})
		require.NoError(t, err)
		require.Equal(t, users.ID("1"), user.ID)
		require.True(t, f.manager.IsAuthenticated())
		require.Equal(t, auth.StateAuthenticated, f.manager.State())
		require.Equal(t, map[string]any{"email": testEmail, "password": testPassword}, f.api.lastBody("/api/auth/login"))

		record, err := f.store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, user, record.User)
		require.Equal(t, "tok1", record.AccessToken)

		profile, err := f.manager.Profile(context.Background())
		require.NoError(t, err)
		require.Equal(t, testEmail, profile.Email)
		require.Equal(t, 1, f.api.count("/api/auth/refresh"))
		require.Equal(t, 2, f.api.count(profilePath))
		require.Equal(t, "Bearer tok2", f.api.lastBearer(profilePath))

		token, err := f.store.AccessToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tok2", token)
		require.True(t, f.manager.IsAuthenticated())
	})

	t.Run("enveloped response with refresh token", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/login", http.StatusOK,
			`{"success":true,"data":{"user":{"id":7,"name":"B","email":"b@c.com"},"access_token":"acc","refresh_token":"ref"}}`)

		user, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: "b@c.com", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, users.ID("7"), user.ID)

		refresh, err := f.store.RefreshToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "ref", refresh)
	})

	t.Run("invalid email never reaches the network", func(t *testing.T) {
		f := setupFixture(t, nil)
		_, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: "not-an-email", Password: "x"})

		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Zero(t, f.api.totalCalls())
	})

	t.Run("rejected login is normalized and restores prior state", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/login", http.StatusUnauthorized, `{"detail":"Invalid credentials for a@b.com"}`)

		var seen []auth.Session
		unsubscribe := f.manager.Subscribe(func(s auth.Session) { seen = append(seen, s) })
		defer unsubscribe()

		_, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: testEmail, Password: testPassword})
		require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
		require.NotContains(t, err.Error(), "Invalid credentials")
		require.Equal(t, auth.StateAnonymous, f.manager.State())
		require.False(t, f.manager.IsAuthenticated())
		require.Zero(t, f.backend.Len())

		require.Len(t, seen, 2)
		require.True(t, seen[0].Loading)
		require.False(t, seen[1].Loading)
	})

	t.Run("failed login keeps an existing session", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", ""))
		f.api.respond("/api/auth/login", http.StatusInternalServerError, `oops`)

		_, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: "c@d.com", Password: "y"})
		require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
		require.Equal(t, auth.StateAuthenticated, f.manager.State())
		require.Equal(t, users.ID("1"), f.manager.CurrentUser().ID)
		require.Zero(t, f.api.count("/api/auth/refresh"))
	})

	t.Run("logout during a pending login wins", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", ""))
		arrived := make(chan struct{})
		release := make(chan struct{})
		f.api.handle("/api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			close(arrived)
			<-release
			w.WriteHeader(http.StatusUnauthorized)
		})
		f.api.respond("/api/auth/logout", http.StatusOK, `{}`)

		errCh := make(chan error, 1)
		go func() {
			_, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: "c@d.com", Password: "y"})
			errCh <- err
		}()

		<-arrived
		require.NoError(t, f.manager.Logout(context.Background()))
		close(release)

		require.ErrorIs(t, <-errCh, apperrors.ErrAuthenticationFailed)
		require.False(t, f.manager.IsAuthenticated())
		require.Equal(t, auth.StateAnonymous, f.manager.State())
		_, ok := f.manager.Token()
		require.False(t, ok)

		record, err := f.store.Load(context.Background())
		require.NoError(t, err)
		require.Nil(t, record)
	})

	t.Run("timeout stays a transport error", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.handle("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		})
		client, err := apiclient.New(f.api.server.URL, f.store, apiclient.WithTimeout(100*time.Millisecond))
		require.NoError(t, err)
		manager, err := auth.NewManager(context.Background(), client, f.store, f.endpoints)
		require.NoError(t, err)

		_, err = manager.Login(context.Background(), users.LoginCredentials{Email: testEmail, Password: testPassword})
		require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
		require.ErrorIs(t, err, apperrors.ErrRequestExpired)
		var transportErr *apperrors.TransportError
		require.ErrorAs(t, err, &transportErr)
		require.False(t, manager.IsAuthenticated())
	})

	t.Run("response without token fails", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/login", http.StatusOK, `{"user":{"id":"1","name":"A","email":"a@b.com"}}`)

		_, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: testEmail, Password: testPassword})
		require.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
		require.ErrorIs(t, err, apperrors.ErrMalformedResponse)
		require.False(t, f.manager.IsAuthenticated())
	})
}

func TestManager_Register(t *testing.T) {
	validCreds := users.RegisterCredentials{
		Name:            "Ana",
		Email:           testEmail,
		Password:        "secret",
		ConfirmPassword: "secret",
	}

	t.Run("password mismatch never reaches the network", func(t *testing.T) {
		f := setupFixture(t, nil)
		creds := validCreds
		creds.ConfirmPassword = "other"

		_, err := f.manager.Register(context.Background(), creds)
		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Contains(t, err.Error(), "passwords do not match")
		require.Zero(t, f.api.totalCalls())
	})

	t.Run("response with session", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/register", http.StatusCreated, `{"user":{"id":"9","name":"Ana","email":"a@b.com"},"token":"tok9"}`)

		user, err := f.manager.Register(context.Background(), validCreds)
		require.NoError(t, err)
		require.Equal(t, users.ID("9"), user.ID)
		require.True(t, f.manager.IsAuthenticated())
		require.Zero(t, f.api.count("/api/auth/login"))
		require.Equal(t, map[string]any{"username": "Ana", "email": testEmail, "password": "secret"}, f.api.lastBody("/api/auth/register"))
	})

	t.Run("user only response logs in once", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/register", http.StatusCreated, `{"id":"9","name":"Ana","email":"a@b.com"}`)
		f.api.respond("/api/auth/login", http.StatusOK, `{"user":{"id":"9","name":"Ana","email":"a@b.com"},"token":"tok9"}`)

		creds := validCreds
		creds.NationalID = "123.456.789-00"
		user, err := f.manager.Register(context.Background(), creds)
		require.NoError(t, err)
		require.Equal(t, users.ID("9"), user.ID)
		require.Equal(t, 1, f.api.count("/api/auth/login"))
		require.Equal(t, "123.456.789-00", f.api.lastBody("/api/auth/register")["cpf"])

		token, err := f.store.AccessToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tok9", token)
	})

	t.Run("server rejection is normalized", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/register", http.StatusBadRequest, `{"message":"Email already registered"}`)

		_, err := f.manager.Register(context.Background(), validCreds)
		require.ErrorIs(t, err, apperrors.ErrRegistrationFailed)
		require.NotContains(t, err.Error(), "Email already registered")
		require.Equal(t, auth.StateAnonymous, f.manager.State())
		require.Zero(t, f.backend.Len())
	})

	t.Run("unreachable server stays a network error", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.server.Close()

		_, err := f.manager.Register(context.Background(), validCreds)
		require.ErrorIs(t, err, apperrors.ErrRegistrationFailed)
		require.ErrorIs(t, err, apperrors.ErrNetwork)
		require.Equal(t, auth.StateAnonymous, f.manager.State())
	})

	t.Run("follow-up login failure is a registration failure", func(t *testing.T) {
		f := setupFixture(t, nil)
		f.api.respond("/api/auth/register", http.StatusCreated, `{"id":"9","name":"Ana","email":"a@b.com"}`)
		f.api.respond("/api/auth/login", http.StatusUnauthorized, `{}`)

		_, err := f.manager.Register(context.Background(), validCreds)
		require.ErrorIs(t, err, apperrors.ErrRegistrationFailed)
		require.False(t, f.manager.IsAuthenticated())
	})
}

func TestManager_Logout(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "server accepts", status: http.StatusOK},
		{name: "server fails", status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", "r1"))
			f.api.respond("/api/auth/logout", tt.status, `{"message":"bye"}`)

			require.NoError(t, f.manager.Logout(context.Background()))
			require.False(t, f.manager.IsAuthenticated())
			require.Equal(t, auth.StateAnonymous, f.manager.State())
			require.Zero(t, f.backend.Len())
			require.Equal(t, 1, f.api.count("/api/auth/logout"))
			require.Zero(t, f.api.count("/api/auth/refresh"))
		})
	}

	t.Run("server unreachable", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", ""))
		f.api.server.Close()

		require.NoError(t, f.manager.Logout(context.Background()))
		require.False(t, f.manager.IsAuthenticated())
		require.Zero(t, f.backend.Len())
	})
}

func TestManager_RefreshToken(t *testing.T) {
	t.Run("sends stored refresh token and keeps it when not rotated", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", "r1"))
		f.api.respond("/api/auth/refresh", http.StatusOK, `{"access_token":"tok2"}`)

		require.NoError(t, f.manager.RefreshToken(context.Background()))
		require.Equal(t, map[string]any{"refresh_token": "r1"}, f.api.lastBody("/api/auth/refresh"))
		require.Empty(t, f.api.lastBearer("/api/auth/refresh"))

		record, err := f.store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tok2", record.AccessToken)
		require.Equal(t, "r1", record.RefreshToken)
		require.Equal(t, users.ID("1"), record.User.ID)
	})

	t.Run("rotated refresh token replaces the old one", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", "r1"))
		f.api.respond("/api/auth/refresh", http.StatusOK, `{"token":"tok2","refresh_token":"r2"}`)

		require.NoError(t, f.manager.RefreshToken(context.Background()))
		bundle, ok := f.manager.Token()
		require.True(t, ok)
		require.Equal(t, "tok2", bundle.AccessToken)
		require.Equal(t, "r2", bundle.RefreshToken)
	})

	t.Run("cookie session sends an empty body", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", ""))
		f.api.respond("/api/auth/refresh", http.StatusOK, `{"token":"tok2"}`)

		require.NoError(t, f.manager.RefreshToken(context.Background()))
		require.Empty(t, f.api.lastBody("/api/auth/refresh"))
	})

	t.Run("failed refresh clears the session", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", "r1"))
		f.api.respond("/api/auth/refresh", http.StatusUnauthorized, `{"message":"refresh token expired"}`)
		f.api.respond(profilePath, http.StatusUnauthorized, ``)

		_, err := f.manager.Profile(context.Background())
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
		require.Equal(t, 1, f.api.count("/api/auth/refresh"))
		require.Equal(t, 1, f.api.count(profilePath))
		require.False(t, f.manager.IsAuthenticated())
		require.Equal(t, auth.StateAnonymous, f.manager.State())
		require.Zero(t, f.backend.Len())
	})

	t.Run("refresh without token in response clears the session", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", "r1"))
		f.api.respond("/api/auth/refresh", http.StatusOK, `{}`)

		err := f.manager.RefreshToken(context.Background())
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
		require.Zero(t, f.backend.Len())
	})
}

func TestManager_Validate(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		f := setupFixture(t, nil)
		valid, err := f.manager.Validate(context.Background())
		require.NoError(t, err)
		require.False(t, valid)
		require.Zero(t, f.api.totalCalls())
	})

	t.Run("valid", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", ""))
		f.api.respond("/api/auth/validate", http.StatusOK, `{"valid":true,"username":"A"}`)

		valid, err := f.manager.Validate(context.Background())
		require.NoError(t, err)
		require.True(t, valid)
		require.Equal(t, map[string]any{"token": "tok1"}, f.api.lastBody("/api/auth/validate"))
	})

	t.Run("rejected", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", ""))
		f.api.respond("/api/auth/validate", http.StatusUnauthorized, ``)

		valid, err := f.manager.Validate(context.Background())
		require.NoError(t, err)
		require.False(t, valid)
		require.Zero(t, f.api.count("/api/auth/refresh"))
	})
}

func TestManager_Profile(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		f := setupFixture(t, nil)
		_, err := f.manager.Profile(context.Background())
		require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	})

	t.Run("enveloped", func(t *testing.T) {
		f := setupFixture(t, seedSession(`{"id":"1","name":"A","email":"a@b.com"}`, "tok1", ""))
		f.api.respond(profilePath, http.StatusOK, `{"data":{"id":1,"name":"A","email":"a@b.com","avatar":"a.png"}}`)

		user, err := f.manager.Profile(context.Background())
		require.NoError(t, err)
		require.Equal(t, "a.png", user.Avatar)
		require.Equal(t, "Bearer tok1", f.api.lastBearer(profilePath))
	})
}

func TestManager_Subscribe(t *testing.T) {
	f := setupFixture(t, nil)
	f.api.respond("/api/auth/login", http.StatusOK, `{"user":{"id":"1","name":"A","email":"a@b.com"},"token":"tok1"}`)

	var calls atomic.Int32
	var last auth.Session
	unsubscribe := f.manager.Subscribe(func(s auth.Session) {
		calls.Add(1)
		last = s
	})

	_, err := f.manager.Login(context.Background(), users.LoginCredentials{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
	require.True(t, last.Authenticated)
	require.False(t, last.Loading)
	require.Equal(t, users.ID("1"), last.User.ID)

	unsubscribe()
	require.NoError(t, f.manager.Logout(context.Background()))
	require.EqualValues(t, 2, calls.Load())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "uninitialized", auth.StateUninitialized.String())
	require.Equal(t, "loading", auth.StateLoading.String())
	require.Equal(t, "authenticated", auth.StateAuthenticated.String())
	require.Equal(t, "anonymous", auth.StateAnonymous.String())
}
