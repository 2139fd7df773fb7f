package config_test

import (
	"testing"
	"time"

	"github.com/greenpulse/pulse-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("API_PREFIX", "")
	t.Setenv("API_TIMEOUT_MS", "")
	t.Setenv("SESSION_BACKEND", "")

	c := config.New()
	require.Equal(t, "http://localhost:8000", c.GetAPIBaseURL())
	require.Equal(t, "/api", c.GetAPIPrefix())
	require.Equal(t, 10*time.Second, c.GetRequestTimeout())
	require.Equal(t, time.Hour, c.GetAccessTokenExpiry())
	require.Equal(t, 7*24*time.Hour, c.GetRefreshTokenExpiry())
	require.Equal(t, config.SessionBackendSQLite, c.GetSessionBackend())
	require.Equal(t, "/api/auth/login", c.GetEndpoints().Login)
	require.Equal(t, "/api/user/profile", c.GetEndpoints().Profile)
}

func TestOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://api.greenpulse.test/")
	t.Setenv("API_PREFIX", "v2/")
	t.Setenv("API_TIMEOUT_MS", "2500")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("PORT", "9090")

	c := config.New()
	require.Equal(t, "https://api.greenpulse.test", c.GetAPIBaseURL())
	require.Equal(t, "/v2", c.GetAPIPrefix())
	require.Equal(t, 2500*time.Millisecond, c.GetRequestTimeout())
	require.Equal(t, config.SessionBackendRedis, c.GetSessionBackend())
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "/v2/trees/user/7", c.GetEndpoints().TreesByUser("7"))
}

func TestInvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("API_TIMEOUT_MS", "soon")
	require.Equal(t, 10*time.Second, config.New().GetRequestTimeout())
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("FRONTEND_URL", "http://localhost:3000/")
	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("http://localhost:3000"))
	require.True(t, origins.IsAllowedOrigin("http://127.0.0.1:3000"))
	require.False(t, origins.IsAllowedOrigin("http://evil.test"))
}
