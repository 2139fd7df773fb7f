package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	folderEnvVar      = "FOLDER"
	apiURLVar         = "API_URL"
	apiPrefixVar      = "API_PREFIX"
	apiTimeoutVar     = "API_TIMEOUT_MS"
	frontendURLVar    = "FRONTEND_URL"
	debugVar          = "DEBUG"
	sessionBackendVar = "SESSION_BACKEND"
	sessionPathVar    = "SESSION_PATH"

	defaultRequestTimeout = 10 * time.Second
)

// Session backends understood by StorageConfig.GetSessionBackend.
const (
	SessionBackendMemory = "memory"
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8000")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Green Pulse")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetFrontendURL returns the URL the web frontend is served from. The dev
// server allows it as a CORS origin.
func (EnvVars) GetFrontendURL() string {
	return GetEnv(frontendURLVar, "http://localhost:3000")
}

func (EnvVars) GetDebug() bool {
	return GetEnvBool(debugVar, false)
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the REST API origin without a trailing slash,
// e.g. "http://localhost:8000".
func (API) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://localhost:8000"), "/")
}

func (API) GetAPIPrefix() string {
	prefix := GetEnv(apiPrefixVar, "/api")
	if prefix == "/" {
		return ""
	}
	return "/" + strings.Trim(prefix, "/")
}

func (API) GetRequestTimeout() time.Duration {
	ms, err := strconv.Atoi(GetEnv(apiTimeoutVar, ""))
	if err != nil || ms <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

func (a API) GetEndpoints() Endpoints {
	return NewEndpoints(a.GetAPIPrefix())
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetSessionBackend() string {
	switch backend := strings.ToLower(GetEnv(sessionBackendVar, SessionBackendSQLite)); backend {
	case SessionBackendMemory, SessionBackendRedis:
		return backend
	default:
		return SessionBackendSQLite
	}
}

func (Storage) GetSessionPath() string {
	return GetEnv(sessionPathVar, filepath.Join(EnvVars{}.GetDataFolder(), "session.db"))
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Storage) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Storage) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "greenpulse:")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvBool(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}
