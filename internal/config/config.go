package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	AuthConfig
	CorsConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetFrontendURL() string
	GetDebug() bool
	GetEnv() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPIPrefix() string
	GetRequestTimeout() time.Duration
	GetEndpoints() Endpoints
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type StorageConfig interface {
	GetSessionBackend() string
	GetSessionPath() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisPrefix() string
}

type mainConfig struct {
	EnvVars
	API
	Auth
	Cors
	Storage
}

func New() Config {
	return mainConfig{}
}
