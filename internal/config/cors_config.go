package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

// GetAllowedOrigins allows the configured frontend plus its 127.0.0.1 alias.
func (Cors) GetAllowedOrigins() AllowedOrigins {
	frontend := strings.TrimRight(EnvVars{}.GetFrontendURL(), "/")
	origins := AllowedOrigins{frontend: nullValue{}}
	if strings.Contains(frontend, "localhost") {
		origins[strings.Replace(frontend, "localhost", "127.0.0.1", 1)] = nullValue{}
	}
	return origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization, X-Request-ID"
}
