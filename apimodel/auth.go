package apimodel

import "github.com/greenpulse/pulse-client/users"

// LoginRequest is the JSON body of POST /auth/login.
type LoginRequest = users.LoginCredentials

// RegisterRequest is the JSON body of POST /auth/register. The form's display
// name is submitted as the username.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	CPF      string `json:"cpf,omitempty"` // National id placeholder
}

// AuthResponse is returned by login and register (and, without User, by
// refresh).
type AuthResponse struct {
	// User is the authenticated user's record.
	// Absent from refresh responses and from registrations that require a
	// separate login.
	User *users.User `json:"user,omitempty"`

	// Token is the access token.
	// Usage: "Authorization: Bearer <token>"
	// Lifespan: short-lived (1 hour)
	Token string `json:"token,omitempty"`

	// AccessToken is the OAuth2-style name for Token, sent by some backends
	// instead of Token.
	AccessToken string `json:"access_token,omitempty"`

	// RefreshToken is an opaque token exchanged at /auth/refresh for a new
	// access token.
	// Lifespan: long-lived (7 days)
	// Only present: when the server issues refresh tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "bearer" when present.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the access token lifetime in seconds. A hint only.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// AccessTokenValue returns whichever of Token and AccessToken is set.
func (r AuthResponse) AccessTokenValue() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// RefreshRequest is the JSON body of POST /auth/refresh. RefreshToken is
// omitted when the client relies on a server cookie session.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ValidateRequest is the JSON body of POST /auth/validate.
type ValidateRequest struct {
	Token string `json:"token"`
}

// ValidateResponse reports whether a token is valid and whose it is.
type ValidateResponse struct {
	Valid    bool    `json:"valid"`
	Username *string `json:"username"`
}

// MessageResponse is a body carrying only a human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}
