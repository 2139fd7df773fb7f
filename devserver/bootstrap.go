package devserver

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/greenpulse/pulse-client/users"
)

const (
	DemoUsername = "demo"
	DemoName     = "Green Pulse Demo"
)

// Bootstrap creates the demo account with a random password. It returns the
// generated password, or "" when the account already exists.
func (s *Server) Bootstrap() (email, generatedPassword string, err error) {
	email = fmt.Sprintf("%s@greenpulse.local", DemoUsername)
	if _, err := s.accounts.GetByEmail(email); err == nil {
		s.logger.Info().Str("email", email).Msg("demo account already exists")
		return email, "", nil
	}

	passwordBytes := make([]byte, 12)
	if _, err := rand.Read(passwordBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate password: %w", err)
	}
	generatedPassword = base64.URLEncoding.EncodeToString(passwordBytes)

	hash, err := users.HashPassword(generatedPassword)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	demo := &users.Account{
		User: users.User{
			Name:  DemoName,
			Email: email,
		},
		Username:     DemoUsername,
		PasswordHash: hash,
		DateJoined:   time.Now(),
	}
	if err := s.accounts.Create(demo); err != nil {
		return "", "", fmt.Errorf("failed to create demo account: %w", err)
	}

	s.logger.Info().Str("email", email).Str("user_id", string(demo.ID)).Msg("created demo account")
	return email, generatedPassword, nil
}
