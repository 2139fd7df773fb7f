package users

import "github.com/greenpulse/pulse-client/internal/validation"

// LoginCredentials are submitted to the login endpoint. They are never
// persisted.
type LoginCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterCredentials are submitted to the register endpoint. ConfirmPassword
// only exists for the local check and is never sent.
type RegisterCredentials struct {
	Name            string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	NationalID      string `json:"cpf,omitempty"` // Optional, not validated yet
}

// Login returns the credentials used for the automatic login after a
// registration.
func (c RegisterCredentials) Login() LoginCredentials {
	return LoginCredentials{Email: c.Email, Password: c.Password}
}

// Validate checks the credentials locally. It returns a
// *errors.ValidationError describing every rejected field.
func (c LoginCredentials) Validate() error {
	return validation.Struct(c)
}

// Validate checks the credentials locally, including that both passwords
// match.
func (c RegisterCredentials) Validate() error {
	return validation.Struct(c)
}
