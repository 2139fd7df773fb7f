package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ID is a user identifier. The backend may send it as a JSON string or a
// number; it is always held and re-serialized as a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// User is the record the client holds for the logged in user. It is replaced
// wholesale on login, register and refresh and dropped on logout.
type User struct {
	ID     ID     `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Valid reports whether the record carries enough to identify a user.
func (u *User) Valid() bool {
	return u != nil && u.ID != ""
}

// Account is the server side view of a user, as kept by the dev server.
type Account struct {
	User
	Username     string    // Login name submitted at registration
	PasswordHash string    // bcrypt hash, never serialized
	DateJoined   time.Time // Date and time when the user registered
	LoggedIn     bool      // Holds an unrevoked refresh token
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the account's hash
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.PasswordHash)
}
