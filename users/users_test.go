package users_test

import (
	"encoding/json"
	"testing"

	apperrors "github.com/greenpulse/pulse-client/internal/errors"
	"github.com/greenpulse/pulse-client/users"
	"github.com/stretchr/testify/require"
)

func TestUserIDAcceptsStringOrNumber(t *testing.T) {
	var u users.User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"A","email":"a@b.com"}`), &u))
	require.Equal(t, users.ID("1"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"name":"B","email":"b@b.com"}`), &u))
	require.Equal(t, users.ID("42"), u.ID)

	require.Error(t, json.Unmarshal([]byte(`{"id":true}`), &u))

	out, err := json.Marshal(u)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"42","name":"B","email":"b@b.com"}`, string(out))
}

func TestLoginCredentialsValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, users.LoginCredentials{Email: "a@b.com", Password: "x"}.Validate())
	})

	t.Run("malformed email", func(t *testing.T) {
		err := users.LoginCredentials{Email: "not-an-email", Password: "x"}.Validate()
		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Contains(t, validationErr.Fields, "email")
	})

	t.Run("missing password", func(t *testing.T) {
		err := users.LoginCredentials{Email: "a@b.com"}.Validate()
		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "password is required", validationErr.Fields["password"])
	})
}

func TestRegisterCredentialsValidate(t *testing.T) {
	valid := users.RegisterCredentials{
		Name:            "Ana",
		Email:           "ana@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	}
	require.NoError(t, valid.Validate())

	mismatch := valid
	mismatch.ConfirmPassword = "other"
	err := mismatch.Validate()
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "passwords do not match", validationErr.Fields["confirmPassword"])

	require.Equal(t, users.LoginCredentials{Email: "ana@example.com", Password: "secret"}, valid.Login())
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("secret")
	require.NoError(t, err)

	account := users.Account{PasswordHash: hash}
	require.True(t, account.CheckPassword("secret"))
	require.False(t, account.CheckPassword("wrong"))
}
