package users

import "errors"

var ErrEmailTaken = errors.New("email already registered")

// AccountRepo stores the dev server's accounts.
type AccountRepo interface {
	Create(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id ID) (*Account, error)
	SetLoggedIn(id ID, loggedIn bool) error
}
