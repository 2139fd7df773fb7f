package fakeuserrepo

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/greenpulse/pulse-client/users"
)

var _ users.AccountRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	accounts map[users.ID]*users.Account
	emailIds map[string]users.ID // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.AccountRepo {
	return &FakeUserRepo{
		accounts: make(map[users.ID]*users.Account),
		emailIds: make(map[string]users.ID),
	}
}

func (ur *FakeUserRepo) Create(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := strings.ToLower(account.Email)
	if _, ok := ur.emailIds[email]; ok {
		return users.ErrEmailTaken
	}
	if account.ID == "" {
		account.ID = users.ID(uuid.New().String())
	}
	ur.accounts[account.ID] = account
	ur.emailIds[email] = account.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, errors.New("not found")
	}
	return ur.accounts[id], nil
}

func (ur *FakeUserRepo) GetByID(id users.ID) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	account, ok := ur.accounts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return account, nil
}

func (ur *FakeUserRepo) SetLoggedIn(id users.ID, loggedIn bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	account, ok := ur.accounts[id]
	if !ok {
		return errors.New("not found")
	}
	account.LoggedIn = loggedIn
	return nil
}
