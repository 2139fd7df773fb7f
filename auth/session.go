package auth

import "github.com/greenpulse/pulse-client/users"

// State is the manager's position in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is a snapshot of who the client believes is logged in.
type Session struct {
	User          *users.User `json:"user,omitempty" yaml:"user,omitempty"`
	Authenticated bool        `json:"authenticated" yaml:"authenticated"`
	Loading       bool        `json:"loading" yaml:"loading"`
}

// Listener receives every new Session snapshot.
type Listener func(Session)
