package refresh

import (
	"time"
)

// StoredRefreshToken is the server side record of an issued refresh token.
// The client only ever sees Token.
type StoredRefreshToken struct {
	Token  string    // The random token string sent to the client
	UserID string    // Owner
	Iat    time.Time // Issued at time
}

// Repo stores refresh token metadata keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID string) (*StoredRefreshToken, error)
}
