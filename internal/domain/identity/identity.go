package identity

import (
	"time"

	"github.com/google/uuid"
)

// AuthUser is the account record behind a session. Password-based accounts
// carry a bcrypt hash; social accounts carry provider identifiers and a
// metadata bag with whatever display-name fields the provider returned.
type AuthUser struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	Provider       string
	ProviderUserID string
	Metadata       Metadata
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Metadata is the free-form attribute bag attached to an account.
// Social providers populate some subset of these keys.
type Metadata map[string]string

func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Session is the transient identity handed to callers after sign-in:
// the token pair plus the user attributes needed without a DB round trip.
type Session struct {
	UserID       uuid.UUID
	Email        string
	Metadata     Metadata
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
