package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("no active session")

// TokenStore persists refresh tokens so sign-out can revoke the whole
// session rather than waiting for JWT expiry.
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error
	RefreshTokenMatches(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, userID uuid.UUID) error
}
