package dto

import (
	"time"

	"internmatch/internal/domain/identity"

	"github.com/google/uuid"
)

type SessionResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func NewSessionResponse(s identity.Session) SessionResponse {
	return SessionResponse{
		UserID:       s.UserID,
		Email:        s.Email,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}
}

// DirectionsResponse tells the client where to route after a session event
// and which notices to show.
type DirectionsResponse struct {
	Route   string   `json:"route"`
	Notices []string `json:"notices"`
}
