package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("auth user not found")

type Repository interface {
	Create(ctx context.Context, u AuthUser) error
	GetByID(ctx context.Context, id uuid.UUID) (AuthUser, error)
	GetByEmail(ctx context.Context, email string) (AuthUser, error)
	GetByProvider(ctx context.Context, provider, providerUserID string) (AuthUser, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, md Metadata) error
}
