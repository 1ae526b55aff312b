package repository

import (
	"context"
	"encoding/json"
	"errors"

	"internmatch/internal/database"
	"internmatch/internal/domain/identity"

	"github.com/google/uuid"
)

type PostgresAuthUserRepository struct {
	db database.DB
}

func NewPostgresAuthUserRepository(db database.DB) *PostgresAuthUserRepository {
	return &PostgresAuthUserRepository{db: db}
}

const authUserColumns = `id, email, password_hash, provider, provider_user_id, metadata, created_at, updated_at`

func (r *PostgresAuthUserRepository) Create(ctx context.Context, u identity.AuthUser) error {
	md := u.Metadata
	if md == nil {
		md = identity.Metadata{}
	}
	raw, err := json.Marshal(md)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO auth_users (id, email, password_hash, provider, provider_user_id, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.PasswordHash, u.Provider, u.ProviderUserID, raw,
	)
	return classify(err)
}

func (r *PostgresAuthUserRepository) GetByID(ctx context.Context, id uuid.UUID) (identity.AuthUser, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+authUserColumns+` FROM auth_users WHERE id = $1`,
		id,
	)
	return scanAuthUser(row)
}

func (r *PostgresAuthUserRepository) GetByEmail(ctx context.Context, email string) (identity.AuthUser, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+authUserColumns+` FROM auth_users WHERE email = $1`,
		email,
	)
	return scanAuthUser(row)
}

func (r *PostgresAuthUserRepository) GetByProvider(ctx context.Context, provider, providerUserID string) (identity.AuthUser, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+authUserColumns+` FROM auth_users WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID,
	)
	return scanAuthUser(row)
}

func (r *PostgresAuthUserRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, md identity.Metadata) error {
	if md == nil {
		md = identity.Metadata{}
	}
	raw, err := json.Marshal(md)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE auth_users SET metadata = $2, updated_at = now() WHERE id = $1`,
		id, raw,
	)
	if err != nil {
		return classify(err)
	}
	if affected == 0 {
		return identity.ErrNotFound
	}
	return nil
}

type authUserRow interface {
	Scan(dest ...any) error
}

func scanAuthUser(row authUserRow) (identity.AuthUser, error) {
	var u identity.AuthUser
	var raw []byte
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Provider, &u.ProviderUserID,
		&raw, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		if errors.Is(err, ErrNotFound) {
			return identity.AuthUser{}, identity.ErrNotFound
		}
		return identity.AuthUser{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &u.Metadata); err != nil {
			return identity.AuthUser{}, err
		}
	}
	return u, nil
}
