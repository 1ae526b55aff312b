package repository

import (
	"context"

	"internmatch/internal/database"
	"internmatch/internal/domain/profile"

	"github.com/google/uuid"
)

type CompanyInsert struct {
	UserID      uuid.UUID
	Name        string
	Industry    string
	Location    string
	Description string
	LogoURL     string
	Website     string
	Size        string
}

type CompanyUpdate struct {
	Name        *string
	Industry    *string
	Location    *string
	Description *string
	LogoURL     *string
	Website     *string
	Size        *string
}

type CompanyRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.CompanyRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (profile.CompanyRecord, error)
	Insert(ctx context.Context, in CompanyInsert) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, in CompanyUpdate) (profile.CompanyRecord, error)
	SetLogoURL(ctx context.Context, id uuid.UUID, url string) error
}

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const companyColumns = `id, user_id, name, industry, location, description, logo_url, website, size, created_at, updated_at`

func (r *PostgresCompanyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.CompanyRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE user_id = $1`,
		userID,
	)
	return scanCompany(row)
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.CompanyRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`,
		id,
	)
	return scanCompany(row)
}

func (r *PostgresCompanyRepository) Insert(ctx context.Context, in CompanyInsert) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO companies (id, user_id, name, industry, location, description, logo_url, website, size)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		uuid.New(), in.UserID, in.Name, in.Industry, in.Location, in.Description, in.LogoURL, in.Website, in.Size,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classify(err)
	}
	return id, nil
}

func (r *PostgresCompanyRepository) Update(ctx context.Context, id uuid.UUID, in CompanyUpdate) (profile.CompanyRecord, error) {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return profile.CompanyRecord{}, err
	}

	if in.Name != nil {
		cur.Name = *in.Name
	}
	if in.Industry != nil {
		cur.Industry = *in.Industry
	}
	if in.Location != nil {
		cur.Location = *in.Location
	}
	if in.Description != nil {
		cur.Description = *in.Description
	}
	if in.LogoURL != nil {
		cur.LogoURL = *in.LogoURL
	}
	if in.Website != nil {
		cur.Website = *in.Website
	}
	if in.Size != nil {
		cur.Size = *in.Size
	}

	row := r.db.QueryRow(ctx,
		`UPDATE companies
		 SET name = $2, industry = $3, location = $4, description = $5, logo_url = $6, website = $7, size = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING `+companyColumns,
		id, cur.Name, cur.Industry, cur.Location, cur.Description, cur.LogoURL, cur.Website, cur.Size,
	)
	return scanCompany(row)
}

func (r *PostgresCompanyRepository) SetLogoURL(ctx context.Context, id uuid.UUID, url string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE companies SET logo_url = $2, updated_at = now() WHERE id = $1`,
		id, url,
	)
	if err != nil {
		return classify(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type companyRow interface {
	Scan(dest ...any) error
}

func scanCompany(row companyRow) (profile.CompanyRecord, error) {
	var c profile.CompanyRecord
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Industry, &c.Location,
		&c.Description, &c.LogoURL, &c.Website, &c.Size, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return profile.CompanyRecord{}, classify(err)
	}
	return c, nil
}
