package repository

import (
	"context"
	"strconv"
	"time"

	"internmatch/internal/database"

	"github.com/google/uuid"
)

type Internship struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Title       string
	Description string
	Location    string
	IsRemote    bool
	Duration    string
	Deadline    *time.Time
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InternshipInsert struct {
	CompanyID   uuid.UUID
	Title       string
	Description string
	Location    string
	IsRemote    bool
	Duration    string
	Deadline    *time.Time
}

type InternshipFilter struct {
	Query      string
	Location   string
	RemoteOnly bool
	Status     string
	CompanyID  uuid.UUID
	Limit      int
	Offset     int
}

type InternshipRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Internship, error)
	Insert(ctx context.Context, in InternshipInsert) (uuid.UUID, error)
	List(ctx context.Context, f InternshipFilter) ([]Internship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresInternshipRepository struct {
	db database.DB
}

func NewPostgresInternshipRepository(db database.DB) *PostgresInternshipRepository {
	return &PostgresInternshipRepository{db: db}
}

const internshipColumns = `id, company_id, title, description, location, is_remote, duration, deadline, status, created_at, updated_at`

func (r *PostgresInternshipRepository) GetByID(ctx context.Context, id uuid.UUID) (Internship, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+internshipColumns+` FROM internships WHERE id = $1`,
		id,
	)
	return scanInternship(row)
}

func (r *PostgresInternshipRepository) Insert(ctx context.Context, in InternshipInsert) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO internships (id, company_id, title, description, location, is_remote, duration, deadline, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'open')
		 RETURNING id`,
		uuid.New(), in.CompanyID, in.Title, in.Description, in.Location, in.IsRemote, in.Duration, in.Deadline,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classify(err)
	}
	return id, nil
}

func (r *PostgresInternshipRepository) List(ctx context.Context, f InternshipFilter) ([]Internship, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + internshipColumns + ` FROM internships WHERE 1=1`
	args := []any{}
	idx := 1

	add := func(clause string, v any) {
		q += clause
		args = append(args, v)
		idx++
	}

	if f.Query != "" {
		add(` AND (title ILIKE '%'||$`+itoa(idx)+`||'%' OR description ILIKE '%'||$`+itoa(idx)+`||'%')`, f.Query)
	}
	if f.Location != "" {
		add(` AND location ILIKE '%'||$`+itoa(idx)+`||'%'`, f.Location)
	}
	if f.RemoteOnly {
		q += ` AND is_remote`
	}
	if f.Status != "" {
		add(` AND status = $`+itoa(idx), f.Status)
	}
	if f.CompanyID != uuid.Nil {
		add(` AND company_id = $`+itoa(idx), f.CompanyID)
	}

	q += ` ORDER BY created_at DESC LIMIT $` + itoa(idx)
	args = append(args, limit)
	idx++
	q += ` OFFSET $` + itoa(idx)
	args = append(args, offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]Internship, 0)
	for rows.Next() {
		it, err := scanInternship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *PostgresInternshipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE internships SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return classify(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresInternshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM internships WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

type internshipRow interface {
	Scan(dest ...any) error
}

func scanInternship(row internshipRow) (Internship, error) {
	var it Internship
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.Title, &it.Description, &it.Location,
		&it.IsRemote, &it.Duration, &it.Deadline, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return Internship{}, classify(err)
	}
	return it, nil
}
