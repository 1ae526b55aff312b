package repository

import (
	"context"
	"time"

	"internmatch/internal/database"

	"github.com/google/uuid"
)

type Application struct {
	ID           uuid.UUID
	InternshipID uuid.UUID
	StudentID    uuid.UUID
	Status       string
	CoverLetter  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ApplicationRepository interface {
	Insert(ctx context.Context, internshipID, studentID uuid.UUID, coverLetter string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]Application, error)
	ListByInternship(ctx context.Context, internshipID uuid.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, internship_id, student_id, status, cover_letter, created_at, updated_at`

func (r *PostgresApplicationRepository) Insert(ctx context.Context, internshipID, studentID uuid.UUID, coverLetter string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO applications (id, internship_id, student_id, status, cover_letter)
		 VALUES ($1, $2, $3, 'pending', $4)
		 RETURNING id`,
		uuid.New(), internshipID, studentID, coverLetter,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classify(err)
	}
	return id, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`,
		id,
	)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY created_at DESC`,
		studentID,
	)
}

func (r *PostgresApplicationRepository) ListByInternship(ctx context.Context, internshipID uuid.UUID) ([]Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE internship_id = $1 ORDER BY created_at DESC`,
		internshipID,
	)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = now() WHERE id = $1`,
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

func (r *PostgresApplicationRepository) list(ctx context.Context, q string, arg any) ([]Application, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

type applicationRow interface {
	Scan(dest ...any) error
}

func scanApplication(row applicationRow) (Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.InternshipID, &a.StudentID, &a.Status, &a.CoverLetter, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Application{}, classify(err)
	}
	return a, nil
}
