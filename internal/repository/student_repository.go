package repository

import (
	"context"
	"encoding/json"

	"internmatch/internal/database"
	"internmatch/internal/domain/profile"

	"github.com/google/uuid"
)

type StudentInsert struct {
	UserID     uuid.UUID
	FullName   string
	University string
	Department string
	Bio        string
	Skills     []string
	AvatarURL  string
}

type StudentUpdate struct {
	FullName   *string
	University *string
	Department *string
	Bio        *string
	Skills     []string
	AvatarURL  *string
}

type StudentRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.StudentRecord, error)
	Insert(ctx context.Context, in StudentInsert) (uuid.UUID, error)
	Update(ctx context.Context, userID uuid.UUID, in StudentUpdate) (profile.StudentRecord, error)
	ReplaceProjects(ctx context.Context, userID uuid.UUID, projects []profile.Project) (profile.StudentRecord, error)
	SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) error
	Search(ctx context.Context, query string, skills []string, limit int) ([]profile.StudentRecord, error)
}

type PostgresStudentRepository struct {
	db database.DB
}

func NewPostgresStudentRepository(db database.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

const studentColumns = `id, user_id, full_name, university, department, bio, skills, avatar_url, projects, created_at, updated_at`

func (r *PostgresStudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.StudentRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE user_id = $1`,
		userID,
	)
	return scanStudent(row)
}

func (r *PostgresStudentRepository) Insert(ctx context.Context, in StudentInsert) (uuid.UUID, error) {
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO students (id, user_id, full_name, university, department, bio, skills, avatar_url, projects)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]'::jsonb)
		 RETURNING id`,
		uuid.New(), in.UserID, in.FullName, in.University, in.Department, in.Bio, skills, in.AvatarURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classify(err)
	}
	return id, nil
}

func (r *PostgresStudentRepository) Update(ctx context.Context, userID uuid.UUID, in StudentUpdate) (profile.StudentRecord, error) {
	cur, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return profile.StudentRecord{}, err
	}

	if in.FullName != nil {
		cur.FullName = *in.FullName
	}
	if in.University != nil {
		cur.University = *in.University
	}
	if in.Department != nil {
		cur.Department = *in.Department
	}
	if in.Bio != nil {
		cur.Bio = *in.Bio
	}
	if in.Skills != nil {
		cur.Skills = in.Skills
	}
	if in.AvatarURL != nil {
		cur.AvatarURL = *in.AvatarURL
	}
	if cur.Skills == nil {
		cur.Skills = []string{}
	}

	row := r.db.QueryRow(ctx,
		`UPDATE students
		 SET full_name = $2, university = $3, department = $4, bio = $5, skills = $6, avatar_url = $7, updated_at = now()
		 WHERE user_id = $1
		 RETURNING `+studentColumns,
		userID, cur.FullName, cur.University, cur.Department, cur.Bio, cur.Skills, cur.AvatarURL,
	)
	return scanStudent(row)
}

func (r *PostgresStudentRepository) ReplaceProjects(ctx context.Context, userID uuid.UUID, projects []profile.Project) (profile.StudentRecord, error) {
	if projects == nil {
		projects = []profile.Project{}
	}
	raw, err := json.Marshal(projects)
	if err != nil {
		return profile.StudentRecord{}, err
	}

	row := r.db.QueryRow(ctx,
		`UPDATE students
		 SET projects = $2, updated_at = now()
		 WHERE user_id = $1
		 RETURNING `+studentColumns,
		userID, raw,
	)
	return scanStudent(row)
}

func (r *PostgresStudentRepository) SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE students SET avatar_url = $2, updated_at = now() WHERE user_id = $1`,
		userID, url,
	)
	if err != nil {
		return classify(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresStudentRepository) Search(ctx context.Context, query string, skills []string, limit int) ([]profile.StudentRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	pattern := "%" + query + "%"
	var rows database.Rows
	var err error
	if len(skills) > 0 {
		rows, err = r.db.Query(ctx,
			`SELECT `+studentColumns+`
			 FROM students
			 WHERE (full_name ILIKE $1 OR university ILIKE $1 OR department ILIKE $1)
			   AND skills && $2
			 ORDER BY created_at DESC
			 LIMIT $3`,
			pattern, skills, limit,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+studentColumns+`
			 FROM students
			 WHERE full_name ILIKE $1 OR university ILIKE $1 OR department ILIKE $1
			 ORDER BY created_at DESC
			 LIMIT $2`,
			pattern, limit,
		)
	}
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]profile.StudentRecord, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

type studentRow interface {
	Scan(dest ...any) error
}

func scanStudent(row studentRow) (profile.StudentRecord, error) {
	var s profile.StudentRecord
	var projects []byte
	err := row.Scan(
		&s.ID, &s.UserID, &s.FullName, &s.University, &s.Department,
		&s.Bio, &s.Skills, &s.AvatarURL, &projects, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return profile.StudentRecord{}, classify(err)
	}
	if len(projects) > 0 {
		if err := json.Unmarshal(projects, &s.Projects); err != nil {
			return profile.StudentRecord{}, err
		}
	}
	return s, nil
}
