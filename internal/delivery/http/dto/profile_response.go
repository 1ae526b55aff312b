package dto

import (
	"time"

	"internmatch/internal/domain/profile"

	"github.com/google/uuid"
)

type StudentResponse struct {
	ID         uuid.UUID         `json:"id"`
	FullName   string            `json:"full_name"`
	University string            `json:"university,omitempty"`
	Department string            `json:"department,omitempty"`
	Bio        string            `json:"bio,omitempty"`
	Skills     []string          `json:"skills"`
	AvatarURL  string            `json:"avatar_url,omitempty"`
	Projects   []profile.Project `json:"projects"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewStudentResponse(r profile.StudentRecord) StudentResponse {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	projects := r.Projects
	if projects == nil {
		projects = []profile.Project{}
	}
	return StudentResponse{
		ID:         r.ID,
		FullName:   r.FullName,
		University: r.University,
		Department: r.Department,
		Bio:        r.Bio,
		Skills:     skills,
		AvatarURL:  r.AvatarURL,
		Projects:   projects,
		CreatedAt:  r.CreatedAt,
	}
}

func NewStudentResponses(recs []profile.StudentRecord) []StudentResponse {
	out := make([]StudentResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, NewStudentResponse(r))
	}
	return out
}

type CompanyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Website     string    `json:"website,omitempty"`
	Size        string    `json:"size,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCompanyResponse(r profile.CompanyRecord) CompanyResponse {
	return CompanyResponse{
		ID:          r.ID,
		Name:        r.Name,
		Industry:    r.Industry,
		Location:    r.Location,
		Description: r.Description,
		LogoURL:     r.LogoURL,
		Website:     r.Website,
		Size:        r.Size,
		CreatedAt:   r.CreatedAt,
	}
}
