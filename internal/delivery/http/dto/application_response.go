package dto

import (
	"time"

	"internmatch/internal/repository"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID           uuid.UUID `json:"id"`
	InternshipID uuid.UUID `json:"internship_id"`
	StudentID    uuid.UUID `json:"student_id"`
	Status       string    `json:"status"`
	CoverLetter  string    `json:"cover_letter,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewApplicationResponse(a repository.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           a.ID,
		InternshipID: a.InternshipID,
		StudentID:    a.StudentID,
		Status:       a.Status,
		CoverLetter:  a.CoverLetter,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func NewApplicationResponses(items []repository.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}
