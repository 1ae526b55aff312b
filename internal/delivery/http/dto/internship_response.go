package dto

import (
	"time"

	"internmatch/internal/repository"

	"github.com/google/uuid"
)

type InternshipResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	IsRemote    bool       `json:"is_remote"`
	Duration    string     `json:"duration,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewInternshipResponse(it repository.Internship) InternshipResponse {
	return InternshipResponse{
		ID:          it.ID,
		CompanyID:   it.CompanyID,
		Title:       it.Title,
		Description: it.Description,
		Location:    it.Location,
		IsRemote:    it.IsRemote,
		Duration:    it.Duration,
		Deadline:    it.Deadline,
		Status:      it.Status,
		CreatedAt:   it.CreatedAt,
	}
}

func NewInternshipResponses(items []repository.Internship) []InternshipResponse {
	out := make([]InternshipResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewInternshipResponse(it))
	}
	return out
}
