package dto

import (
	"time"

	"internmatch/internal/repository"

	"github.com/google/uuid"
)

type MessageResponse struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewMessageResponse(m repository.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

func NewMessageResponses(items []repository.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMessageResponse(m))
	}
	return out
}
