package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MessageEvent struct {
	Type      string    `json:"type"`
	MessageID uuid.UUID `json:"message_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
}

// NotifyMessage pushes a new-message event to the recipient's connections.
func (h *Hub) NotifyMessage(recipientID, messageID, senderID uuid.UUID, content string) {
	if h == nil {
		return
	}

	evt := MessageEvent{
		Type:      "message_received",
		MessageID: messageID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.SendToUser(recipientID, b)
}
