// Package message implements direct messaging between students and
// companies, with realtime fan-out to connected websocket clients.
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"internmatch/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyContent = errors.New("message content is empty")
	ErrSelfMessage  = errors.New("cannot message yourself")
)

const maxContentLen = 4000

// Notifier pushes a delivered message to the recipient's live connections.
// ws.Hub satisfies it; a nil notifier means no realtime delivery.
type Notifier interface {
	NotifyMessage(recipientID, messageID, senderID uuid.UUID, content string)
}

type Service struct {
	messages repository.MessageRepository
	notifier Notifier
	logger   *log.Logger
}

func NewService(messages repository.MessageRepository, notifier Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{messages: messages, notifier: notifier, logger: logger}
}

// Send persists the message and notifies the recipient. Persistence is the
// source of truth; a failed realtime push is invisible here because the
// recipient will see the message on their next conversation fetch.
func (s *Service) Send(ctx context.Context, senderID, recipientID uuid.UUID, content string) (repository.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return repository.Message{}, ErrEmptyContent
	}
	content = truncateContent(content)
	if senderID == recipientID {
		return repository.Message{}, ErrSelfMessage
	}

	m, err := s.messages.Insert(ctx, senderID, recipientID, content)
	if err != nil {
		return repository.Message{}, fmt.Errorf("insert message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyMessage(recipientID, m.ID, senderID, content)
	}
	return m, nil
}

// Conversation returns the recent messages between the caller and the other
// party, newest first, and marks the other party's messages as read.
func (s *Service) Conversation(ctx context.Context, userID, otherID uuid.UUID, limit int) ([]repository.Message, error) {
	msgs, err := s.messages.Conversation(ctx, userID, otherID, limit)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	if _, err := s.messages.MarkRead(ctx, userID, otherID); err != nil {
		s.logger.Printf("message | mark-read failed | user=%s other=%s error=%v", userID, otherID, err)
	}
	return msgs, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messages.UnreadCount(ctx, userID)
}

// truncateContent caps content at maxContentLen bytes without splitting a
// UTF-8 rune at the cut point.
func truncateContent(s string) string {
	if len(s) <= maxContentLen {
		return s
	}
	cut := maxContentLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
