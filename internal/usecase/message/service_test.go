package message

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"internmatch/internal/repository"

	"github.com/google/uuid"
)

type memMessageRepo struct {
	messages []repository.Message
}

func (m *memMessageRepo) Insert(_ context.Context, senderID, recipientID uuid.UUID, content string) (repository.Message, error) {
	msg := repository.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memMessageRepo) Conversation(_ context.Context, a, b uuid.UUID, _ int) ([]repository.Message, error) {
	out := make([]repository.Message, 0)
	for _, msg := range m.messages {
		if (msg.SenderID == a && msg.RecipientID == b) || (msg.SenderID == b && msg.RecipientID == a) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessageRepo) MarkRead(_ context.Context, recipientID, senderID uuid.UUID) (int64, error) {
	var n int64
	for i, msg := range m.messages {
		if msg.RecipientID == recipientID && msg.SenderID == senderID && !msg.Read {
			m.messages[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memMessageRepo) UnreadCount(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	for _, msg := range m.messages {
		if msg.RecipientID == recipientID && !msg.Read {
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	recipients []uuid.UUID
}

func (r *recordingNotifier) NotifyMessage(recipientID, _, _ uuid.UUID, _ string) {
	r.recipients = append(r.recipients, recipientID)
}

func TestSend_PersistsAndNotifies(t *testing.T) {
	repo := &memMessageRepo{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, log.New(io.Discard, "", 0))

	sender, recipient := uuid.New(), uuid.New()
	m, err := svc.Send(context.Background(), sender, recipient, "  hello  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if m.Content != "hello" {
		t.Fatalf("content = %q, want trimmed", m.Content)
	}
	if len(notifier.recipients) != 1 || notifier.recipients[0] != recipient {
		t.Fatalf("recipient not notified: %v", notifier.recipients)
	}
}

func TestSend_Rejections(t *testing.T) {
	svc := NewService(&memMessageRepo{}, nil, log.New(io.Discard, "", 0))
	a, b := uuid.New(), uuid.New()

	if _, err := svc.Send(context.Background(), a, b, "   "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("err = %v, want ErrEmptyContent", err)
	}
	if _, err := svc.Send(context.Background(), a, a, "hi"); !errors.Is(err, ErrSelfMessage) {
		t.Fatalf("err = %v, want ErrSelfMessage", err)
	}
}

func TestSend_TruncatesOversizedContent(t *testing.T) {
	repo := &memMessageRepo{}
	svc := NewService(repo, nil, log.New(io.Discard, "", 0))

	m, err := svc.Send(context.Background(), uuid.New(), uuid.New(), strings.Repeat("x", maxContentLen+100))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(m.Content) != maxContentLen {
		t.Fatalf("content length = %d, want %d", len(m.Content), maxContentLen)
	}
}

func TestSend_TruncationKeepsRunesIntact(t *testing.T) {
	repo := &memMessageRepo{}
	svc := NewService(repo, nil, log.New(io.Discard, "", 0))

	// Three-byte runes do not divide the byte cap evenly, so a byte-exact
	// cut would land mid-rune.
	content := strings.Repeat("世", maxContentLen/3+10)
	m, err := svc.Send(context.Background(), uuid.New(), uuid.New(), content)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(m.Content) > maxContentLen {
		t.Fatalf("content length = %d, want <= %d", len(m.Content), maxContentLen)
	}
	if !utf8.ValidString(m.Content) {
		t.Fatalf("truncation produced invalid UTF-8")
	}
}

func TestConversation_MarksRead(t *testing.T) {
	repo := &memMessageRepo{}
	svc := NewService(repo, nil, log.New(io.Discard, "", 0))
	a, b := uuid.New(), uuid.New()

	if _, err := svc.Send(context.Background(), a, b, "one"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := svc.Send(context.Background(), a, b, "two"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	unread, err := svc.UnreadCount(context.Background(), b)
	if err != nil || unread != 2 {
		t.Fatalf("unread = %d err = %v, want 2", unread, err)
	}

	msgs, err := svc.Conversation(context.Background(), b, a, 50)
	if err != nil {
		t.Fatalf("Conversation: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}

	unread, err = svc.UnreadCount(context.Background(), b)
	if err != nil || unread != 0 {
		t.Fatalf("unread after read = %d err = %v, want 0", unread, err)
	}
}
