package repository

import (
	"context"
	"time"

	"internmatch/internal/database"

	"github.com/google/uuid"
)

type Message struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Content     string
	Read        bool
	CreatedAt   time.Time
}

type MessageRepository interface {
	Insert(ctx context.Context, senderID, recipientID uuid.UUID, content string) (Message, error)
	Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]Message, error)
	MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Insert(ctx context.Context, senderID, recipientID uuid.UUID, content string) (Message, error) {
	var m Message
	err := r.db.QueryRow(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, sender_id, recipient_id, content, read, created_at`,
		uuid.New(), senderID, recipientID, content,
	).Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Read, &m.CreatedAt)
	if err != nil {
		return Message{}, classify(err)
	}
	return m, nil
}

func (r *PostgresMessageRepository) Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, sender_id, recipient_id, content, read, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		 ORDER BY created_at DESC
		 LIMIT $3`,
		a, b, limit,
	)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, classify(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) (int64, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE messages SET read = true WHERE recipient_id = $1 AND sender_id = $2 AND NOT read`,
		recipientID, senderID,
	)
	if err != nil {
		return 0, classify(err)
	}
	return affected, nil
}

func (r *PostgresMessageRepository) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM messages WHERE recipient_id = $1 AND NOT read`,
		recipientID,
	).Scan(&n)
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}
