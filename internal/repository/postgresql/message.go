package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/message"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type messageRepositoryImpl struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) message.MessageRepository {
	return &messageRepositoryImpl{db: db}
}

const messageSelect = `
		SELECT m.id, m.sender_id, m.recipient_id, m.subject, m.body, m.is_read, m.read_at, m.created_at,
			s.name, r.name
		FROM messages m
		JOIN employees s ON s.id = m.sender_id
		JOIN employees r ON r.id = m.recipient_id
`

func scanMessage(row pgx.Row) (message.Message, error) {
	var m message.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &m.IsRead, &m.ReadAt, &m.CreatedAt,
		&m.SenderName, &m.RecipientName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return message.Message{}, message.ErrMessageNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

// Create implements message.MessageRepository.
func (r *messageRepositoryImpl) Create(ctx context.Context, m message.Message) (message.Message, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = newID()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.SenderID, m.RecipientID, m.Subject, m.Body, m.CreatedAt)
	if err != nil {
		return message.Message{}, translatePgError(fmt.Errorf("failed to create message: %w", err), nil, message.ErrRecipientNotFound)
	}
	return m, nil
}

// GetByID implements message.MessageRepository.
func (r *messageRepositoryImpl) GetByID(ctx context.Context, id string) (message.Message, error) {
	q := GetQuerier(ctx, r.db)
	return scanMessage(q.QueryRow(ctx, messageSelect+` WHERE m.id = $1`, id))
}

func (r *messageRepositoryImpl) list(ctx context.Context, column, employeeID string, offset, limit int) ([]message.Message, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM messages m WHERE m.`+column+` = $1`, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	rows, err := q.Query(ctx, messageSelect+` WHERE m.`+column+` = $1 ORDER BY m.created_at DESC LIMIT $2 OFFSET $3`,
		employeeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []message.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// ListInbox implements message.MessageRepository.
func (r *messageRepositoryImpl) ListInbox(ctx context.Context, recipientID string, offset, limit int) ([]message.Message, int64, error) {
	return r.list(ctx, "recipient_id", recipientID, offset, limit)
}

// ListSent implements message.MessageRepository.
func (r *messageRepositoryImpl) ListSent(ctx context.Context, senderID string, offset, limit int) ([]message.Message, int64, error) {
	return r.list(ctx, "sender_id", senderID, offset, limit)
}

// MarkRead implements message.MessageRepository.
func (r *messageRepositoryImpl) MarkRead(ctx context.Context, id, recipientID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE messages SET is_read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND recipient_id = $2
	`, id, recipientID, at)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return message.ErrMessageNotFound
	}
	return nil
}

// Delete implements message.MessageRepository.
func (r *messageRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return message.ErrMessageNotFound
	}
	return nil
}
