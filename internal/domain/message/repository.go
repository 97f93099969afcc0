package message

import (
	"context"
	"time"
)

type MessageRepository interface {
	Create(ctx context.Context, m Message) (Message, error)
	GetByID(ctx context.Context, id string) (Message, error)
	ListInbox(ctx context.Context, recipientID string, offset, limit int) ([]Message, int64, error)
	ListSent(ctx context.Context, senderID string, offset, limit int) ([]Message, int64, error)
	// MarkRead is scoped by recipient.
	MarkRead(ctx context.Context, id, recipientID string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
