package notification

import (
	"context"
	"time"
)

// Repository defines the notification repository interface. Every mutation is
// scoped by recipient.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	ListByRecipient(ctx context.Context, recipientID string, offset, limit int, unreadOnly bool) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	StatsByType(ctx context.Context, recipientID string) ([]TypeStats, error)
	MarkAsRead(ctx context.Context, id, recipientID string, at time.Time) error
	MarkAllAsRead(ctx context.Context, recipientID string, at time.Time) (int64, error)
	Delete(ctx context.Context, id, recipientID string) error
}
