package broadcast

import (
	"context"
	"time"
)

type BroadcastRepository interface {
	Create(ctx context.Context, b Broadcast) (Broadcast, error)
	AddRecipients(ctx context.Context, broadcastID string, employeeIDs []string) error
	AddAttachment(ctx context.Context, a Attachment) (Attachment, error)
	GetByID(ctx context.Context, id string) (Broadcast, error)
	ListForRecipient(ctx context.Context, employeeID string, unreadOnly bool, offset, limit int) ([]Received, int64, error)
	MarkAllRead(ctx context.Context, employeeID string, at time.Time) (int64, error)
	MarkRead(ctx context.Context, broadcastID, employeeID string, at time.Time) error
	ListBySender(ctx context.Context, senderID string, offset, limit int) ([]Broadcast, int64, error)
	Stats(ctx context.Context, id string) (Stats, error)
	Delete(ctx context.Context, id string) error
}
