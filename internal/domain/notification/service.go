package notification

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
)

// Sink is what other components use to emit notifications.
type Sink interface {
	Create(ctx context.Context, req CreateNotificationRequest) (*Notification, error)
	CreateBulk(ctx context.Context, reqs []CreateNotificationRequest) ([]*Notification, error)
}

// Service defines the notification service interface
type Service interface {
	Sink

	GetNotifications(ctx context.Context, recipientID string, page common.Pagination, unreadOnly bool) ([]NotificationResponse, common.PageInfo, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	GetStats(ctx context.Context, recipientID string) (StatsResponse, error)
	MarkAsRead(ctx context.Context, recipientID, notificationID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, recipientID, notificationID string) error

	// SSE subscription
	Subscribe(ctx context.Context, recipientID string) (<-chan SSEEvent, func())
}
