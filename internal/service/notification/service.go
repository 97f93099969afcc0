package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/sse"
)

const eventNotification = "notification"

type service struct {
	repo  notification.Repository
	hub   *sse.Hub
	clock clock.Clock
}

// NewNotificationService creates the notification sink. Persisted
// notifications are pushed to the recipient's live streams on hub.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, clk clock.Clock) notification.Service {
	return &service{
		repo:  repo,
		hub:   hub,
		clock: clk,
	}
}

func (s *service) build(req notification.CreateNotificationRequest) (*notification.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &notification.Notification{
		RecipientID: req.RecipientID,
		Title:       req.Title,
		Message:     req.Message,
		Type:        req.Type,
		Priority:    req.Priority,
		RelatedID:   req.RelatedID,
		RelatedType: req.RelatedType,
		CreatedAt:   s.clock.Now(),
	}, nil
}

// Create persists a single notification and pushes it to live subscribers
func (s *service) Create(ctx context.Context, req notification.CreateNotificationRequest) (*notification.Notification, error) {
	created, err := s.CreateBulk(ctx, []notification.CreateNotificationRequest{req})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// CreateBulk persists all notifications with one insert. Either all are
// stored or none.
func (s *service) CreateBulk(ctx context.Context, reqs []notification.CreateNotificationRequest) ([]*notification.Notification, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	items := make([]*notification.Notification, 0, len(reqs))
	for _, req := range reqs {
		n, err := s.build(req)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to store notifications: %w", err)
	}

	for _, n := range items {
		s.hub.Publish(n.RecipientID, sse.Event{
			Event: eventNotification,
			Data:  notification.NewNotificationResponse(n),
		})
	}
	slog.Debug("notifications created", "count", len(items))

	return items, nil
}

// GetNotifications retrieves a page of the recipient's notifications
func (s *service) GetNotifications(ctx context.Context, recipientID string, page common.Pagination, unreadOnly bool) ([]notification.NotificationResponse, common.PageInfo, error) {
	page = page.Normalize()

	items, total, err := s.repo.ListByRecipient(ctx, recipientID, page.Offset(), page.Limit, unreadOnly)
	if err != nil {
		return nil, common.PageInfo{}, err
	}

	responses := make([]notification.NotificationResponse, len(items))
	for i, n := range items {
		responses[i] = notification.NewNotificationResponse(n)
	}
	return responses, common.NewPageInfo(page, total), nil
}

func (s *service) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// GetStats returns totals and the per-type breakdown
func (s *service) GetStats(ctx context.Context, recipientID string) (notification.StatsResponse, error) {
	byType, err := s.repo.StatsByType(ctx, recipientID)
	if err != nil {
		return notification.StatsResponse{}, err
	}

	stats := notification.StatsResponse{ByType: byType}
	if stats.ByType == nil {
		stats.ByType = []notification.TypeStats{}
	}
	for _, t := range byType {
		stats.Total += t.Total
		stats.Unread += t.Unread
	}
	return stats, nil
}

func (s *service) MarkAsRead(ctx context.Context, recipientID, notificationID string) error {
	return s.repo.MarkAsRead(ctx, notificationID, recipientID, s.clock.Now())
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, recipientID, s.clock.Now())
}

func (s *service) Delete(ctx context.Context, recipientID, notificationID string) error {
	return s.repo.Delete(ctx, notificationID, recipientID)
}

// Subscribe creates an SSE subscription for an employee
func (s *service) Subscribe(ctx context.Context, recipientID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(recipientID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}
