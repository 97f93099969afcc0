package notification

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	RecipientID string           `validate:"required"`
	Title       string           `validate:"required,max=255"`
	Message     string           `validate:"required"`
	Type        NotificationType `validate:"required,oneof=task leave meeting mentorship broadcast document onboarding message system"`
	Priority    Priority         `validate:"omitempty,oneof=low medium high"`
	RelatedID   *string
	RelatedType *string
}

func (r *CreateNotificationRequest) Validate() error {
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	return validator.Struct(r)
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Priority    Priority         `json:"priority"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	RelatedID   *string          `json:"related_id,omitempty"`
	RelatedType *string          `json:"related_type,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func NewNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Priority:    n.Priority,
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		RelatedID:   n.RelatedID,
		RelatedType: n.RelatedType,
		CreatedAt:   n.CreatedAt,
	}
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type StatsResponse struct {
	Total  int         `json:"total"`
	Unread int         `json:"unread"`
	ByType []TypeStats `json:"by_type"`
}

// SSETokenResponse represents the SSE token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// SSEEvent is pushed to live subscribers
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
