package notification

import (
	"time"
)

// NotificationType names the component that produced the notification
type NotificationType string

const (
	TypeTask       NotificationType = "task"
	TypeLeave      NotificationType = "leave"
	TypeMeeting    NotificationType = "meeting"
	TypeMentorship NotificationType = "mentorship"
	TypeBroadcast  NotificationType = "broadcast"
	TypeDocument   NotificationType = "document"
	TypeOnboarding NotificationType = "onboarding"
	TypeMessage    NotificationType = "message"
	TypeSystem     NotificationType = "system"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeTask,
		TypeLeave,
		TypeMeeting,
		TypeMentorship,
		TypeBroadcast,
		TypeDocument,
		TypeOnboarding,
		TypeMessage,
		TypeSystem,
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification is an in-app message addressed to one employee profile
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	Type        NotificationType
	Priority    Priority
	IsRead      bool
	ReadAt      *time.Time
	RelatedID   *string
	RelatedType *string
	CreatedAt   time.Time
}

// TypeStats is the per-type breakdown returned by StatsByType
type TypeStats struct {
	Type   NotificationType `json:"type"`
	Total  int              `json:"total"`
	Unread int              `json:"unread"`
}
