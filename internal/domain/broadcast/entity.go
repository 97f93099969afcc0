package broadcast

import (
	"time"
	"unicode/utf8"
)

type Type string

const (
	TypeAnnouncement Type = "announcement"
	TypePolicy       Type = "policy"
	TypeEvent        Type = "event"
	TypeUrgent       Type = "urgent"
	TypeGeneral      Type = "general"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Broadcast struct {
	ID          string
	Title       string
	Message     string
	SenderID    string // account id
	Type        Type
	Priority    Priority
	CreatedAt   time.Time
	Recipients  []Recipient
	Attachments []Attachment
}

// Recipient carries per-employee read state, keyed by (broadcast id, employee id).
type Recipient struct {
	BroadcastID string
	EmployeeID  string
	IsRead      bool
	ReadAt      *time.Time
}

type Attachment struct {
	ID          string
	BroadcastID string
	FileName    string
	FilePath    string
}

// Received is a broadcast as seen by one recipient.
type Received struct {
	Broadcast
	IsRead bool
	ReadAt *time.Time
}

type Stats struct {
	TotalRecipients int `json:"total_recipients"`
	ReadCount       int `json:"read_count"`
}

const previewLength = 100

// Preview truncates a message to 100 characters for notification bodies.
func Preview(message string) string {
	if utf8.RuneCountInString(message) <= previewLength {
		return message
	}
	runes := []rune(message)
	return string(runes[:previewLength]) + "..."
}
