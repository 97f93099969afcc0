package message

import "time"

// Message is a direct note between two employees.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Subject     string
	Body        string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time

	// Join
	SenderName    string
	RecipientName string
}
