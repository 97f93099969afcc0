package message

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type SendRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Subject     string `json:"subject" validate:"required,max=255"`
	Body        string `json:"body" validate:"required,max=10000"`
}

func (r *SendRequest) Validate() error {
	return validator.Struct(r)
}

type MessageResponse struct {
	ID            string  `json:"id"`
	SenderID      string  `json:"sender_id"`
	SenderName    string  `json:"sender_name,omitempty"`
	RecipientID   string  `json:"recipient_id"`
	RecipientName string  `json:"recipient_name,omitempty"`
	Subject       string  `json:"subject"`
	Body          string  `json:"body"`
	IsRead        bool    `json:"is_read"`
	ReadAt        *string `json:"read_at"`
	CreatedAt     string  `json:"created_at"`
}

func NewMessageResponse(m Message) MessageResponse {
	resp := MessageResponse{
		ID:            m.ID,
		SenderID:      m.SenderID,
		SenderName:    m.SenderName,
		RecipientID:   m.RecipientID,
		RecipientName: m.RecipientName,
		Subject:       m.Subject,
		Body:          m.Body,
		IsRead:        m.IsRead,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReadAt != nil {
		s := m.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &s
	}
	return resp
}
