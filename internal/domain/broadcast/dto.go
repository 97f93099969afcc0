package broadcast

import (
	"io"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type FileUpload struct {
	File     io.Reader
	Filename string
	Size     int64
}

type SendRequest struct {
	Title      string   `json:"title" validate:"required,max=255"`
	Message    string   `json:"message" validate:"required,max=10000"`
	Type       Type     `json:"type" validate:"omitempty,oneof=announcement policy event urgent general"`
	Priority   Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Recipients []string `json:"recipients" validate:"omitempty,dive,uuid"`
	SendToAll  bool     `json:"send_to_all"`

	Attachments []FileUpload `json:"-"`
}

func (r *SendRequest) Validate() error {
	if r.Type == "" {
		r.Type = TypeGeneral
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if !r.SendToAll && len(r.Recipients) == 0 {
		errs.Add("recipients", "recipients is required unless send_to_all is set")
	}
	return errs.OrNil()
}

type AttachmentResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

type BroadcastResponse struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	SenderID       string               `json:"sender_id"`
	Type           Type                 `json:"type"`
	Priority       Priority             `json:"priority"`
	RecipientCount int                  `json:"recipient_count"`
	Attachments    []AttachmentResponse `json:"attachments"`
	CreatedAt      string               `json:"created_at"`
}

func NewBroadcastResponse(b Broadcast, urlFor func(string) string) BroadcastResponse {
	resp := BroadcastResponse{
		ID:             b.ID,
		Title:          b.Title,
		Message:        b.Message,
		SenderID:       b.SenderID,
		Type:           b.Type,
		Priority:       b.Priority,
		RecipientCount: len(b.Recipients),
		Attachments:    make([]AttachmentResponse, 0, len(b.Attachments)),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	for _, a := range b.Attachments {
		url := a.FilePath
		if urlFor != nil {
			url = urlFor(a.FilePath)
		}
		resp.Attachments = append(resp.Attachments, AttachmentResponse{ID: a.ID, FileName: a.FileName, URL: url})
	}
	return resp
}

type ReceivedResponse struct {
	BroadcastResponse
	IsRead bool    `json:"is_read"`
	ReadAt *string `json:"read_at"`
}

func NewReceivedResponse(r Received, urlFor func(string) string) ReceivedResponse {
	resp := ReceivedResponse{
		BroadcastResponse: NewBroadcastResponse(r.Broadcast, urlFor),
		IsRead:            r.IsRead,
	}
	if r.ReadAt != nil {
		s := r.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &s
	}
	return resp
}
