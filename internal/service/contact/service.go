package contact

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/contact"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/email"
)

type ContactServiceImpl struct {
	mailer    email.EmailService
	recipient string
}

func NewContactService(mailer email.EmailService, recipient string) contact.ContactService {
	return &ContactServiceImpl{
		mailer:    mailer,
		recipient: recipient,
	}
}

// Submit forwards the message to the configured inbox. Delivery failures are
// logged and not reported to the sender.
func (s *ContactServiceImpl) Submit(ctx context.Context, req contact.SubmitRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if s.recipient == "" {
		slog.Warn("contact recipient not configured, dropping message", "from", req.Email)
		return nil
	}

	err := s.mailer.SendContactMessage(s.recipient, email.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		slog.Error("failed to deliver contact message", "from", req.Email, "error", err)
	}
	return nil
}
