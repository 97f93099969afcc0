package contact

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (r *SubmitRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type ContactService interface {
	Submit(ctx context.Context, req SubmitRequest) error
}
