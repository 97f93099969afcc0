package invitation

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type IssueRequest struct {
	Email string    `json:"email" validate:"required,email,max=255"`
	Role  user.Role `json:"role" validate:"omitempty,oneof=employee admin"`
}

func (r *IssueRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = user.RoleEmployee
	}
	return validator.Struct(r)
}

type ListFilter struct {
	common.Pagination
	Status *Status
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil {
		switch *f.Status {
		case StatusPending, StatusUsed, StatusExpired:
		default:
			errs.Add("status", "status must be one of: pending, used, expired")
		}
	}
	return errs.OrNil()
}

type InvitationResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	Status    Status    `json:"status"`
	ExpiresAt string    `json:"expires_at"`
	UsedAt    *string   `json:"used_at,omitempty"`
	InvitedBy string    `json:"invited_by"`
	CreatedAt string    `json:"created_at"`
	// Link is only populated right after issuing.
	Link string `json:"link,omitempty"`
}

func NewInvitationResponse(inv Invitation, now time.Time) InvitationResponse {
	resp := InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    inv.Status(now),
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		InvitedBy: inv.InvitedBy,
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.UsedAt != nil {
		s := inv.UsedAt.Format(time.RFC3339)
		resp.UsedAt = &s
	}
	return resp
}

type ValidateResponse struct {
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	ExpiresAt string    `json:"expires_at"`
}
