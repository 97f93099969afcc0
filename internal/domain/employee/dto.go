package employee

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

// UpdateMeRequest carries the self-service profile fields. Start date is not
// part of it and can never be changed after registration.
type UpdateMeRequest struct {
	Name                  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone                 *string `json:"phone" validate:"omitempty,max=30"`
	Address               *string `json:"address" validate:"omitempty,max=500"`
	EmergencyContactName  *string `json:"emergency_contact_name" validate:"omitempty,max=100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" validate:"omitempty,max=30"`
}

func (r *UpdateMeRequest) Validate() error {
	return validator.Struct(r)
}

type AdminUpdateRequest struct {
	Department       *string           `json:"department" validate:"omitempty,max=100"`
	Position         *string           `json:"position" validate:"omitempty,max=100"`
	OnboardingStatus *OnboardingStatus `json:"onboarding_status" validate:"omitempty,oneof=pending in-progress completed rejected"`
}

func (r *AdminUpdateRequest) Validate() error {
	return validator.Struct(r)
}

type EmployeeFilter struct {
	common.Pagination
	Department *string
	Status     *OnboardingStatus
	Search     *string
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !f.Status.Valid() {
		errs.Add("status", "status must be one of: pending, in-progress, completed, rejected")
	}
	return errs.OrNil()
}

type EmployeeResponse struct {
	ID                    string           `json:"id"`
	AccountID             string           `json:"account_id"`
	Name                  string           `json:"name"`
	Email                 string           `json:"email"`
	Role                  string           `json:"role,omitempty"`
	Department            *string          `json:"department"`
	Position              *string          `json:"position"`
	StartDate             string           `json:"start_date"`
	OnboardingStatus      OnboardingStatus `json:"onboarding_status"`
	Phone                 *string          `json:"phone"`
	Address               *string          `json:"address"`
	EmergencyContactName  *string          `json:"emergency_contact_name"`
	EmergencyContactPhone *string          `json:"emergency_contact_phone"`
	AvatarURL             *string          `json:"avatar_url"`
	IsActive              bool             `json:"is_active"`
	CreatedAt             string           `json:"created_at"`
}

func NewEmployeeResponse(e Employee, avatarURL *string) EmployeeResponse {
	return EmployeeResponse{
		ID:                    e.ID,
		AccountID:             e.AccountID,
		Name:                  e.Name,
		Email:                 e.Email,
		Role:                  e.Role,
		Department:            e.Department,
		Position:              e.Position,
		StartDate:             e.StartDate.Format("2006-01-02"),
		OnboardingStatus:      e.OnboardingStatus,
		Phone:                 e.Phone,
		Address:               e.Address,
		EmergencyContactName:  e.EmergencyContactName,
		EmergencyContactPhone: e.EmergencyContactPhone,
		AvatarURL:             avatarURL,
		IsActive:              e.IsActive,
		CreatedAt:             e.CreatedAt.Format(time.RFC3339),
	}
}
