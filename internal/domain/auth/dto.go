package auth

import (
	"strings"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Token      *string `json:"token" validate:"omitempty,max=128"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	if r.Token != nil && strings.TrimSpace(*r.Token) == "" {
		r.Token = nil
	}
	return validator.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r)
}

// TokenResponse is identical for registration and login.
type TokenResponse struct {
	AccessToken string                    `json:"access_token"`
	TokenType   string                    `json:"token_type"`
	ExpiresAt   int64                     `json:"expires_at"`
	User        user.AccountResponse      `json:"user"`
	Employee    employee.EmployeeResponse `json:"employee"`
}

type MeResponse struct {
	User     user.AccountResponse      `json:"user"`
	Employee employee.EmployeeResponse `json:"employee"`
}
