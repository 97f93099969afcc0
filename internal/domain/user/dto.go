package user

import "time"

// AccountResponse represents account data in API responses
type AccountResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsActive   bool   `json:"is_active"`
	EmployeeID string `json:"employee_id,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func NewAccountResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Email:      a.Email,
		Role:       a.Role,
		IsActive:   a.IsActive,
		EmployeeID: a.EmployeeID,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
