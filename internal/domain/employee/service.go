package employee

import (
	"context"
	"io"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
)

// EmployeeService defines business logic for employee profiles
type EmployeeService interface {
	GetMe(ctx context.Context, employeeID string) (EmployeeResponse, error)
	UpdateMe(ctx context.Context, employeeID string, req UpdateMeRequest) (EmployeeResponse, error)
	UploadAvatar(ctx context.Context, employeeID string, file io.Reader, filename string, size int64) (EmployeeResponse, error)

	// Admin only
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, common.PageInfo, error)
	UpdateEmployee(ctx context.Context, id string, req AdminUpdateRequest) (EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id string) error
}
