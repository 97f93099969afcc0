package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByAccountID(ctx context.Context, accountID string) (Employee, error)
	// GetByIDs returns the subset of ids that exist.
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	// ListAdminIDs returns profile ids of active admin accounts.
	ListAdminIDs(ctx context.Context) ([]string, error)
	UpdateProfile(ctx context.Context, id string, req UpdateMeRequest) error
	UpdateByAdmin(ctx context.Context, id string, req AdminUpdateRequest) error
	UpdateOnboardingStatus(ctx context.Context, id string, status OnboardingStatus) error
	UpdateAvatar(ctx context.Context, id string, path string) error
}
