package onboarding

import "context"

type OnboardingService interface {
	// SeedSteps creates the fixed checklist for a new employee.
	SeedSteps(ctx context.Context, employeeID string) error
	ListSteps(ctx context.Context, employeeID string) ([]StepResponse, error)
	CompleteStep(ctx context.Context, employeeID, stepID string) (StatusResponse, error)
	GetStatus(ctx context.Context, employeeID string) (StatusResponse, error)
}
