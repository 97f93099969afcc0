package onboarding

import (
	"context"
	"time"
)

type StepRepository interface {
	CreateBatch(ctx context.Context, steps []Step) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Step, error)
	// GetForEmployee returns ErrStepNotFound when the step belongs to someone else.
	GetForEmployee(ctx context.Context, id, employeeID string) (Step, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) error
	CountByEmployee(ctx context.Context, employeeID string) (total int, completed int, err error)
}
