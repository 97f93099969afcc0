package onboarding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type OnboardingServiceImpl struct {
	tx        database.Transactor
	steps     onboarding.StepRepository
	employees employee.EmployeeRepository
	notifier  notification.Sink
	clock     clock.Clock
	template  []onboarding.StepTemplate
}

func NewOnboardingService(
	tx database.Transactor,
	stepRepository onboarding.StepRepository,
	employeeRepository employee.EmployeeRepository,
	notifier notification.Sink,
	clk clock.Clock,
	template []onboarding.StepTemplate,
) onboarding.OnboardingService {
	return &OnboardingServiceImpl{
		tx:        tx,
		steps:     stepRepository,
		employees: employeeRepository,
		notifier:  notifier,
		clock:     clk,
		template:  template,
	}
}

// SeedSteps implements onboarding.OnboardingService.
func (s *OnboardingServiceImpl) SeedSteps(ctx context.Context, employeeID string) error {
	now := s.clock.Now()
	steps := make([]onboarding.Step, 0, len(s.template))
	for _, t := range s.template {
		steps = append(steps, onboarding.Step{
			EmployeeID:  employeeID,
			Title:       t.Title,
			Description: t.Description,
			OrderIndex:  t.Order,
			CreatedAt:   now,
		})
	}
	return s.steps.CreateBatch(ctx, steps)
}

// ListSteps implements onboarding.OnboardingService.
func (s *OnboardingServiceImpl) ListSteps(ctx context.Context, employeeID string) ([]onboarding.StepResponse, error) {
	steps, err := s.steps.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resp := make([]onboarding.StepResponse, len(steps))
	for i, step := range steps {
		resp[i] = onboarding.NewStepResponse(step)
	}
	return resp, nil
}

// CompleteStep implements onboarding.OnboardingService. Completing an already
// completed step changes nothing.
func (s *OnboardingServiceImpl) CompleteStep(ctx context.Context, employeeID, stepID string) (onboarding.StatusResponse, error) {
	var (
		status         onboarding.StatusResponse
		becameComplete bool
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		step, err := s.steps.GetForEmployee(txCtx, stepID, employeeID)
		if err != nil {
			return err
		}
		emp, err := s.employees.GetByID(txCtx, employeeID)
		if err != nil {
			return err
		}

		if !step.Completed {
			if err := s.steps.MarkCompleted(txCtx, step.ID, s.clock.Now()); err != nil {
				return fmt.Errorf("failed to complete step: %w", err)
			}
		}

		total, completed, err := s.steps.CountByEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}
		next := onboarding.DeriveStatus(completed, total)
		if next != emp.OnboardingStatus {
			if err := s.employees.UpdateOnboardingStatus(txCtx, employeeID, next); err != nil {
				return fmt.Errorf("failed to update onboarding status: %w", err)
			}
		}
		becameComplete = next == employee.OnboardingCompleted && emp.OnboardingStatus != employee.OnboardingCompleted

		status = onboarding.StatusResponse{
			Status:         next,
			Progress:       onboarding.Progress(completed, total),
			TotalSteps:     total,
			CompletedSteps: completed,
		}
		return nil
	})
	if err != nil {
		return onboarding.StatusResponse{}, err
	}

	if becameComplete {
		_, err := s.notifier.Create(ctx, notification.CreateNotificationRequest{
			RecipientID: employeeID,
			Title:       "Onboarding complete",
			Message:     "You have completed every onboarding step. Welcome aboard!",
			Type:        notification.TypeOnboarding,
			Priority:    notification.PriorityMedium,
		})
		if err != nil {
			slog.Error("failed to notify onboarding completion", "employee_id", employeeID, "error", err)
		}
	}

	return status, nil
}

// GetStatus implements onboarding.OnboardingService.
func (s *OnboardingServiceImpl) GetStatus(ctx context.Context, employeeID string) (onboarding.StatusResponse, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return onboarding.StatusResponse{}, err
	}
	total, completed, err := s.steps.CountByEmployee(ctx, employeeID)
	if err != nil {
		return onboarding.StatusResponse{}, err
	}
	return onboarding.StatusResponse{
		Status:         emp.OnboardingStatus,
		Progress:       onboarding.Progress(completed, total),
		TotalSteps:     total,
		CompletedSteps: completed,
	}, nil
}
