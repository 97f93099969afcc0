package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

type fakeSteps struct {
	steps map[string]*onboarding.Step
	seq   int
}

func newFakeSteps() *fakeSteps {
	return &fakeSteps{steps: make(map[string]*onboarding.Step)}
}

func (f *fakeSteps) CreateBatch(ctx context.Context, steps []onboarding.Step) error {
	for _, s := range steps {
		f.seq++
		s.ID = fmt.Sprintf("step-%d", f.seq)
		stored := s
		f.steps[s.ID] = &stored
	}
	return nil
}

func (f *fakeSteps) ListByEmployee(ctx context.Context, employeeID string) ([]onboarding.Step, error) {
	var out []onboarding.Step
	for _, s := range f.steps {
		if s.EmployeeID == employeeID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeSteps) GetForEmployee(ctx context.Context, id, employeeID string) (onboarding.Step, error) {
	s, ok := f.steps[id]
	if !ok || s.EmployeeID != employeeID {
		return onboarding.Step{}, onboarding.ErrStepNotFound
	}
	return *s, nil
}

func (f *fakeSteps) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	s := f.steps[id]
	if !s.Completed {
		s.Completed = true
		s.CompletedAt = &at
	}
	return nil
}

func (f *fakeSteps) CountByEmployee(ctx context.Context, employeeID string) (int, int, error) {
	var total, completed int
	for _, s := range f.steps {
		if s.EmployeeID == employeeID {
			total++
			if s.Completed {
				completed++
			}
		}
	}
	return total, completed, nil
}

type fixture struct {
	svc       onboarding.OnboardingService
	steps     *fakeSteps
	employees *servicetest.Employees
	sink      *servicetest.Sink
	tx        *servicetest.Tx
	clock     *clock.Fixed
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	template, err := fixtures.OnboardingSteps()
	require.NoError(t, err)

	f := fixture{
		steps:     newFakeSteps(),
		employees: servicetest.NewEmployees(employee.Employee{ID: "emp-1", Name: "Ana"}, employee.Employee{ID: "emp-2", Name: "Ben"}),
		sink:      &servicetest.Sink{},
		tx:        &servicetest.Tx{},
		clock:     clock.NewFixed(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)),
	}
	f.svc = NewOnboardingService(f.tx, f.steps, f.employees, f.sink, f.clock, template)
	require.NoError(t, f.svc.SeedSteps(context.Background(), "emp-1"))
	require.NoError(t, f.svc.SeedSteps(context.Background(), "emp-2"))
	return f
}

func TestSeedSteps_FiveOrderedSteps(t *testing.T) {
	f := newFixture(t)

	steps, err := f.svc.ListSteps(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, steps, 5)
	for i, s := range steps {
		assert.Equal(t, i+1, s.Order)
		assert.False(t, s.Completed)
	}
}

func TestCompleteStep_ProgressAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	steps, err := f.svc.ListSteps(ctx, "emp-1")
	require.NoError(t, err)

	status, err := f.svc.CompleteStep(ctx, "emp-1", steps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, employee.OnboardingInProgress, status.Status)
	assert.Equal(t, 20, status.Progress)
	assert.Equal(t, 1, status.CompletedSteps)
	assert.Equal(t, 5, status.TotalSteps)

	for _, s := range steps[1:] {
		status, err = f.svc.CompleteStep(ctx, "emp-1", s.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, employee.OnboardingCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)

	emp, err := f.employees.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.OnboardingCompleted, emp.OnboardingStatus)

	notes := f.sink.For("emp-1")
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeOnboarding, notes[0].Type)
}

func TestCompleteStep_IdempotentKeepsTimestamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	steps, err := f.svc.ListSteps(ctx, "emp-1")
	require.NoError(t, err)

	_, err = f.svc.CompleteStep(ctx, "emp-1", steps[0].ID)
	require.NoError(t, err)
	first := *f.steps.steps[steps[0].ID].CompletedAt

	f.clock.Advance(time.Hour)
	status, err := f.svc.CompleteStep(ctx, "emp-1", steps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CompletedSteps)
	assert.Equal(t, first, *f.steps.steps[steps[0].ID].CompletedAt)
}

func TestCompleteStep_CompletedCountNeverDecreases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	steps, err := f.svc.ListSteps(ctx, "emp-1")
	require.NoError(t, err)

	last := 0
	for _, id := range []string{steps[2].ID, steps[2].ID, steps[0].ID, steps[4].ID, steps[0].ID} {
		status, err := f.svc.CompleteStep(ctx, "emp-1", id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, status.CompletedSteps, last)
		last = status.CompletedSteps
	}
	assert.Equal(t, 3, last)
}

func TestCompleteStep_OtherEmployeesStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	theirs, err := f.svc.ListSteps(ctx, "emp-2")
	require.NoError(t, err)

	_, err = f.svc.CompleteStep(ctx, "emp-1", theirs[0].ID)
	assert.True(t, errors.Is(err, onboarding.ErrStepNotFound))
	assert.Equal(t, 1, f.tx.Failed)
	assert.False(t, f.steps.steps[theirs[0].ID].Completed)
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.svc.GetStatus(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, employee.OnboardingPending, status.Status)
	assert.Equal(t, 0, status.Progress)
	assert.Equal(t, 5, status.TotalSteps)

	_, err = f.svc.GetStatus(ctx, "emp-404")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
