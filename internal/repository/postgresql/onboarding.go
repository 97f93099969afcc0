package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type stepRepositoryImpl struct {
	db *database.DB
}

func NewStepRepository(db *database.DB) onboarding.StepRepository {
	return &stepRepositoryImpl{db: db}
}

const stepColumns = `id, employee_id, title, description, order_index, completed, completed_at, created_at`

func scanStep(row pgx.Row) (onboarding.Step, error) {
	var s onboarding.Step
	err := row.Scan(&s.ID, &s.EmployeeID, &s.Title, &s.Description, &s.OrderIndex, &s.Completed, &s.CompletedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return onboarding.Step{}, onboarding.ErrStepNotFound
		}
		return onboarding.Step{}, err
	}
	return s, nil
}

// CreateBatch implements onboarding.StepRepository.
func (r *stepRepositoryImpl) CreateBatch(ctx context.Context, steps []onboarding.Step) error {
	if len(steps) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	values := make([]string, 0, len(steps))
	args := make([]interface{}, 0, len(steps)*6)
	for i, s := range steps {
		if s.ID == "" {
			s.ID = newID()
		}
		n := i * 6
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, FALSE, $%d)", n+1, n+2, n+3, n+4, n+5, n+6))
		args = append(args, s.ID, s.EmployeeID, s.Title, s.Description, s.OrderIndex, s.CreatedAt)
	}

	query := `INSERT INTO onboarding_steps (id, employee_id, title, description, order_index, completed, created_at) VALUES ` +
		strings.Join(values, ", ")
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create onboarding steps: %w", err)
	}
	return nil
}

// ListByEmployee implements onboarding.StepRepository.
func (r *stepRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]onboarding.Step, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+stepColumns+` FROM onboarding_steps WHERE employee_id = $1 ORDER BY order_index`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list onboarding steps: %w", err)
	}
	defer rows.Close()

	var steps []onboarding.Step
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// GetForEmployee implements onboarding.StepRepository.
func (r *stepRepositoryImpl) GetForEmployee(ctx context.Context, id, employeeID string) (onboarding.Step, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRow(ctx, `SELECT `+stepColumns+` FROM onboarding_steps WHERE id = $1 AND employee_id = $2`, id, employeeID)
	return scanStep(row)
}

// MarkCompleted implements onboarding.StepRepository. Already completed steps
// keep their original timestamp.
func (r *stepRepositoryImpl) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE onboarding_steps
		SET completed = TRUE, completed_at = $2
		WHERE id = $1 AND completed = FALSE
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to complete onboarding step: %w", err)
	}
	return nil
}

// CountByEmployee implements onboarding.StepRepository.
func (r *stepRepositoryImpl) CountByEmployee(ctx context.Context, employeeID string) (int, int, error) {
	q := GetQuerier(ctx, r.db)

	var total, completed int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM onboarding_steps
		WHERE employee_id = $1
	`, employeeID).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count onboarding steps: %w", err)
	}
	return total, completed, nil
}
