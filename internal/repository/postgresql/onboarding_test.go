package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
)

func TestStepRepository_CreateBatchSingleStatement(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewStepRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5, FALSE, $6), ($7, $8, $9, $10, $11, FALSE, $12)")).
		WithArgs(pgxmock.AnyArg(), "emp-1", "A", "a", 1, now, pgxmock.AnyArg(), "emp-1", "B", "b", 2, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	err := repo.CreateBatch(context.Background(), []onboarding.Step{
		{EmployeeID: "emp-1", Title: "A", Description: "a", OrderIndex: 1, CreatedAt: now},
		{EmployeeID: "emp-1", Title: "B", Description: "b", OrderIndex: 2, CreatedAt: now},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStepRepository_CountByEmployee(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewStepRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE completed)")).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"total", "completed"}).AddRow(5, 2))

	total, completed, err := repo.CountByEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 2, completed)
}

func TestStepRepository_GetForEmployeeScopesByOwner(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewStepRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND employee_id = $2")).
		WithArgs("step-1", "emp-other").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetForEmployee(context.Background(), "step-1", "emp-other")
	assert.ErrorIs(t, err, onboarding.ErrStepNotFound)
}
