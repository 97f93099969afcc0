package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/mentorship"
)

func TestMentorshipRepository_CreateWithGoals(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMentorshipRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mentorships")).
		WithArgs(pgxmock.AnyArg(), "emp-mentor", "emp-mentee", "acc-admin", mentorship.StatusActive, now, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mentorship_goals")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "Ship first PR", false, (*time.Time)(nil), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	m, err := repo.Create(context.Background(), mentorship.Mentorship{
		MentorID:   "emp-mentor",
		MenteeID:   "emp-mentee",
		AssignedBy: "acc-admin",
		StartDate:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
		Goals:      []mentorship.Goal{{Title: "Ship first PR", CreatedAt: now}},
	})
	require.NoError(t, err)
	require.Len(t, m.Goals, 1)
	assert.Equal(t, m.ID, m.Goals[0].MentorshipID)
	assert.NotEmpty(t, m.Goals[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorshipRepository_CreateActiveMenteeConflict(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMentorshipRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mentorships")).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "mentorships_active_mentee_key"})

	_, err := repo.Create(context.Background(), mentorship.Mentorship{MentorID: "a", MenteeID: "b"})
	assert.ErrorIs(t, err, mentorship.ErrMenteeAlreadyMentored)
}

func TestMentorshipRepository_UpdateStatusReactivationConflict(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMentorshipRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE mentorships SET status")).
		WithArgs("m-1", mentorship.StatusActive, (*time.Time)(nil), now).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err := repo.UpdateStatus(context.Background(), "m-1", mentorship.StatusActive, nil, now)
	assert.ErrorIs(t, err, mentorship.ErrMenteeAlreadyMentored)
}
