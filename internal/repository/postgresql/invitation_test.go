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

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

var invitationCols = []string{"id", "email", "role", "token", "used", "used_at", "expires_at", "invited_by", "created_at"}

func TestInvitationRepository_MarkUsed(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvitationRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE token = $1 AND used = FALSE AND expires_at > $2")).
		WithArgs("tok", now).
		WillReturnRows(pgxmock.NewRows(invitationCols).
			AddRow("inv-1", "ana@example.com", user.RoleEmployee, "tok", true, &now, now.Add(time.Hour), "acc-admin", now.Add(-time.Hour)))

	inv, err := repo.MarkUsed(context.Background(), "tok", now)
	require.NoError(t, err)
	assert.True(t, inv.Used)
	require.NotNil(t, inv.UsedAt)
	assert.Equal(t, now, *inv.UsedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_MarkUsedNoQualifyingRow(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvitationRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE invitations")).
		WithArgs("tok", now).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.MarkUsed(context.Background(), "tok", now)
	assert.ErrorIs(t, err, invitation.ErrInvitationInvalid)
}

func TestInvitationRepository_ListPending(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvitationRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	pending := invitation.StatusPending

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM invitations WHERE used = FALSE AND expires_at > $1")).
		WithArgs(now).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(now, 20, 0).
		WillReturnRows(pgxmock.NewRows(invitationCols).
			AddRow("inv-1", "ana@example.com", user.RoleEmployee, "tok", false, (*time.Time)(nil), now.Add(time.Hour), "acc-admin", now))

	list, total, err := repo.List(context.Background(), invitation.ListFilter{Pagination: common.Pagination{}, Status: &pending}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].UsedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_DeleteExpired(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvitationRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM invitations WHERE used = FALSE AND expires_at <= $1")).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
