package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
)

func TestNotificationRepository_CreateBatch(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewNotificationRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	related := "bc-1"
	relatedType := "broadcast"

	mock.ExpectExec(regexp.QuoteMeta("($1, $2, $3, $4, $5, $6, $7, $8, $9), ($10, $11, $12, $13, $14, $15, $16, $17, $18)")).
		WithArgs(
			pgxmock.AnyArg(), "emp-1", "Hi", "msg", "broadcast", "high", &related, &relatedType, now,
			pgxmock.AnyArg(), "emp-2", "Hi", "msg", "broadcast", "high", &related, &relatedType, now,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	items := []*notification.Notification{
		{RecipientID: "emp-1", Title: "Hi", Message: "msg", Type: notification.TypeBroadcast, Priority: notification.PriorityHigh, RelatedID: &related, RelatedType: &relatedType, CreatedAt: now},
		{RecipientID: "emp-2", Title: "Hi", Message: "msg", Type: notification.TypeBroadcast, Priority: notification.PriorityHigh, RelatedID: &related, RelatedType: &relatedType, CreatedAt: now},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), items))
	assert.NotEmpty(t, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsReadScopedByRecipient(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewNotificationRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND recipient_id = $2")).
		WithArgs("n-1", "emp-intruder", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkAsRead(context.Background(), "n-1", "emp-intruder", now)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestNotificationRepository_ListByRecipientUnreadOnly(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewNotificationRepository(db)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE")).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("emp-1", 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "recipient_id", "title", "message", "type", "priority", "is_read", "read_at", "related_id", "related_type", "created_at"}).
			AddRow("n-1", "emp-1", "Task", "assigned", "task", "medium", false, (*time.Time)(nil), (*string)(nil), (*string)(nil), now))

	list, total, err := repo.ListByRecipient(context.Background(), "emp-1", 0, 20, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, notification.TypeTask, list[0].Type)
	assert.Equal(t, notification.PriorityMedium, list[0].Priority)
}
