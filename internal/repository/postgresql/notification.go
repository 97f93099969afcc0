package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, recipient_id, title, message, type, priority, is_read, read_at, related_id, related_type, created_at`

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var notifType, priority string
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Title,
		&n.Message,
		&notifType,
		&priority,
		&n.IsRead,
		&n.ReadAt,
		&n.RelatedID,
		&n.RelatedType,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Type = notification.NotificationType(notifType)
	n.Priority = notification.Priority(priority)
	return &n, nil
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

// CreateBatch inserts all notifications with a single multi-row statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const cols = 9
	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]interface{}, 0, len(notifications)*cols)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = newID()
		}

		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs,
			n.ID,
			n.RecipientID,
			n.Title,
			n.Message,
			string(n.Type),
			string(n.Priority),
			n.RelatedID,
			n.RelatedType,
			n.CreatedAt,
		)
	}

	query := `
		INSERT INTO notifications (id, recipient_id, title, message, type, priority, related_id, related_type, created_at)
		VALUES ` + strings.Join(valueStrings, ", ")

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

// ListByRecipient returns a page of the recipient's notifications, newest first
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, offset, limit int, unreadOnly bool) ([]*notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ` WHERE recipient_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + where +
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := q.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread returns the number of unread notifications for a recipient
func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`, recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// StatsByType returns per-type totals for a recipient
func (r *notificationRepository) StatsByType(ctx context.Context, recipientID string) ([]notification.TypeStats, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT type, COUNT(*), COUNT(*) FILTER (WHERE is_read = FALSE)
		FROM notifications
		WHERE recipient_id = $1
		GROUP BY type
		ORDER BY type
	`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate notifications: %w", err)
	}
	defer rows.Close()

	var stats []notification.TypeStats
	for rows.Next() {
		var s notification.TypeStats
		var notifType string
		if err := rows.Scan(&notifType, &s.Total, &s.Unread); err != nil {
			return nil, err
		}
		s.Type = notification.NotificationType(notifType)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// MarkAsRead marks one notification read; the row must belong to recipientID
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, recipientID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND recipient_id = $2
	`, id, recipientID, at)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead marks every unread notification of a recipient read
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = $2
		WHERE recipient_id = $1 AND is_read = FALSE
	`, recipientID, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a notification owned by recipientID
func (r *notificationRepository) Delete(ctx context.Context, id, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
