package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/broadcast"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type broadcastRepositoryImpl struct {
	db *database.DB
}

func NewBroadcastRepository(db *database.DB) broadcast.BroadcastRepository {
	return &broadcastRepositoryImpl{db: db}
}

const broadcastColumns = `b.id, b.title, b.message, b.sender_id, b.type, b.priority, b.created_at`

func scanBroadcast(row pgx.Row, extra ...interface{}) (broadcast.Broadcast, error) {
	var b broadcast.Broadcast
	dest := append([]interface{}{&b.ID, &b.Title, &b.Message, &b.SenderID, &b.Type, &b.Priority, &b.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return broadcast.Broadcast{}, broadcast.ErrBroadcastNotFound
		}
		return broadcast.Broadcast{}, err
	}
	return b, nil
}

// Create implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) Create(ctx context.Context, b broadcast.Broadcast) (broadcast.Broadcast, error) {
	q := GetQuerier(ctx, r.db)

	if b.ID == "" {
		b.ID = newID()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO broadcasts (id, title, message, sender_id, type, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.Title, b.Message, b.SenderID, b.Type, b.Priority, b.CreatedAt)
	if err != nil {
		return broadcast.Broadcast{}, fmt.Errorf("failed to create broadcast: %w", err)
	}
	return b, nil
}

// AddRecipients implements broadcast.BroadcastRepository. All rows are written
// by one statement.
func (r *broadcastRepositoryImpl) AddRecipients(ctx context.Context, broadcastID string, employeeIDs []string) error {
	if len(employeeIDs) == 0 {
		return broadcast.ErrNoRecipients
	}
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO broadcast_recipients (broadcast_id, employee_id)
		SELECT $1, recipient::uuid FROM unnest($2::text[]) AS recipient
		ON CONFLICT DO NOTHING
	`, broadcastID, employeeIDs)
	if err != nil {
		return translatePgError(fmt.Errorf("failed to add broadcast recipients: %w", err), nil, broadcast.ErrRecipientNotFound)
	}
	return nil
}

// AddAttachment implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) AddAttachment(ctx context.Context, a broadcast.Attachment) (broadcast.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = newID()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO broadcast_attachments (id, broadcast_id, file_name, file_path)
		VALUES ($1, $2, $3, $4)
	`, a.ID, a.BroadcastID, a.FileName, a.FilePath)
	if err != nil {
		return broadcast.Attachment{}, fmt.Errorf("failed to add broadcast attachment: %w", err)
	}
	return a, nil
}

func (r *broadcastRepositoryImpl) attachmentsFor(ctx context.Context, ids []string) (map[string][]broadcast.Attachment, error) {
	result := make(map[string][]broadcast.Attachment)
	if len(ids) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, broadcast_id, file_name, file_path
		FROM broadcast_attachments WHERE broadcast_id::text = ANY($1)
		ORDER BY file_name
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list broadcast attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a broadcast.Attachment
		if err := rows.Scan(&a.ID, &a.BroadcastID, &a.FileName, &a.FilePath); err != nil {
			return nil, err
		}
		result[a.BroadcastID] = append(result[a.BroadcastID], a)
	}
	return result, rows.Err()
}

// GetByID implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) GetByID(ctx context.Context, id string) (broadcast.Broadcast, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBroadcast(q.QueryRow(ctx, `SELECT `+broadcastColumns+` FROM broadcasts b WHERE b.id = $1`, id))
	if err != nil {
		return broadcast.Broadcast{}, err
	}

	rows, err := q.Query(ctx, `
		SELECT broadcast_id, employee_id, is_read, read_at
		FROM broadcast_recipients WHERE broadcast_id = $1
	`, id)
	if err != nil {
		return broadcast.Broadcast{}, fmt.Errorf("failed to list broadcast recipients: %w", err)
	}
	b.Recipients, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (broadcast.Recipient, error) {
		var rc broadcast.Recipient
		err := row.Scan(&rc.BroadcastID, &rc.EmployeeID, &rc.IsRead, &rc.ReadAt)
		return rc, err
	})
	if err != nil {
		return broadcast.Broadcast{}, fmt.Errorf("failed to scan broadcast recipients: %w", err)
	}

	attachments, err := r.attachmentsFor(ctx, []string{b.ID})
	if err != nil {
		return broadcast.Broadcast{}, err
	}
	b.Attachments = attachments[b.ID]
	return b, nil
}

// ListForRecipient implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) ListForRecipient(ctx context.Context, employeeID string, unreadOnly bool, offset, limit int) ([]broadcast.Received, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ` WHERE br.employee_id = $1`
	if unreadOnly {
		where += ` AND br.is_read = FALSE`
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM broadcast_recipients br`+where, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count broadcasts: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT `+broadcastColumns+`, br.is_read, br.read_at
		FROM broadcast_recipients br
		JOIN broadcasts b ON b.id = br.broadcast_id`+where+`
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`, employeeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list broadcasts: %w", err)
	}

	var received []broadcast.Received
	var ids []string
	for rows.Next() {
		var item broadcast.Received
		b, err := scanBroadcast(rows, &item.IsRead, &item.ReadAt)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		item.Broadcast = b
		received = append(received, item)
		ids = append(ids, b.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	attachments, err := r.attachmentsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range received {
		received[i].Attachments = attachments[received[i].ID]
	}
	return received, total, nil
}

// MarkAllRead implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) MarkAllRead(ctx context.Context, employeeID string, at time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE broadcast_recipients SET is_read = TRUE, read_at = $2
		WHERE employee_id = $1 AND is_read = FALSE
	`, employeeID, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark broadcasts read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkRead implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) MarkRead(ctx context.Context, broadcastID, employeeID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE broadcast_recipients SET is_read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE broadcast_id = $1 AND employee_id = $2
	`, broadcastID, employeeID, at)
	if err != nil {
		return fmt.Errorf("failed to mark broadcast read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return broadcast.ErrBroadcastNotFound
	}
	return nil
}

// ListBySender implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) ListBySender(ctx context.Context, senderID string, offset, limit int) ([]broadcast.Broadcast, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM broadcasts WHERE sender_id = $1`, senderID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sent broadcasts: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT `+broadcastColumns+`
		FROM broadcasts b
		WHERE b.sender_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`, senderID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sent broadcasts: %w", err)
	}
	defer rows.Close()

	var list []broadcast.Broadcast
	for rows.Next() {
		b, err := scanBroadcast(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Stats implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) Stats(ctx context.Context, id string) (broadcast.Stats, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM broadcasts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return broadcast.Stats{}, fmt.Errorf("failed to load broadcast: %w", err)
	}
	if !exists {
		return broadcast.Stats{}, broadcast.ErrBroadcastNotFound
	}

	var s broadcast.Stats
	err := q.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_read)
		FROM broadcast_recipients WHERE broadcast_id = $1
	`, id).Scan(&s.TotalRecipients, &s.ReadCount)
	if err != nil {
		return broadcast.Stats{}, fmt.Errorf("failed to aggregate broadcast stats: %w", err)
	}
	return s, nil
}

// Delete implements broadcast.BroadcastRepository.
func (r *broadcastRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM broadcasts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete broadcast: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return broadcast.ErrBroadcastNotFound
	}
	return nil
}
