package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveSelect = `
		SELECT l.id, l.employee_id, l.type, l.start_date, l.end_date, l.total_days, l.reason, l.status,
			l.reviewed_by::text, l.reviewed_at, l.comments, l.created_at, e.name
		FROM leaves l
		JOIN employees e ON e.id = l.employee_id
`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(&l.ID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate, &l.TotalDays, &l.Reason, &l.Status,
		&l.ReviewedBy, &l.ReviewedAt, &l.Comments, &l.CreatedAt, &l.EmployeeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Leave{}, err
	}
	return l, nil
}

// Create implements leave.LeaveRepository. Attachments are inserted with the leave.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	if l.ID == "" {
		l.ID = newID()
	}
	if l.Status == "" {
		l.Status = leave.StatusPending
	}

	_, err := q.Exec(ctx, `
		INSERT INTO leaves (id, employee_id, type, start_date, end_date, total_days, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, l.ID, l.EmployeeID, l.Type, l.StartDate, l.EndDate, l.TotalDays, l.Reason, l.Status, l.CreatedAt)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	for i := range l.Attachments {
		a := &l.Attachments[i]
		if a.ID == "" {
			a.ID = newID()
		}
		a.LeaveID = l.ID
		_, err := q.Exec(ctx, `
			INSERT INTO leave_attachments (id, leave_id, file_name, file_path)
			VALUES ($1, $2, $3, $4)
		`, a.ID, a.LeaveID, a.FileName, a.FilePath)
		if err != nil {
			return leave.Leave{}, fmt.Errorf("failed to create leave attachment: %w", err)
		}
	}

	return l, nil
}

func (r *leaveRepositoryImpl) attachmentsFor(ctx context.Context, leaveIDs []string) (map[string][]leave.Attachment, error) {
	result := make(map[string][]leave.Attachment)
	if len(leaveIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, leave_id, file_name, file_path
		FROM leave_attachments WHERE leave_id::text = ANY($1)
		ORDER BY file_name
	`, leaveIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a leave.Attachment
		if err := rows.Scan(&a.ID, &a.LeaveID, &a.FileName, &a.FilePath); err != nil {
			return nil, err
		}
		result[a.LeaveID] = append(result[a.LeaveID], a)
	}
	return result, rows.Err()
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, leaveSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return leave.Leave{}, err
	}

	attachments, err := r.attachmentsFor(ctx, []string{l.ID})
	if err != nil {
		return leave.Leave{}, err
	}
	l.Attachments = attachments[l.ID]
	return l, nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	if filter.Status != nil {
		w.add("l.status = $%d", *filter.Status)
	}
	if filter.EmployeeID != nil {
		w.add("l.employee_id = $%d", *filter.EmployeeID)
	}
	where := w.sql()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leaves l`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	page := filter.Pagination.Normalize()
	rows, err := q.Query(ctx, leaveSelect+where+` ORDER BY l.created_at DESC`+w.page(page.Limit, page.Offset()), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}

	var leaves []leave.Leave
	var ids []string
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		leaves = append(leaves, l)
		ids = append(ids, l.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	attachments, err := r.attachmentsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range leaves {
		leaves[i].Attachments = attachments[leaves[i].ID]
	}
	return leaves, total, nil
}

// Review implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Review(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leaves
		SET status = $2, reviewed_by = $3, reviewed_at = $4, comments = $5
		WHERE id = $1 AND status = $6
	`, l.ID, l.Status, l.ReviewedBy, l.ReviewedAt, l.Comments, leave.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to review leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return err
		}
		return leave.ErrLeaveAlreadyReviewed
	}
	return nil
}

// Delete implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leaves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
