package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

const taskSelect = `
		SELECT t.id, t.title, t.description, t.assigned_to, t.assigned_by, t.priority, t.status, t.progress,
			t.due_date, t.notes, t.completed_date, t.created_at, t.updated_at, e.name
		FROM tasks t
		JOIN employees e ON e.id = t.assigned_to
`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.AssignedBy, &t.Priority, &t.Status, &t.Progress,
		&t.DueDate, &t.Notes, &t.CompletedDate, &t.CreatedAt, &t.UpdatedAt, &t.AssigneeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	if t.ID == "" {
		t.ID = newID()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO tasks (id, title, description, assigned_to, assigned_by, priority, status, progress,
			due_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, t.ID, t.Title, t.Description, t.AssignedTo, t.AssignedBy, t.Priority, t.Status, t.Progress,
		t.DueDate, t.Notes, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return task.Task{}, translatePgError(fmt.Errorf("failed to create task: %w", err), nil, task.ErrAssigneeNotFound)
	}
	return t, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)
	return scanTask(q.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
}

// GetDetail implements task.TaskRepository.
func (r *taskRepositoryImpl) GetDetail(ctx context.Context, id string) (task.Task, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	q := GetQuerier(ctx, r.db)

	updateRows, err := q.Query(ctx, `
		SELECT id, task_id, author_id, message, progress, created_at
		FROM task_updates WHERE task_id = $1 ORDER BY created_at
	`, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to list task updates: %w", err)
	}
	t.Updates, err = pgx.CollectRows(updateRows, func(row pgx.CollectableRow) (task.Update, error) {
		var u task.Update
		err := row.Scan(&u.ID, &u.TaskID, &u.AuthorID, &u.Message, &u.Progress, &u.CreatedAt)
		return u, err
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to scan task updates: %w", err)
	}

	reviewRows, err := q.Query(ctx, `
		SELECT id, task_id, reviewer_id, feedback, rating, created_at
		FROM task_reviews WHERE task_id = $1 ORDER BY created_at
	`, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to list task reviews: %w", err)
	}
	t.Reviews, err = pgx.CollectRows(reviewRows, func(row pgx.CollectableRow) (task.Review, error) {
		var rv task.Review
		err := row.Scan(&rv.ID, &rv.TaskID, &rv.ReviewerID, &rv.Feedback, &rv.Rating, &rv.CreatedAt)
		return rv, err
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to scan task reviews: %w", err)
	}

	t.Attachments, err = r.ListAttachments(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// List implements task.TaskRepository.
func (r *taskRepositoryImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.Task, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	if filter.Status != nil {
		w.add("t.status = $%d", *filter.Status)
	}
	if filter.AssignedTo != nil {
		w.add("t.assigned_to = $%d", *filter.AssignedTo)
	}
	where := w.sql()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	page := filter.Pagination.Normalize()
	rows, err := q.Query(ctx, taskSelect+where+` ORDER BY t.created_at DESC`+w.page(page.Limit, page.Offset()), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// UpdateState implements task.TaskRepository.
func (r *taskRepositoryImpl) UpdateState(ctx context.Context, t task.Task) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE tasks
		SET status = $2, progress = $3, notes = $4, completed_date = $5, updated_at = $6
		WHERE id = $1
	`, t.ID, t.Status, t.Progress, t.Notes, t.CompletedDate, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// AddUpdate implements task.TaskRepository.
func (r *taskRepositoryImpl) AddUpdate(ctx context.Context, u task.Update) (task.Update, error) {
	q := GetQuerier(ctx, r.db)

	if u.ID == "" {
		u.ID = newID()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO task_updates (id, task_id, author_id, message, progress, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.TaskID, u.AuthorID, u.Message, u.Progress, u.CreatedAt)
	if err != nil {
		return task.Update{}, fmt.Errorf("failed to add task update: %w", err)
	}
	return u, nil
}

// AddReview implements task.TaskRepository.
func (r *taskRepositoryImpl) AddReview(ctx context.Context, rv task.Review) (task.Review, error) {
	q := GetQuerier(ctx, r.db)

	if rv.ID == "" {
		rv.ID = newID()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO task_reviews (id, task_id, reviewer_id, feedback, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rv.ID, rv.TaskID, rv.ReviewerID, rv.Feedback, rv.Rating, rv.CreatedAt)
	if err != nil {
		return task.Review{}, fmt.Errorf("failed to add task review: %w", err)
	}
	return rv, nil
}

// AddAttachment implements task.TaskRepository.
func (r *taskRepositoryImpl) AddAttachment(ctx context.Context, a task.Attachment) (task.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = newID()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO task_attachments (id, task_id, file_name, file_path, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.TaskID, a.FileName, a.FilePath, a.UploadedBy, a.UploadedAt)
	if err != nil {
		return task.Attachment{}, fmt.Errorf("failed to add task attachment: %w", err)
	}
	return a, nil
}

// ListAttachments implements task.TaskRepository.
func (r *taskRepositoryImpl) ListAttachments(ctx context.Context, taskID string) ([]task.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, task_id, file_name, file_path, uploaded_by, uploaded_at
		FROM task_attachments WHERE task_id = $1 ORDER BY uploaded_at
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task attachments: %w", err)
	}
	attachments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (task.Attachment, error) {
		var a task.Attachment
		err := row.Scan(&a.ID, &a.TaskID, &a.FileName, &a.FilePath, &a.UploadedBy, &a.UploadedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan task attachments: %w", err)
	}
	return attachments, nil
}

// Delete implements task.TaskRepository.
func (r *taskRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}
