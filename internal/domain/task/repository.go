package task

import "context"

type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	// GetDetail loads the task with attachments, updates and reviews.
	GetDetail(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, int64, error)
	UpdateState(ctx context.Context, t Task) error
	AddUpdate(ctx context.Context, u Update) (Update, error)
	AddReview(ctx context.Context, r Review) (Review, error)
	AddAttachment(ctx context.Context, a Attachment) (Attachment, error)
	ListAttachments(ctx context.Context, taskID string) ([]Attachment, error)
	Delete(ctx context.Context, id string) error
}
