package leave

import (
	"context"
)

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)
	// Review only updates a pending leave; otherwise ErrLeaveAlreadyReviewed.
	Review(ctx context.Context, l Leave) error
	Delete(ctx context.Context, id string) error
}
