package welcome

import "context"

type VideoRepository interface {
	// CreateActive stores v and deactivates every other video.
	CreateActive(ctx context.Context, v Video) (Video, error)
	GetActive(ctx context.Context) (Video, error)
	GetByID(ctx context.Context, id string) (Video, error)
	List(ctx context.Context) ([]Video, error)
	Delete(ctx context.Context, id string) error
}
