package document

import "context"

type DocumentRepository interface {
	Create(ctx context.Context, d Document) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]Document, int64, error)
	UpdateReview(ctx context.Context, d Document) error
	Delete(ctx context.Context, id string) error
}
