package document

import (
	"context"
	"io"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type DocumentService interface {
	Upload(ctx context.Context, actor user.Actor, req UploadRequest, file io.Reader, filename string, size int64) (DocumentResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (DocumentResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter DocumentFilter) ([]DocumentResponse, common.PageInfo, error)
	List(ctx context.Context, filter DocumentFilter) ([]DocumentResponse, common.PageInfo, error)
	Review(ctx context.Context, actor user.Actor, id string, req ReviewRequest) (DocumentResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error
}
