package welcome

import (
	"context"
	"io"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type VideoService interface {
	Upload(ctx context.Context, actor user.Actor, req UploadRequest, file io.Reader, filename string, size int64) (VideoResponse, error)
	GetActive(ctx context.Context) (VideoResponse, error)
	List(ctx context.Context) ([]VideoResponse, error)
	Delete(ctx context.Context, id string) error
}
