package task

import (
	"context"
	"io"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type TaskService interface {
	Assign(ctx context.Context, actor user.Actor, req AssignRequest) (TaskResponse, error)
	UpdateProgress(ctx context.Context, actor user.Actor, id string, req UpdateProgressRequest) (TaskResponse, error)
	Review(ctx context.Context, actor user.Actor, id string, req ReviewRequest) (TaskResponse, error)
	AddAttachment(ctx context.Context, actor user.Actor, id string, file io.Reader, filename string, size int64) (AttachmentResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (TaskResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter TaskFilter) ([]TaskResponse, common.PageInfo, error)
	List(ctx context.Context, filter TaskFilter) ([]TaskResponse, common.PageInfo, error)
	Delete(ctx context.Context, id string) error
}
