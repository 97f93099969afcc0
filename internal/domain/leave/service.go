package leave

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type LeaveService interface {
	Submit(ctx context.Context, actor user.Actor, req SubmitRequest) (LeaveResponse, error)
	Review(ctx context.Context, actor user.Actor, id string, req ReviewRequest) (LeaveResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter LeaveFilter) ([]LeaveResponse, common.PageInfo, error)
	List(ctx context.Context, filter LeaveFilter) ([]LeaveResponse, common.PageInfo, error)
	Cancel(ctx context.Context, actor user.Actor, id string) error
}
