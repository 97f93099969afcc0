package broadcast

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type BroadcastService interface {
	Send(ctx context.Context, actor user.Actor, req SendRequest) (BroadcastResponse, error)
	// ListMine marks every unread broadcast of the caller as read unless
	// unreadOnly is set. Items reflect the state before marking.
	ListMine(ctx context.Context, actor user.Actor, unreadOnly bool, page common.Pagination) ([]ReceivedResponse, common.PageInfo, error)
	MarkRead(ctx context.Context, actor user.Actor, id string) error
	ListSent(ctx context.Context, actor user.Actor, page common.Pagination) ([]BroadcastResponse, common.PageInfo, error)
	Stats(ctx context.Context, id string) (Stats, error)
	Delete(ctx context.Context, id string) error
}
