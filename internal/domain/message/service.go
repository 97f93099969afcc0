package message

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type MessageService interface {
	Send(ctx context.Context, actor user.Actor, req SendRequest) (MessageResponse, error)
	Inbox(ctx context.Context, actor user.Actor, page common.Pagination) ([]MessageResponse, common.PageInfo, error)
	Sent(ctx context.Context, actor user.Actor, page common.Pagination) ([]MessageResponse, common.PageInfo, error)
	MarkRead(ctx context.Context, actor user.Actor, id string) error
	Delete(ctx context.Context, actor user.Actor, id string) error
}
