package meeting

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type MeetingService interface {
	Schedule(ctx context.Context, actor user.Actor, req ScheduleRequest) (MeetingResponse, error)
	Respond(ctx context.Context, actor user.Actor, id string, req RespondRequest) (MeetingResponse, error)
	SetStatus(ctx context.Context, actor user.Actor, id string, req SetStatusRequest) (MeetingResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (MeetingResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter MeetingFilter) ([]MeetingResponse, common.PageInfo, error)
	List(ctx context.Context, filter MeetingFilter) ([]MeetingResponse, common.PageInfo, error)
	Delete(ctx context.Context, id string) error
}
