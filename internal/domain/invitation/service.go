package invitation

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type InvitationService interface {
	Issue(ctx context.Context, issuer user.Actor, req IssueRequest) (InvitationResponse, error)
	Validate(ctx context.Context, token string) (ValidateResponse, error)
	List(ctx context.Context, filter ListFilter) ([]InvitationResponse, common.PageInfo, error)
	Revoke(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
