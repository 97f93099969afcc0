package mentorship

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type MentorshipService interface {
	Assign(ctx context.Context, actor user.Actor, req AssignRequest) (MentorshipResponse, error)
	SetStatus(ctx context.Context, actor user.Actor, id string, req SetStatusRequest) (MentorshipResponse, error)
	AddNote(ctx context.Context, actor user.Actor, id string, req AddNoteRequest) (NoteResponse, error)
	AddGoal(ctx context.Context, actor user.Actor, id string, req AddGoalRequest) (GoalResponse, error)
	ToggleGoal(ctx context.Context, actor user.Actor, id, goalID string) (GoalResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (MentorshipResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter MentorshipFilter) ([]MentorshipResponse, common.PageInfo, error)
	List(ctx context.Context, filter MentorshipFilter) ([]MentorshipResponse, common.PageInfo, error)
}
