package mentorship

import (
	"context"
	"time"
)

type MentorshipRepository interface {
	// Create returns ErrMenteeAlreadyMentored on the active-mentee unique index.
	Create(ctx context.Context, m Mentorship) (Mentorship, error)
	GetByID(ctx context.Context, id string) (Mentorship, error)
	// GetDetail loads goals and notes.
	GetDetail(ctx context.Context, id string) (Mentorship, error)
	HasActiveForMentee(ctx context.Context, menteeID string) (bool, error)
	List(ctx context.Context, filter MentorshipFilter) ([]Mentorship, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status, endDate *time.Time, at time.Time) error
	AddGoal(ctx context.Context, g Goal) (Goal, error)
	GetGoal(ctx context.Context, mentorshipID, goalID string) (Goal, error)
	SetGoalCompleted(ctx context.Context, goalID string, completed bool, at *time.Time) error
	AddNote(ctx context.Context, n Note) (Note, error)
}
