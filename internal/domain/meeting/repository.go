package meeting

import (
	"context"
	"time"
)

type MeetingRepository interface {
	Create(ctx context.Context, m Meeting) (Meeting, error)
	GetByID(ctx context.Context, id string) (Meeting, error)
	List(ctx context.Context, filter MeetingFilter) ([]Meeting, int64, error)
	// SetResponse updates the caller's attendee row; ErrNotAttendee when absent.
	SetResponse(ctx context.Context, meetingID, employeeID string, resp Response, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	Delete(ctx context.Context, id string) error
}
