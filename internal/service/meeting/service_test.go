package meeting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

type fakeMeetings struct {
	meetings map[string]meeting.Meeting
	seq      int
}

func (f *fakeMeetings) Create(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	f.seq++
	m.ID = fmt.Sprintf("meet-%d", f.seq)
	for i := range m.Attendees {
		m.Attendees[i].MeetingID = m.ID
	}
	f.meetings[m.ID] = m
	return m, nil
}

func (f *fakeMeetings) GetByID(ctx context.Context, id string) (meeting.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return meeting.Meeting{}, meeting.ErrMeetingNotFound
	}
	m.Attendees = append([]meeting.Attendee(nil), m.Attendees...)
	return m, nil
}

func (f *fakeMeetings) List(ctx context.Context, filter meeting.MeetingFilter) ([]meeting.Meeting, int64, error) {
	var out []meeting.Meeting
	for i := 1; i <= f.seq; i++ {
		m, ok := f.meetings[fmt.Sprintf("meet-%d", i)]
		if !ok {
			continue
		}
		if filter.AttendeeID != nil && !m.HasAttendee(*filter.AttendeeID) {
			continue
		}
		if filter.UpcomingFrom != nil && m.Date.Before(*filter.UpcomingFrom) {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMeetings) SetResponse(ctx context.Context, meetingID, employeeID string, resp meeting.Response, at time.Time) error {
	m, ok := f.meetings[meetingID]
	if !ok {
		return meeting.ErrMeetingNotFound
	}
	for i := range m.Attendees {
		if m.Attendees[i].EmployeeID == employeeID {
			m.Attendees[i].Response = resp
			m.Attendees[i].RespondedAt = &at
			return nil
		}
	}
	return meeting.ErrNotAttendee
}

func (f *fakeMeetings) UpdateStatus(ctx context.Context, id string, status meeting.Status, at time.Time) error {
	m, ok := f.meetings[id]
	if !ok {
		return meeting.ErrMeetingNotFound
	}
	m.Status = status
	m.UpdatedAt = at
	f.meetings[id] = m
	return nil
}

func (f *fakeMeetings) Delete(ctx context.Context, id string) error {
	if _, ok := f.meetings[id]; !ok {
		return meeting.ErrMeetingNotFound
	}
	delete(f.meetings, id)
	return nil
}

const (
	indahID = "0b8f6c1e-2a3d-4e5f-8a9b-1c2d3e4f5a6b"
	jokoID  = "7d1e2f3a-4b5c-4d6e-9f0a-1b2c3d4e5f6a"
	adminID = "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f"
)

var (
	now   = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	admin = user.Actor{AccountID: "acc-9", EmployeeID: adminID, Role: user.RoleAdmin}
	indah = user.Actor{AccountID: "acc-1", EmployeeID: indahID, Role: user.RoleEmployee}
	joko  = user.Actor{AccountID: "acc-2", EmployeeID: jokoID, Role: user.RoleEmployee}
)

type fixture struct {
	svc      meeting.MeetingService
	meetings *fakeMeetings
	sink     *servicetest.Sink
}

func newFixture() fixture {
	f := fixture{
		meetings: &fakeMeetings{meetings: make(map[string]meeting.Meeting)},
		sink:     &servicetest.Sink{},
	}
	employees := servicetest.NewEmployees(
		employee.Employee{ID: indahID, AccountID: "acc-1", Name: "Indah", IsActive: true, Role: "employee"},
		employee.Employee{ID: jokoID, AccountID: "acc-2", Name: "Joko", IsActive: true, Role: "employee"},
		employee.Employee{ID: adminID, AccountID: "acc-9", Name: "Admin", IsActive: true, Role: "admin"},
	)
	f.svc = NewMeetingService(&servicetest.Tx{}, f.meetings, employees, f.sink, clock.NewFixed(now))
	return f
}

func scheduleReq(date string, attendees ...string) meeting.ScheduleRequest {
	return meeting.ScheduleRequest{
		Title:           "Welcome sync",
		Date:            date,
		DurationMinutes: 30,
		Attendees:       attendees,
	}
}

func (f fixture) schedule(t *testing.T, date string, attendees ...string) meeting.MeetingResponse {
	t.Helper()
	resp, err := f.svc.Schedule(context.Background(), admin, scheduleReq(date, attendees...))
	require.NoError(t, err)
	return resp
}

func TestSchedule_NotifiesAttendees(t *testing.T) {
	f := newFixture()

	resp := f.schedule(t, "2025-03-05T10:00:00Z", indahID, jokoID, indahID)
	assert.Equal(t, meeting.StatusScheduled, resp.Status)
	assert.Equal(t, "acc-9", resp.OrganizerID)
	assert.Equal(t, meeting.TypeOther, resp.Type)
	require.Len(t, resp.Attendees, 2)
	assert.Equal(t, meeting.ResponsePending, resp.Attendees[0].Response)

	assert.Len(t, f.sink.For(indahID), 1)
	assert.Len(t, f.sink.For(jokoID), 1)
	assert.Equal(t, notification.TypeMeeting, f.sink.For(jokoID)[0].Type)
}

func TestSchedule_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, indah, scheduleReq("2025-03-05T10:00:00Z", jokoID))
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	_, err = f.svc.Schedule(ctx, admin, scheduleReq("2025-03-05T10:00:00Z", jokoID, "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"))
	assert.ErrorIs(t, err, meeting.ErrAttendeeNotFound)

	short := scheduleReq("2025-03-05T10:00:00Z", jokoID)
	short.DurationMinutes = 10
	_, err = f.svc.Schedule(ctx, admin, short)
	assert.Error(t, err)

	assert.Empty(t, f.meetings.meetings)
	assert.Empty(t, f.sink.Requests)
}

func TestRespond(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.schedule(t, "2025-03-05T10:00:00Z", indahID)

	resp, err := f.svc.Respond(ctx, indah, m.ID, meeting.RespondRequest{Response: meeting.ResponseAccepted})
	require.NoError(t, err)
	require.Len(t, resp.Attendees, 1)
	assert.Equal(t, meeting.ResponseAccepted, resp.Attendees[0].Response)
	assert.Equal(t, now.Format(time.RFC3339), *resp.Attendees[0].RespondedAt)

	notes := f.sink.For(adminID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "Indah accepted")

	_, err = f.svc.Respond(ctx, joko, m.ID, meeting.RespondRequest{Response: meeting.ResponseDeclined})
	assert.ErrorIs(t, err, meeting.ErrNotAttendee)
}

func TestSetStatus_CancelIsHighPriority(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.schedule(t, "2025-03-05T10:00:00Z", indahID, jokoID)

	resp, err := f.svc.SetStatus(ctx, admin, m.ID, meeting.SetStatusRequest{Status: meeting.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusCancelled, resp.Status)

	for _, id := range []string{indahID, jokoID} {
		notes := f.sink.For(id)
		require.Len(t, notes, 2)
		assert.Equal(t, notification.PriorityHigh, notes[1].Priority)
	}

	_, err = f.svc.SetStatus(ctx, admin, m.ID, meeting.SetStatusRequest{Status: meeting.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, notification.PriorityMedium, f.sink.For(indahID)[2].Priority)
}

func TestSetStatus_InProgressNotifiesAttendees(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.schedule(t, "2025-03-05T10:00:00Z", indahID, jokoID)

	resp, err := f.svc.SetStatus(ctx, admin, m.ID, meeting.SetStatusRequest{Status: meeting.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusInProgress, resp.Status)

	for _, id := range []string{indahID, jokoID} {
		notes := f.sink.For(id)
		require.Len(t, notes, 2)
		assert.Equal(t, notification.PriorityMedium, notes[1].Priority)
		assert.Contains(t, notes[1].Message, "in-progress")
	}

	_, err = f.svc.SetStatus(ctx, admin, m.ID, meeting.SetStatusRequest{Status: "started"})
	assert.Error(t, err)
}

func TestGetAndListMine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	past := f.schedule(t, "2025-03-01T10:00:00Z", indahID)
	future := f.schedule(t, "2025-03-10T10:00:00Z", indahID, jokoID)

	_, err := f.svc.Get(ctx, joko, past.ID)
	assert.ErrorIs(t, err, meeting.ErrNotAttendee)
	_, err = f.svc.Get(ctx, indah, past.ID)
	assert.NoError(t, err)

	all, _, err := f.svc.ListMine(ctx, indah, meeting.MeetingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	upcoming, info, err := f.svc.ListMine(ctx, indah, meeting.MeetingFilter{Upcoming: true})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, future.ID, upcoming[0].ID)
	assert.Equal(t, int64(1), info.TotalItems)

	require.NoError(t, f.svc.Delete(ctx, past.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, past.ID), meeting.ErrMeetingNotFound)
}
