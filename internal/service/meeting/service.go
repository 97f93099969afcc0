package meeting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

const relatedType = "meeting"

type MeetingServiceImpl struct {
	tx        database.Transactor
	meetings  meeting.MeetingRepository
	employees employee.EmployeeRepository
	notifier  notification.Sink
	clock     clock.Clock
}

func NewMeetingService(
	tx database.Transactor,
	meetingRepo meeting.MeetingRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Sink,
	clk clock.Clock,
) meeting.MeetingService {
	return &MeetingServiceImpl{
		tx:        tx,
		meetings:  meetingRepo,
		employees: employeeRepo,
		notifier:  notifier,
		clock:     clk,
	}
}

func (s *MeetingServiceImpl) notifyAll(ctx context.Context, recipients []string, m meeting.Meeting, title, message string, priority notification.Priority) {
	if len(recipients) == 0 {
		return
	}
	related := relatedType
	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, id := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: id,
			Title:       title,
			Message:     message,
			Type:        notification.TypeMeeting,
			Priority:    priority,
			RelatedID:   &m.ID,
			RelatedType: &related,
		})
	}
	if _, err := s.notifier.CreateBulk(ctx, reqs); err != nil {
		slog.Error("failed to send meeting notifications", "meeting_id", m.ID, "recipients", len(reqs), "error", err)
	}
}

// Schedule implements meeting.MeetingService. Every attendee must exist or
// nothing is written.
func (s *MeetingServiceImpl) Schedule(ctx context.Context, actor user.Actor, req meeting.ScheduleRequest) (meeting.MeetingResponse, error) {
	if !actor.IsAdmin() {
		return meeting.MeetingResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return meeting.MeetingResponse{}, err
	}

	attendees, err := s.employees.GetByIDs(ctx, req.Attendees)
	if err != nil {
		return meeting.MeetingResponse{}, fmt.Errorf("failed to load attendees: %w", err)
	}
	if len(attendees) != len(req.Attendees) {
		return meeting.MeetingResponse{}, meeting.ErrAttendeeNotFound
	}

	now := s.clock.Now()
	m := meeting.Meeting{
		Title:           req.Title,
		Description:     req.Description,
		OrganizerID:     actor.AccountID,
		Date:            req.When(),
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Location:        req.Location,
		MeetingLink:     req.MeetingLink,
		Status:          meeting.StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, a := range attendees {
		m.Attendees = append(m.Attendees, meeting.Attendee{EmployeeID: a.ID, Name: a.Name, Response: meeting.ResponsePending})
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := s.meetings.Create(txCtx, m)
		if err != nil {
			return err
		}
		m = created
		return nil
	})
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	s.notifyAll(ctx, m.AttendeeIDs(), m, "Meeting invitation",
		fmt.Sprintf("You are invited to \"%s\" on %s", m.Title, m.Date.Format("Mon, 02 Jan 2006 15:04 MST")),
		notification.PriorityMedium)

	return meeting.NewMeetingResponse(m), nil
}

// Respond implements meeting.MeetingService.
func (s *MeetingServiceImpl) Respond(ctx context.Context, actor user.Actor, id string, req meeting.RespondRequest) (meeting.MeetingResponse, error) {
	if err := req.Validate(); err != nil {
		return meeting.MeetingResponse{}, err
	}

	if err := s.meetings.SetResponse(ctx, id, actor.EmployeeID, req.Response, s.clock.Now()); err != nil {
		return meeting.MeetingResponse{}, err
	}

	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	organizer, err := s.employees.GetByAccountID(ctx, m.OrganizerID)
	if err != nil {
		slog.Error("failed to resolve meeting organizer", "meeting_id", m.ID, "account_id", m.OrganizerID, "error", err)
	} else if organizer.ID != actor.EmployeeID {
		name := actor.Email
		for _, a := range m.Attendees {
			if a.EmployeeID == actor.EmployeeID && a.Name != "" {
				name = a.Name
			}
		}
		s.notifyAll(ctx, []string{organizer.ID}, m, "Meeting response",
			fmt.Sprintf("%s %s \"%s\"", name, req.Response, m.Title),
			notification.PriorityLow)
	}

	return meeting.NewMeetingResponse(m), nil
}

// SetStatus implements meeting.MeetingService.
func (s *MeetingServiceImpl) SetStatus(ctx context.Context, actor user.Actor, id string, req meeting.SetStatusRequest) (meeting.MeetingResponse, error) {
	if !actor.IsAdmin() {
		return meeting.MeetingResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return meeting.MeetingResponse{}, err
	}

	now := s.clock.Now()
	if err := s.meetings.UpdateStatus(ctx, id, req.Status, now); err != nil {
		return meeting.MeetingResponse{}, err
	}
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}

	priority := notification.PriorityMedium
	if m.Status == meeting.StatusCancelled {
		priority = notification.PriorityHigh
	}
	s.notifyAll(ctx, m.AttendeeIDs(), m, "Meeting updated",
		fmt.Sprintf("\"%s\" is now %s", m.Title, m.Status),
		priority)

	return meeting.NewMeetingResponse(m), nil
}

// Get implements meeting.MeetingService.
func (s *MeetingServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (meeting.MeetingResponse, error) {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return meeting.MeetingResponse{}, err
	}
	if !actor.IsAdmin() && m.OrganizerID != actor.AccountID && !m.HasAttendee(actor.EmployeeID) {
		return meeting.MeetingResponse{}, meeting.ErrNotAttendee
	}
	return meeting.NewMeetingResponse(m), nil
}

// ListMine implements meeting.MeetingService.
func (s *MeetingServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter meeting.MeetingFilter) ([]meeting.MeetingResponse, common.PageInfo, error) {
	filter.AttendeeID = &actor.EmployeeID
	return s.List(ctx, filter)
}

// List implements meeting.MeetingService.
func (s *MeetingServiceImpl) List(ctx context.Context, filter meeting.MeetingFilter) ([]meeting.MeetingResponse, common.PageInfo, error) {
	if filter.Upcoming && filter.UpcomingFrom == nil {
		now := s.clock.Now()
		filter.UpcomingFrom = &now
	}
	filter.Pagination = filter.Pagination.Normalize()

	meetings, total, err := s.meetings.List(ctx, filter)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]meeting.MeetingResponse, len(meetings))
	for i, m := range meetings {
		resp[i] = meeting.NewMeetingResponse(m)
	}
	return resp, common.NewPageInfo(filter.Pagination, total), nil
}

// Delete implements meeting.MeetingService.
func (s *MeetingServiceImpl) Delete(ctx context.Context, id string) error {
	return s.meetings.Delete(ctx, id)
}
