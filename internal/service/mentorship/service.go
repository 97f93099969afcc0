package mentorship

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/mentorship"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

const relatedType = "mentorship"

type MentorshipServiceImpl struct {
	tx          database.Transactor
	mentorships mentorship.MentorshipRepository
	employees   employee.EmployeeRepository
	notifier    notification.Sink
	clock       clock.Clock
}

func NewMentorshipService(
	tx database.Transactor,
	mentorshipRepo mentorship.MentorshipRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Sink,
	clk clock.Clock,
) mentorship.MentorshipService {
	return &MentorshipServiceImpl{
		tx:          tx,
		mentorships: mentorshipRepo,
		employees:   employeeRepo,
		notifier:    notifier,
		clock:       clk,
	}
}

func (s *MentorshipServiceImpl) notify(ctx context.Context, m mentorship.Mentorship, recipients []string, title, message string) {
	related := relatedType
	var reqs []notification.CreateNotificationRequest
	for _, id := range recipients {
		if id == "" {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: id,
			Title:       title,
			Message:     message,
			Type:        notification.TypeMentorship,
			Priority:    notification.PriorityMedium,
			RelatedID:   &m.ID,
			RelatedType: &related,
		})
	}
	if len(reqs) == 0 {
		return
	}
	if _, err := s.notifier.CreateBulk(ctx, reqs); err != nil {
		slog.Error("failed to send mentorship notifications", "mentorship_id", m.ID, "error", err)
	}
}

func (s *MentorshipServiceImpl) participant(ctx context.Context, id string, notFound error) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, notFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// Assign implements mentorship.MentorshipService. A mentee holds at most one
// active mentorship; the repository enforces the same rule on insert.
func (s *MentorshipServiceImpl) Assign(ctx context.Context, actor user.Actor, req mentorship.AssignRequest) (mentorship.MentorshipResponse, error) {
	if !actor.IsAdmin() {
		return mentorship.MentorshipResponse{}, user.ErrAdminPrivilegeRequired
	}
	if req.MentorID == req.MenteeID {
		return mentorship.MentorshipResponse{}, mentorship.ErrSelfMentorship
	}
	if err := req.Validate(); err != nil {
		return mentorship.MentorshipResponse{}, err
	}

	mentor, err := s.participant(ctx, req.MentorID, mentorship.ErrMentorNotFound)
	if err != nil {
		return mentorship.MentorshipResponse{}, err
	}
	mentee, err := s.participant(ctx, req.MenteeID, mentorship.ErrMenteeNotFound)
	if err != nil {
		return mentorship.MentorshipResponse{}, err
	}

	now := s.clock.Now()
	m := mentorship.Mentorship{
		MentorID:   mentor.ID,
		MenteeID:   mentee.ID,
		AssignedBy: actor.AccountID,
		Status:     mentorship.StatusActive,
		StartDate:  now.Truncate(24 * time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, title := range req.Goals {
		m.Goals = append(m.Goals, mentorship.Goal{Title: title, CreatedAt: now})
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		active, err := s.mentorships.HasActiveForMentee(txCtx, mentee.ID)
		if err != nil {
			return fmt.Errorf("failed to check active mentorship: %w", err)
		}
		if active {
			return mentorship.ErrMenteeAlreadyMentored
		}
		created, err := s.mentorships.Create(txCtx, m)
		if err != nil {
			return err
		}
		m = created
		return nil
	})
	if err != nil {
		return mentorship.MentorshipResponse{}, err
	}
	m.MentorName, m.MenteeName = mentor.Name, mentee.Name

	s.notify(ctx, m, []string{mentee.ID}, "Mentor assigned", fmt.Sprintf("%s is now your mentor", mentor.Name))
	s.notify(ctx, m, []string{mentor.ID}, "New mentee", fmt.Sprintf("You are now mentoring %s", mentee.Name))

	return mentorship.NewMentorshipResponse(m), nil
}

// SetStatus implements mentorship.MentorshipService. Admins may set any
// status; participants may only pause or complete an active mentorship.
func (s *MentorshipServiceImpl) SetStatus(ctx context.Context, actor user.Actor, id string, req mentorship.SetStatusRequest) (mentorship.MentorshipResponse, error) {
	if err := req.Validate(); err != nil {
		return mentorship.MentorshipResponse{}, err
	}

	m, err := s.mentorships.GetByID(ctx, id)
	if err != nil {
		return mentorship.MentorshipResponse{}, err
	}

	if !actor.IsAdmin() {
		if !m.IsParticipant(actor.EmployeeID) {
			return mentorship.MentorshipResponse{}, mentorship.ErrNotParticipant
		}
		if m.Status != mentorship.StatusActive || req.Status == mentorship.StatusActive {
			return mentorship.MentorshipResponse{}, mentorship.ErrStatusChangeForbidden
		}
	}

	now := s.clock.Now()
	var endDate *time.Time
	if req.Status == mentorship.StatusCompleted {
		end := now.Truncate(24 * time.Hour)
		endDate = &end
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if req.Status == mentorship.StatusActive && m.Status != mentorship.StatusActive {
			active, err := s.mentorships.HasActiveForMentee(txCtx, m.MenteeID)
			if err != nil {
				return fmt.Errorf("failed to check active mentorship: %w", err)
			}
			if active {
				return mentorship.ErrMenteeAlreadyMentored
			}
		}
		return s.mentorships.UpdateStatus(txCtx, m.ID, req.Status, endDate, now)
	})
	if err != nil {
		return mentorship.MentorshipResponse{}, err
	}

	recipients := []string{m.MentorID, m.MenteeID}
	if m.IsParticipant(actor.EmployeeID) {
		recipients = []string{m.Counterpart(actor.EmployeeID)}
	}
	s.notify(ctx, m, recipients, "Mentorship updated", fmt.Sprintf("Your mentorship is now %s", req.Status))

	detail, err := s.mentorships.GetDetail(ctx, m.ID)
	if err != nil {
		return mentorship.MentorshipResponse{}, err
	}
	return mentorship.NewMentorshipResponse(detail), nil
}

// activeFor loads a mentorship the caller participates in and that is still
// active.
func (s *MentorshipServiceImpl) activeFor(ctx context.Context, actor user.Actor, id string) (mentorship.Mentorship, error) {
	m, err := s.mentorships.GetByID(ctx, id)
	if err != nil {
		return mentorship.Mentorship{}, err
	}
	if !m.IsParticipant(actor.EmployeeID) {
		return mentorship.Mentorship{}, mentorship.ErrNotParticipant
	}
	if m.Status != mentorship.StatusActive {
		return mentorship.Mentorship{}, mentorship.ErrMentorshipNotActive
	}
	return m, nil
}

func (s *MentorshipServiceImpl) AddNote(ctx context.Context, actor user.Actor, id string, req mentorship.AddNoteRequest) (mentorship.NoteResponse, error) {
	if err := req.Validate(); err != nil {
		return mentorship.NoteResponse{}, err
	}
	m, err := s.activeFor(ctx, actor, id)
	if err != nil {
		return mentorship.NoteResponse{}, err
	}

	note, err := s.mentorships.AddNote(ctx, mentorship.Note{
		MentorshipID: m.ID,
		AuthorID:     actor.EmployeeID,
		Content:      req.Content,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		return mentorship.NoteResponse{}, fmt.Errorf("failed to add note: %w", err)
	}

	s.notify(ctx, m, []string{m.Counterpart(actor.EmployeeID)}, "New mentorship note", "A new note was added to your mentorship")
	return mentorship.NewNoteResponse(note), nil
}

func (s *MentorshipServiceImpl) AddGoal(ctx context.Context, actor user.Actor, id string, req mentorship.AddGoalRequest) (mentorship.GoalResponse, error) {
	if err := req.Validate(); err != nil {
		return mentorship.GoalResponse{}, err
	}
	m, err := s.activeFor(ctx, actor, id)
	if err != nil {
		return mentorship.GoalResponse{}, err
	}

	goal, err := s.mentorships.AddGoal(ctx, mentorship.Goal{
		MentorshipID: m.ID,
		Title:        req.Title,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		return mentorship.GoalResponse{}, fmt.Errorf("failed to add goal: %w", err)
	}
	return mentorship.NewGoalResponse(goal), nil
}

// ToggleGoal flips the goal's completion and stamps or clears its time.
func (s *MentorshipServiceImpl) ToggleGoal(ctx context.Context, actor user.Actor, id, goalID string) (mentorship.GoalResponse, error) {
	m, err := s.activeFor(ctx, actor, id)
	if err != nil {
		return mentorship.GoalResponse{}, err
	}

	goal, err := s.mentorships.GetGoal(ctx, m.ID, goalID)
	if err != nil {
		return mentorship.GoalResponse{}, err
	}

	goal.Completed = !goal.Completed
	goal.CompletedAt = nil
	if goal.Completed {
		now := s.clock.Now()
		goal.CompletedAt = &now
	}
	if err := s.mentorships.SetGoalCompleted(ctx, goal.ID, goal.Completed, goal.CompletedAt); err != nil {
		return mentorship.GoalResponse{}, err
	}
	return mentorship.NewGoalResponse(goal), nil
}

func (s *MentorshipServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (mentorship.MentorshipResponse, error) {
	m, err := s.mentorships.GetDetail(ctx, id)
	if err != nil {
		return mentorship.MentorshipResponse{}, err
	}
	if !actor.IsAdmin() && !m.IsParticipant(actor.EmployeeID) {
		return mentorship.MentorshipResponse{}, mentorship.ErrNotParticipant
	}
	return mentorship.NewMentorshipResponse(m), nil
}

func (s *MentorshipServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter mentorship.MentorshipFilter) ([]mentorship.MentorshipResponse, common.PageInfo, error) {
	filter.ParticipantID = &actor.EmployeeID
	return s.List(ctx, filter)
}

func (s *MentorshipServiceImpl) List(ctx context.Context, filter mentorship.MentorshipFilter) ([]mentorship.MentorshipResponse, common.PageInfo, error) {
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := s.mentorships.List(ctx, filter)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]mentorship.MentorshipResponse, len(items))
	for i, m := range items {
		resp[i] = mentorship.NewMentorshipResponse(m)
	}
	return resp, common.NewPageInfo(filter.Pagination, total), nil
}
