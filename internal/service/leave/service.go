package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
)

const relatedType = "leave"

type LeaveServiceImpl struct {
	tx          database.Transactor
	leaves      leave.LeaveRepository
	employees   employee.EmployeeRepository
	fileService file.FileService
	notifier    notification.Sink
	clock       clock.Clock
}

func NewLeaveService(
	tx database.Transactor,
	leaveRepo leave.LeaveRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	notifier notification.Sink,
	clk clock.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:          tx,
		leaves:      leaveRepo,
		employees:   employeeRepo,
		fileService: fileService,
		notifier:    notifier,
		clock:       clk,
	}
}

func (s *LeaveServiceImpl) toResponse(l leave.Leave) leave.LeaveResponse {
	return leave.NewLeaveResponse(l, s.fileService.URL)
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, actor user.Actor, req leave.SubmitRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	now := s.clock.Now()
	today := now.Truncate(24 * time.Hour)
	if req.Start().Before(today) {
		var errs validator.ValidationErrors
		errs.Add("start_date", "start_date cannot be in the past")
		return leave.LeaveResponse{}, errs
	}

	var attachments []leave.Attachment
	for _, upload := range req.Attachments {
		stored, err := s.fileService.UploadLeaveAttachment(ctx, actor.EmployeeID, file.Upload{
			Reader:   upload.File,
			FileName: upload.Filename,
			Size:     upload.Size,
		})
		if err != nil {
			s.discard(ctx, attachments)
			return leave.LeaveResponse{}, err
		}
		attachments = append(attachments, leave.Attachment{FileName: stored.FileName, FilePath: stored.Path})
	}

	var created leave.Leave
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.leaves.Create(txCtx, leave.Leave{
			EmployeeID:  actor.EmployeeID,
			Type:        req.Type,
			StartDate:   req.Start(),
			EndDate:     req.End(),
			TotalDays:   leave.TotalDays(req.Start(), req.End()),
			Reason:      req.Reason,
			Status:      leave.StatusPending,
			CreatedAt:   now,
			Attachments: attachments,
		})
		return err
	})
	if err != nil {
		s.discard(ctx, attachments)
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifyAdmins(ctx, actor, created)
	return s.toResponse(created), nil
}

func (s *LeaveServiceImpl) discard(ctx context.Context, attachments []leave.Attachment) {
	if len(attachments) == 0 {
		return
	}
	paths := make([]string, len(attachments))
	for i, a := range attachments {
		paths[i] = a.FilePath
	}
	if err := s.fileService.DeleteFiles(ctx, paths); err != nil {
		slog.Warn("failed to remove leave attachments", "error", err)
	}
}

func (s *LeaveServiceImpl) notifyAdmins(ctx context.Context, actor user.Actor, l leave.Leave) {
	adminIDs, err := s.employees.ListAdminIDs(ctx)
	if err != nil {
		slog.Error("failed to list admins for leave notification", "leave_id", l.ID, "error", err)
		return
	}

	name := actor.Email
	if emp, err := s.employees.GetByID(ctx, l.EmployeeID); err == nil {
		name = emp.Name
	}

	related := relatedType
	var reqs []notification.CreateNotificationRequest
	for _, id := range adminIDs {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: id,
			Title:       "New leave request",
			Message:     fmt.Sprintf("%s requested %d day(s) of %s leave starting %s", name, l.TotalDays, l.Type, l.StartDate.Format("2006-01-02")),
			Type:        notification.TypeLeave,
			Priority:    notification.PriorityMedium,
			RelatedID:   &l.ID,
			RelatedType: &related,
		})
	}
	if len(reqs) == 0 {
		return
	}
	if _, err := s.notifier.CreateBulk(ctx, reqs); err != nil {
		slog.Error("failed to notify admins of leave request", "leave_id", l.ID, "error", err)
	}
}

// Review implements leave.LeaveService.
func (s *LeaveServiceImpl) Review(ctx context.Context, actor user.Actor, id string, req leave.ReviewRequest) (leave.LeaveResponse, error) {
	if !actor.IsAdmin() {
		return leave.LeaveResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	l, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if l.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyReviewed
	}

	now := s.clock.Now()
	l.Status = req.Status
	l.ReviewedBy = &actor.AccountID
	l.ReviewedAt = &now
	l.Comments = req.Comments
	if err := s.leaves.Review(ctx, l); err != nil {
		return leave.LeaveResponse{}, err
	}

	priority := notification.PriorityMedium
	if l.Status == leave.StatusRejected {
		priority = notification.PriorityHigh
	}
	message := fmt.Sprintf("Your %s leave from %s to %s was %s", l.Type, l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"), l.Status)
	if l.Comments != nil && *l.Comments != "" {
		message += ": " + *l.Comments
	}
	related := relatedType
	if _, err := s.notifier.Create(ctx, notification.CreateNotificationRequest{
		RecipientID: l.EmployeeID,
		Title:       "Leave request reviewed",
		Message:     message,
		Type:        notification.TypeLeave,
		Priority:    priority,
		RelatedID:   &l.ID,
		RelatedType: &related,
	}); err != nil {
		slog.Error("failed to notify employee of leave review", "leave_id", l.ID, "error", err)
	}

	return s.toResponse(l), nil
}

func (s *LeaveServiceImpl) owned(ctx context.Context, actor user.Actor, id string) (leave.Leave, error) {
	l, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return leave.Leave{}, err
	}
	if l.EmployeeID != actor.EmployeeID && !actor.IsAdmin() {
		return leave.Leave{}, user.ErrInsufficientRole
	}
	return l, nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (leave.LeaveResponse, error) {
	l, err := s.owned(ctx, actor, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return s.toResponse(l), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter leave.LeaveFilter) ([]leave.LeaveResponse, common.PageInfo, error) {
	filter.EmployeeID = &actor.EmployeeID
	return s.List(ctx, filter)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveResponse, common.PageInfo, error) {
	filter.Pagination = filter.Pagination.Normalize()
	leaves, total, err := s.leaves.List(ctx, filter)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]leave.LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = s.toResponse(l)
	}
	return resp, common.NewPageInfo(filter.Pagination, total), nil
}

// Cancel implements leave.LeaveService. Only the owner may cancel, and only
// while the request is pending.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Actor, id string) error {
	l, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.EmployeeID != actor.EmployeeID {
		return user.ErrInsufficientRole
	}
	if l.Status != leave.StatusPending {
		return leave.ErrLeaveNotCancellable
	}

	if err := s.leaves.Delete(ctx, l.ID); err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return err
		}
		return fmt.Errorf("failed to cancel leave request: %w", err)
	}
	s.discard(ctx, l.Attachments)
	return nil
}
