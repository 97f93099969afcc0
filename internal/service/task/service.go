package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
)

const relatedType = "task"

type TaskServiceImpl struct {
	tx          database.Transactor
	tasks       task.TaskRepository
	employees   employee.EmployeeRepository
	fileService file.FileService
	notifier    notification.Sink
	clock       clock.Clock
}

func NewTaskService(
	tx database.Transactor,
	taskRepo task.TaskRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	notifier notification.Sink,
	clk clock.Clock,
) task.TaskService {
	return &TaskServiceImpl{
		tx:          tx,
		tasks:       taskRepo,
		employees:   employeeRepo,
		fileService: fileService,
		notifier:    notifier,
		clock:       clk,
	}
}

func (s *TaskServiceImpl) toResponse(t task.Task) task.TaskResponse {
	return task.NewTaskResponse(t, s.fileService.URL)
}

func (s *TaskServiceImpl) notify(ctx context.Context, recipientID, title, message string, priority notification.Priority, taskID string) {
	related := relatedType
	_, err := s.notifier.Create(ctx, notification.CreateNotificationRequest{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        notification.TypeTask,
		Priority:    priority,
		RelatedID:   &taskID,
		RelatedType: &related,
	})
	if err != nil {
		slog.Error("failed to send task notification", "task_id", taskID, "recipient_id", recipientID, "error", err)
	}
}

func notificationPriority(p task.Priority) notification.Priority {
	switch p {
	case task.PriorityHigh:
		return notification.PriorityHigh
	case task.PriorityLow:
		return notification.PriorityLow
	}
	return notification.PriorityMedium
}

// Assign implements task.TaskService.
func (s *TaskServiceImpl) Assign(ctx context.Context, actor user.Actor, req task.AssignRequest) (task.TaskResponse, error) {
	if !actor.IsAdmin() {
		return task.TaskResponse{}, user.ErrAdminPrivilegeRequired
	}

	assignee, err := s.employees.GetByID(ctx, req.AssignedTo)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return task.TaskResponse{}, task.ErrAssigneeNotFound
		}
		return task.TaskResponse{}, err
	}

	now := s.clock.Now()
	t, err := s.tasks.Create(ctx, task.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  assignee.ID,
		AssignedBy:  actor.AccountID,
		Priority:    req.Priority,
		Status:      task.StatusAssigned,
		Progress:    0,
		DueDate:     req.Due(),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return task.TaskResponse{}, err
	}
	t.AssigneeName = assignee.Name

	s.notify(ctx, assignee.ID, "New task assigned", fmt.Sprintf("You have been assigned: %s", t.Title), notificationPriority(t.Priority), t.ID)
	return s.toResponse(t), nil
}

func (s *TaskServiceImpl) authorized(ctx context.Context, actor user.Actor, id string, detail bool) (task.Task, error) {
	var (
		t   task.Task
		err error
	)
	if detail {
		t, err = s.tasks.GetDetail(ctx, id)
	} else {
		t, err = s.tasks.GetByID(ctx, id)
	}
	if err != nil {
		return task.Task{}, err
	}
	if !actor.IsAdmin() && !t.IsAssignee(actor.EmployeeID) {
		return task.Task{}, user.ErrInsufficientRole
	}
	return t, nil
}

// UpdateProgress implements task.TaskService. Explicit fields are applied
// first, then the optional log entry, then the status derivations.
func (s *TaskServiceImpl) UpdateProgress(ctx context.Context, actor user.Actor, id string, req task.UpdateProgressRequest) (task.TaskResponse, error) {
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return task.TaskResponse{}, task.ErrInvalidProgress
	}

	var (
		updated       task.Task
		enteredReview bool
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		t, err := s.authorized(txCtx, actor, id, false)
		if err != nil {
			return err
		}
		before := t.Status
		now := s.clock.Now()

		if req.Progress != nil {
			t.Progress = *req.Progress
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.Notes != nil {
			t.Notes = req.Notes
		}

		if req.Message != nil && *req.Message != "" {
			if _, err := s.tasks.AddUpdate(txCtx, task.Update{
				TaskID:    t.ID,
				AuthorID:  actor.AccountID,
				Message:   *req.Message,
				Progress:  t.Progress,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to record task update: %w", err)
			}
		}

		t.ApplyDerivations(now)
		if t.Status == task.StatusCompleted && t.CompletedDate == nil {
			t.CompletedDate = &now
		}
		t.UpdatedAt = now

		if err := s.tasks.UpdateState(txCtx, t); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		enteredReview = t.Status == task.StatusReview && before != task.StatusReview
		updated = t
		return nil
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	if enteredReview {
		assigner, err := s.employees.GetByAccountID(ctx, updated.AssignedBy)
		if err != nil {
			slog.Error("failed to resolve task assigner", "task_id", updated.ID, "account_id", updated.AssignedBy, "error", err)
		} else {
			s.notify(ctx, assigner.ID, "Task ready for review", fmt.Sprintf("\"%s\" is ready for your review", updated.Title), notification.PriorityMedium, updated.ID)
		}
	}

	detail, err := s.tasks.GetDetail(ctx, updated.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.toResponse(detail), nil
}

// Review implements task.TaskService. Only a task in review moves to
// completed; any other status is kept.
func (s *TaskServiceImpl) Review(ctx context.Context, actor user.Actor, id string, req task.ReviewRequest) (task.TaskResponse, error) {
	if !actor.IsAdmin() {
		return task.TaskResponse{}, user.ErrAdminPrivilegeRequired
	}

	var reviewed task.Task
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		t, err := s.tasks.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		now := s.clock.Now()

		if _, err := s.tasks.AddReview(txCtx, task.Review{
			TaskID:     t.ID,
			ReviewerID: actor.AccountID,
			Feedback:   req.Feedback,
			Rating:     req.Rating,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("failed to add review: %w", err)
		}

		if t.Status == task.StatusReview {
			t.Status = task.StatusCompleted
			t.CompletedDate = &now
			t.UpdatedAt = now
			if err := s.tasks.UpdateState(txCtx, t); err != nil {
				return fmt.Errorf("failed to complete task: %w", err)
			}
		}
		reviewed = t
		return nil
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	s.notify(ctx, reviewed.AssignedTo, "Task reviewed", fmt.Sprintf("\"%s\" was reviewed (rating %d/5)", reviewed.Title, req.Rating), notification.PriorityMedium, reviewed.ID)

	detail, err := s.tasks.GetDetail(ctx, reviewed.ID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.toResponse(detail), nil
}

// AddAttachment implements task.TaskService.
func (s *TaskServiceImpl) AddAttachment(ctx context.Context, actor user.Actor, id string, r io.Reader, filename string, size int64) (task.AttachmentResponse, error) {
	t, err := s.authorized(ctx, actor, id, false)
	if err != nil {
		return task.AttachmentResponse{}, err
	}

	stored, err := s.fileService.UploadTaskAttachment(ctx, t.ID, file.Upload{Reader: r, FileName: filename, Size: size})
	if err != nil {
		return task.AttachmentResponse{}, err
	}

	a, err := s.tasks.AddAttachment(ctx, task.Attachment{
		TaskID:     t.ID,
		FileName:   stored.FileName,
		FilePath:   stored.Path,
		UploadedBy: actor.AccountID,
		UploadedAt: s.clock.Now(),
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, stored.Path); delErr != nil {
			slog.Warn("failed to remove orphaned task attachment", "path", stored.Path, "error", delErr)
		}
		return task.AttachmentResponse{}, fmt.Errorf("failed to add attachment: %w", err)
	}
	return task.NewAttachmentResponse(a, s.fileService.URL), nil
}

// Get implements task.TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (task.TaskResponse, error) {
	t, err := s.authorized(ctx, actor, id, true)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.toResponse(t), nil
}

// ListMine implements task.TaskService.
func (s *TaskServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter task.TaskFilter) ([]task.TaskResponse, common.PageInfo, error) {
	filter.AssignedTo = &actor.EmployeeID
	return s.List(ctx, filter)
}

// List implements task.TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.TaskResponse, common.PageInfo, error) {
	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]task.TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = s.toResponse(t)
	}
	return resp, common.NewPageInfo(filter.Pagination, total), nil
}

// Delete implements task.TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.tasks.GetByID(ctx, id); err != nil {
		return err
	}
	attachments, err := s.tasks.ListAttachments(ctx, id)
	if err != nil {
		return err
	}

	paths := make([]string, len(attachments))
	for i, a := range attachments {
		paths[i] = a.FilePath
	}
	if err := s.fileService.DeleteFiles(ctx, paths); err != nil {
		slog.Warn("failed to remove task attachments", "task_id", id, "error", err)
	}

	return s.tasks.Delete(ctx, id)
}
