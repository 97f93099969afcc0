package broadcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/broadcast"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
)

const relatedType = "broadcast"

type BroadcastServiceImpl struct {
	tx          database.Transactor
	broadcasts  broadcast.BroadcastRepository
	employees   employee.EmployeeRepository
	fileService file.FileService
	notifier    notification.Sink
	clock       clock.Clock
}

func NewBroadcastService(
	tx database.Transactor,
	broadcastRepo broadcast.BroadcastRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	notifier notification.Sink,
	clk clock.Clock,
) broadcast.BroadcastService {
	return &BroadcastServiceImpl{
		tx:          tx,
		broadcasts:  broadcastRepo,
		employees:   employeeRepo,
		fileService: fileService,
		notifier:    notifier,
		clock:       clk,
	}
}

// recipients resolves the audience of a broadcast. Explicit ids must all
// exist.
func (s *BroadcastServiceImpl) recipients(ctx context.Context, req broadcast.SendRequest) ([]string, error) {
	if req.SendToAll {
		ids, err := s.employees.ListActiveIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active employees: %w", err)
		}
		return ids, nil
	}

	found, err := s.employees.GetByIDs(ctx, req.Recipients)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}
	ids := make([]string, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, emp := range found {
		seen[emp.ID] = struct{}{}
		ids = append(ids, emp.ID)
	}
	for _, id := range req.Recipients {
		if _, ok := seen[id]; !ok {
			return nil, broadcast.ErrRecipientNotFound
		}
	}
	return ids, nil
}

// Send implements broadcast.BroadcastService. The broadcast and its recipient
// rows are written atomically; notifications follow and may fail on their own.
func (s *BroadcastServiceImpl) Send(ctx context.Context, actor user.Actor, req broadcast.SendRequest) (broadcast.BroadcastResponse, error) {
	if !actor.IsAdmin() {
		return broadcast.BroadcastResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return broadcast.BroadcastResponse{}, err
	}

	recipientIDs, err := s.recipients(ctx, req)
	if err != nil {
		return broadcast.BroadcastResponse{}, err
	}
	if len(recipientIDs) == 0 {
		return broadcast.BroadcastResponse{}, broadcast.ErrNoRecipients
	}

	var stored []file.Stored
	for _, upload := range req.Attachments {
		st, err := s.fileService.UploadBroadcastAttachment(ctx, file.Upload{Reader: upload.File, FileName: upload.Filename, Size: upload.Size})
		if err != nil {
			s.discard(ctx, stored)
			return broadcast.BroadcastResponse{}, err
		}
		stored = append(stored, st)
	}

	b := broadcast.Broadcast{
		Title:     req.Title,
		Message:   req.Message,
		SenderID:  actor.AccountID,
		Type:      req.Type,
		Priority:  req.Priority,
		CreatedAt: s.clock.Now(),
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := s.broadcasts.Create(txCtx, b)
		if err != nil {
			return err
		}
		if err := s.broadcasts.AddRecipients(txCtx, created.ID, recipientIDs); err != nil {
			return err
		}
		for _, st := range stored {
			a, err := s.broadcasts.AddAttachment(txCtx, broadcast.Attachment{
				BroadcastID: created.ID,
				FileName:    st.FileName,
				FilePath:    st.Path,
			})
			if err != nil {
				return fmt.Errorf("failed to add broadcast attachment: %w", err)
			}
			created.Attachments = append(created.Attachments, a)
		}
		for _, id := range recipientIDs {
			created.Recipients = append(created.Recipients, broadcast.Recipient{BroadcastID: created.ID, EmployeeID: id})
		}
		b = created
		return nil
	})
	if err != nil {
		s.discard(ctx, stored)
		return broadcast.BroadcastResponse{}, err
	}

	s.fanOut(ctx, b, recipientIDs)
	return broadcast.NewBroadcastResponse(b, s.fileService.URL), nil
}

func (s *BroadcastServiceImpl) fanOut(ctx context.Context, b broadcast.Broadcast, recipientIDs []string) {
	related := relatedType
	priority := notification.Priority(b.Priority)
	if b.Type == broadcast.TypeUrgent {
		priority = notification.PriorityHigh
	}
	preview := broadcast.Preview(b.Message)

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: id,
			Title:       b.Title,
			Message:     preview,
			Type:        notification.TypeBroadcast,
			Priority:    priority,
			RelatedID:   &b.ID,
			RelatedType: &related,
		})
	}
	if _, err := s.notifier.CreateBulk(ctx, reqs); err != nil {
		slog.Error("failed to fan out broadcast notifications",
			"broadcast_id", b.ID,
			"recipients", len(reqs),
			"error", err,
		)
	}
}

func (s *BroadcastServiceImpl) discard(ctx context.Context, stored []file.Stored) {
	if len(stored) == 0 {
		return
	}
	paths := make([]string, len(stored))
	for i, st := range stored {
		paths[i] = st.Path
	}
	if err := s.fileService.DeleteFiles(ctx, paths); err != nil {
		slog.Warn("failed to remove broadcast attachments", "error", err)
	}
}

// ListMine implements broadcast.BroadcastService.
func (s *BroadcastServiceImpl) ListMine(ctx context.Context, actor user.Actor, unreadOnly bool, page common.Pagination) ([]broadcast.ReceivedResponse, common.PageInfo, error) {
	page = page.Normalize()
	items, total, err := s.broadcasts.ListForRecipient(ctx, actor.EmployeeID, unreadOnly, page.Offset(), page.Limit)
	if err != nil {
		return nil, common.PageInfo{}, err
	}

	if !unreadOnly {
		marked, err := s.broadcasts.MarkAllRead(ctx, actor.EmployeeID, s.clock.Now())
		if err != nil {
			slog.Warn("failed to mark broadcasts read", "employee_id", actor.EmployeeID, "error", err)
		} else if marked > 0 {
			slog.Debug("marked broadcasts read", "employee_id", actor.EmployeeID, "count", marked)
		}
	}

	resp := make([]broadcast.ReceivedResponse, len(items))
	for i, r := range items {
		resp[i] = broadcast.NewReceivedResponse(r, s.fileService.URL)
	}
	return resp, common.NewPageInfo(page, total), nil
}

func (s *BroadcastServiceImpl) MarkRead(ctx context.Context, actor user.Actor, id string) error {
	return s.broadcasts.MarkRead(ctx, id, actor.EmployeeID, s.clock.Now())
}

func (s *BroadcastServiceImpl) ListSent(ctx context.Context, actor user.Actor, page common.Pagination) ([]broadcast.BroadcastResponse, common.PageInfo, error) {
	page = page.Normalize()
	items, total, err := s.broadcasts.ListBySender(ctx, actor.AccountID, page.Offset(), page.Limit)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]broadcast.BroadcastResponse, len(items))
	for i, b := range items {
		resp[i] = broadcast.NewBroadcastResponse(b, s.fileService.URL)
	}
	return resp, common.NewPageInfo(page, total), nil
}

func (s *BroadcastServiceImpl) Stats(ctx context.Context, id string) (broadcast.Stats, error) {
	return s.broadcasts.Stats(ctx, id)
}

// Delete removes the broadcast, then its attachment files.
func (s *BroadcastServiceImpl) Delete(ctx context.Context, id string) error {
	b, err := s.broadcasts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.broadcasts.Delete(ctx, b.ID); err != nil {
		return err
	}
	paths := make([]string, 0, len(b.Attachments))
	for _, a := range b.Attachments {
		paths = append(paths, a.FilePath)
	}
	if err := s.fileService.DeleteFiles(ctx, paths); err != nil {
		slog.Warn("failed to remove broadcast attachments", "broadcast_id", b.ID, "error", err)
	}
	return nil
}
