package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/message"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
)

type MessageServiceImpl struct {
	messages  message.MessageRepository
	employees employee.EmployeeRepository
	notifier  notification.Sink
	clock     clock.Clock
}

func NewMessageService(messageRepo message.MessageRepository, employeeRepo employee.EmployeeRepository, notifier notification.Sink, clk clock.Clock) message.MessageService {
	return &MessageServiceImpl{
		messages:  messageRepo,
		employees: employeeRepo,
		notifier:  notifier,
		clock:     clk,
	}
}

func (s *MessageServiceImpl) Send(ctx context.Context, actor user.Actor, req message.SendRequest) (message.MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return message.MessageResponse{}, err
	}
	if req.RecipientID == actor.EmployeeID {
		return message.MessageResponse{}, message.ErrMessageToSelf
	}

	recipient, err := s.employees.GetByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return message.MessageResponse{}, message.ErrRecipientNotFound
		}
		return message.MessageResponse{}, err
	}

	m, err := s.messages.Create(ctx, message.Message{
		SenderID:    actor.EmployeeID,
		RecipientID: recipient.ID,
		Subject:     req.Subject,
		Body:        req.Body,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return message.MessageResponse{}, fmt.Errorf("failed to send message: %w", err)
	}
	m.RecipientName = recipient.Name

	sender := actor.Email
	if emp, err := s.employees.GetByID(ctx, actor.EmployeeID); err == nil {
		sender = emp.Name
		m.SenderName = emp.Name
	}

	relatedType := "message"
	if _, err := s.notifier.Create(ctx, notification.CreateNotificationRequest{
		RecipientID: recipient.ID,
		Title:       "New message",
		Message:     fmt.Sprintf("%s: %s", sender, m.Subject),
		Type:        notification.TypeMessage,
		Priority:    notification.PriorityLow,
		RelatedID:   &m.ID,
		RelatedType: &relatedType,
	}); err != nil {
		slog.Error("failed to notify message recipient", "message_id", m.ID, "error", err)
	}

	return message.NewMessageResponse(m), nil
}

func toResponses(items []message.Message) []message.MessageResponse {
	resp := make([]message.MessageResponse, len(items))
	for i, m := range items {
		resp[i] = message.NewMessageResponse(m)
	}
	return resp
}

func (s *MessageServiceImpl) Inbox(ctx context.Context, actor user.Actor, page common.Pagination) ([]message.MessageResponse, common.PageInfo, error) {
	page = page.Normalize()
	items, total, err := s.messages.ListInbox(ctx, actor.EmployeeID, page.Offset(), page.Limit)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	return toResponses(items), common.NewPageInfo(page, total), nil
}

func (s *MessageServiceImpl) Sent(ctx context.Context, actor user.Actor, page common.Pagination) ([]message.MessageResponse, common.PageInfo, error) {
	page = page.Normalize()
	items, total, err := s.messages.ListSent(ctx, actor.EmployeeID, page.Offset(), page.Limit)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	return toResponses(items), common.NewPageInfo(page, total), nil
}

// MarkRead only affects messages addressed to the caller.
func (s *MessageServiceImpl) MarkRead(ctx context.Context, actor user.Actor, id string) error {
	return s.messages.MarkRead(ctx, id, actor.EmployeeID, s.clock.Now())
}

// Delete is allowed for either party.
func (s *MessageServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.SenderID != actor.EmployeeID && m.RecipientID != actor.EmployeeID {
		return user.ErrInsufficientRole
	}
	return s.messages.Delete(ctx, m.ID)
}
