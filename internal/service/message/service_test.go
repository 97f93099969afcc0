package message

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/message"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

type fakeMessages struct {
	items map[string]*message.Message
	order []string
}

func (f *fakeMessages) Create(ctx context.Context, m message.Message) (message.Message, error) {
	m.ID = fmt.Sprintf("msg-%d", len(f.order)+1)
	stored := m
	f.items[m.ID] = &stored
	f.order = append(f.order, m.ID)
	return m, nil
}

func (f *fakeMessages) GetByID(ctx context.Context, id string) (message.Message, error) {
	m, ok := f.items[id]
	if !ok {
		return message.Message{}, message.ErrMessageNotFound
	}
	return *m, nil
}

func (f *fakeMessages) list(match func(*message.Message) bool) []message.Message {
	var out []message.Message
	for _, id := range f.order {
		if m, ok := f.items[id]; ok && match(m) {
			out = append(out, *m)
		}
	}
	return out
}

func (f *fakeMessages) ListInbox(ctx context.Context, recipientID string, offset, limit int) ([]message.Message, int64, error) {
	out := f.list(func(m *message.Message) bool { return m.RecipientID == recipientID })
	return out, int64(len(out)), nil
}

func (f *fakeMessages) ListSent(ctx context.Context, senderID string, offset, limit int) ([]message.Message, int64, error) {
	out := f.list(func(m *message.Message) bool { return m.SenderID == senderID })
	return out, int64(len(out)), nil
}

func (f *fakeMessages) MarkRead(ctx context.Context, id, recipientID string, at time.Time) error {
	m, ok := f.items[id]
	if !ok || m.RecipientID != recipientID {
		return message.ErrMessageNotFound
	}
	m.IsRead, m.ReadAt = true, &at
	return nil
}

func (f *fakeMessages) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return message.ErrMessageNotFound
	}
	delete(f.items, id)
	return nil
}

const (
	putriID = "8d9e0f1a-2b3c-4d4e-9f5a-6b7c8d9e0f1a"
	rizaID  = "9e0f1a2b-3c4d-4e5f-8a6b-7c8d9e0f1a2b"
	sariID  = "0f1a2b3c-4d5e-4f6a-9b7c-8d9e0f1a2b3c"
)

var (
	now   = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	putri = user.Actor{AccountID: "acc-1", EmployeeID: putriID, Role: user.RoleEmployee}
	riza  = user.Actor{AccountID: "acc-2", EmployeeID: rizaID, Role: user.RoleEmployee}
	sari  = user.Actor{AccountID: "acc-3", EmployeeID: sariID, Role: user.RoleEmployee}
)

func newService() (message.MessageService, *fakeMessages, *servicetest.Sink) {
	repo := &fakeMessages{items: make(map[string]*message.Message)}
	sink := &servicetest.Sink{}
	employees := servicetest.NewEmployees(
		employee.Employee{ID: putriID, Name: "Putri", IsActive: true},
		employee.Employee{ID: rizaID, Name: "Riza", IsActive: true},
	)
	return NewMessageService(repo, employees, sink, clock.NewFixed(now)), repo, sink
}

func TestSend(t *testing.T) {
	svc, _, sink := newService()

	resp, err := svc.Send(context.Background(), putri, message.SendRequest{RecipientID: rizaID, Subject: "Lunch?", Body: "Noon at the canteen"})
	require.NoError(t, err)
	assert.Equal(t, putriID, resp.SenderID)
	assert.Equal(t, "Riza", resp.RecipientName)
	assert.False(t, resp.IsRead)

	notes := sink.For(rizaID)
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeMessage, notes[0].Type)
	assert.Equal(t, "Putri: Lunch?", notes[0].Message)
}

func TestSend_Rejections(t *testing.T) {
	svc, repo, sink := newService()
	ctx := context.Background()

	_, err := svc.Send(ctx, putri, message.SendRequest{RecipientID: putriID, Subject: "me", Body: "me"})
	assert.ErrorIs(t, err, message.ErrMessageToSelf)

	_, err = svc.Send(ctx, putri, message.SendRequest{RecipientID: sariID, Subject: "hi", Body: "hi"})
	assert.ErrorIs(t, err, message.ErrRecipientNotFound)

	assert.Empty(t, repo.items)
	assert.Empty(t, sink.Requests)
}

func TestInboxSentAndMarkRead(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	sent, err := svc.Send(ctx, putri, message.SendRequest{RecipientID: rizaID, Subject: "Docs", Body: "Check the wiki"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkRead(ctx, putri, sent.ID), message.ErrMessageNotFound)
	require.NoError(t, svc.MarkRead(ctx, riza, sent.ID))

	inbox, info, err := svc.Inbox(ctx, riza, common.Pagination{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.True(t, inbox[0].IsRead)
	assert.Equal(t, now.Format(time.RFC3339), *inbox[0].ReadAt)
	assert.Equal(t, int64(1), info.TotalItems)

	outbox, _, err := svc.Sent(ctx, putri, common.Pagination{})
	require.NoError(t, err)
	assert.Len(t, outbox, 1)

	inbox, _, err = svc.Inbox(ctx, putri, common.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestDelete_EitherParty(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()
	first, err := svc.Send(ctx, putri, message.SendRequest{RecipientID: rizaID, Subject: "a", Body: "a"})
	require.NoError(t, err)
	second, err := svc.Send(ctx, putri, message.SendRequest{RecipientID: rizaID, Subject: "b", Body: "b"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, sari, first.ID), user.ErrInsufficientRole)
	require.NoError(t, svc.Delete(ctx, riza, first.ID))
	require.NoError(t, svc.Delete(ctx, putri, second.ID))
	assert.Empty(t, repo.items)
}
