package leave

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

type fakeLeaves struct {
	leaves map[string]leave.Leave
	seq    int
}

func (f *fakeLeaves) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	f.seq++
	l.ID = fmt.Sprintf("leave-%d", f.seq)
	for i := range l.Attachments {
		l.Attachments[i].ID = fmt.Sprintf("%s-att-%d", l.ID, i+1)
		l.Attachments[i].LeaveID = l.ID
	}
	f.leaves[l.ID] = l
	return l, nil
}

func (f *fakeLeaves) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	l, ok := f.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveRequestNotFound
	}
	return l, nil
}

func (f *fakeLeaves) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	var out []leave.Leave
	for i := 1; i <= f.seq; i++ {
		l, ok := f.leaves[fmt.Sprintf("leave-%d", i)]
		if !ok {
			continue
		}
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeaves) Review(ctx context.Context, l leave.Leave) error {
	current, ok := f.leaves[l.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if current.Status != leave.StatusPending {
		return leave.ErrLeaveAlreadyReviewed
	}
	f.leaves[l.ID] = l
	return nil
}

func (f *fakeLeaves) Delete(ctx context.Context, id string) error {
	if _, ok := f.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(f.leaves, id)
	return nil
}

var (
	now   = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	fajar = user.Actor{AccountID: "acc-1", EmployeeID: "emp-1", Email: "fajar@example.com", Role: user.RoleEmployee}
	gita  = user.Actor{AccountID: "acc-2", EmployeeID: "emp-2", Role: user.RoleEmployee}
	hr    = user.Actor{AccountID: "acc-9", EmployeeID: "emp-9", Role: user.RoleAdmin}
	scan  = []byte("%PDF-1.4 doctor's note")
)

type fixture struct {
	svc    leave.LeaveService
	leaves *fakeLeaves
	store  *servicetest.Storage
	sink   *servicetest.Sink
}

func newFixture() fixture {
	f := fixture{
		leaves: &fakeLeaves{leaves: make(map[string]leave.Leave)},
		store:  servicetest.NewStorage(),
		sink:   &servicetest.Sink{},
	}
	employees := servicetest.NewEmployees(
		employee.Employee{ID: "emp-1", Name: "Fajar", IsActive: true, Role: "employee"},
		employee.Employee{ID: "emp-9", Name: "HR", IsActive: true, Role: "admin"},
	)
	f.svc = NewLeaveService(&servicetest.Tx{}, f.leaves, employees, file.NewFileService(f.store), f.sink, clock.NewFixed(now))
	return f
}

func request(start, end string, attachments ...leave.FileUpload) leave.SubmitRequest {
	return leave.SubmitRequest{Type: leave.TypeSick, StartDate: start, EndDate: end, Reason: "flu", Attachments: attachments}
}

func (f fixture) submit(t *testing.T, actor user.Actor) leave.LeaveResponse {
	t.Helper()
	resp, err := f.svc.Submit(context.Background(), actor, request("2025-03-04", "2025-03-06"))
	require.NoError(t, err)
	return resp
}

func TestSubmit(t *testing.T) {
	f := newFixture()

	note := leave.FileUpload{File: bytes.NewReader(scan), Filename: "note.pdf", Size: int64(len(scan))}
	resp, err := f.svc.Submit(context.Background(), fajar, request("2025-03-03", "2025-03-05", note))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalDays)
	assert.Equal(t, leave.StatusPending, resp.Status)
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, "note.pdf", resp.Attachments[0].FileName)
	assert.Len(t, f.store.Files, 1)

	notes := f.sink.For("emp-9")
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeLeave, notes[0].Type)
	assert.Contains(t, notes[0].Message, "Fajar requested 3 day(s)")
}

func TestSubmit_AdminOwnLeaveNotifiesEveryAdmin(t *testing.T) {
	f := newFixture()

	resp := f.submit(t, hr)
	assert.Equal(t, "emp-9", resp.EmployeeID)

	notes := f.sink.For("emp-9")
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeLeave, notes[0].Type)
	assert.Contains(t, notes[0].Message, "HR requested 3 day(s)")
	assert.Empty(t, f.sink.For("emp-1"))
}

func TestSubmit_DateRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, fajar, request("2025-03-02", "2025-03-05"))
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "start_date cannot be in the past", verrs.ToMap()["start_date"])

	_, err = f.svc.Submit(ctx, fajar, request("2025-03-05", "2025-03-05"))
	assert.ErrorContains(t, err, "end_date must be after start_date")
	assert.Empty(t, f.leaves.leaves)
}

func TestSubmit_RejectedAttachmentStoresNothing(t *testing.T) {
	f := newFixture()

	good := leave.FileUpload{File: bytes.NewReader(scan), Filename: "note.pdf", Size: int64(len(scan))}
	bad := leave.FileUpload{File: bytes.NewReader([]byte("plain text")), Filename: "note.txt", Size: 10}
	_, err := f.svc.Submit(context.Background(), fajar, request("2025-03-04", "2025-03-06", good, bad))
	assert.ErrorIs(t, err, file.ErrInvalidFileType)
	assert.Empty(t, f.store.Files)
	assert.Empty(t, f.leaves.leaves)
}

func TestReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	submitted := f.submit(t, fajar)

	_, err := f.svc.Review(ctx, fajar, submitted.ID, leave.ReviewRequest{Status: leave.StatusApproved})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	resp, err := f.svc.Review(ctx, hr, submitted.ID, leave.ReviewRequest{Status: leave.StatusRejected, Comments: servicetest.Ptr("peak season")})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)
	assert.Equal(t, "acc-9", *resp.ReviewedBy)
	assert.Equal(t, now.Format(time.RFC3339), *resp.ReviewedAt)

	notes := f.sink.For("emp-1")
	require.Len(t, notes, 1)
	assert.Equal(t, notification.PriorityHigh, notes[0].Priority)
	assert.Contains(t, notes[0].Message, "peak season")

	_, err = f.svc.Review(ctx, hr, submitted.ID, leave.ReviewRequest{Status: leave.StatusApproved})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyReviewed)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	note := leave.FileUpload{File: bytes.NewReader(scan), Filename: "note.pdf", Size: int64(len(scan))}
	pending, err := f.svc.Submit(ctx, fajar, request("2025-03-04", "2025-03-06", note))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Cancel(ctx, gita, pending.ID), user.ErrInsufficientRole)
	require.NoError(t, f.svc.Cancel(ctx, fajar, pending.ID))
	assert.Empty(t, f.leaves.leaves)
	assert.Empty(t, f.store.Files)

	approved := f.submit(t, fajar)
	_, err = f.svc.Review(ctx, hr, approved.ID, leave.ReviewRequest{Status: leave.StatusApproved})
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Cancel(ctx, fajar, approved.ID), leave.ErrLeaveNotCancellable)
}

func TestGetAndList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mine := f.submit(t, fajar)
	f.submit(t, gita)

	_, err := f.svc.Get(ctx, gita, mine.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientRole)
	_, err = f.svc.Get(ctx, hr, mine.ID)
	assert.NoError(t, err)

	list, info, err := f.svc.ListMine(ctx, fajar, leave.LeaveFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
	assert.Equal(t, int64(1), info.TotalItems)

	all, _, err := f.svc.List(ctx, leave.LeaveFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
