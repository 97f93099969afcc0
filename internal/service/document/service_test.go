package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

type fakeDocuments struct {
	docs map[string]document.Document
	seq  int
}

func (f *fakeDocuments) Create(ctx context.Context, d document.Document) (document.Document, error) {
	f.seq++
	d.ID = fmt.Sprintf("doc-%d", f.seq)
	f.docs[d.ID] = d
	return d, nil
}

func (f *fakeDocuments) GetByID(ctx context.Context, id string) (document.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return document.Document{}, document.ErrDocumentNotFound
	}
	return d, nil
}

func (f *fakeDocuments) List(ctx context.Context, filter document.DocumentFilter) ([]document.Document, int64, error) {
	var out []document.Document
	for i := 1; i <= f.seq; i++ {
		d, ok := f.docs[fmt.Sprintf("doc-%d", i)]
		if !ok {
			continue
		}
		if filter.EmployeeID != nil && d.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDocuments) UpdateReview(ctx context.Context, d document.Document) error {
	if _, ok := f.docs[d.ID]; !ok {
		return document.ErrDocumentNotFound
	}
	f.docs[d.ID] = d
	return nil
}

func (f *fakeDocuments) Delete(ctx context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return document.ErrDocumentNotFound
	}
	delete(f.docs, id)
	return nil
}

var (
	now      = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	ana      = user.Actor{AccountID: "acc-1", EmployeeID: "emp-1", Role: user.RoleEmployee}
	ben      = user.Actor{AccountID: "acc-2", EmployeeID: "emp-2", Role: user.RoleEmployee}
	reviewer = user.Actor{AccountID: "acc-9", EmployeeID: "emp-9", Role: user.RoleAdmin}
	pdf      = []byte("%PDF-1.4 scanned id card")
)

type fixture struct {
	svc   document.DocumentService
	docs  *fakeDocuments
	store *servicetest.Storage
	sink  *servicetest.Sink
}

func newFixture() fixture {
	f := fixture{
		docs:  &fakeDocuments{docs: make(map[string]document.Document)},
		store: servicetest.NewStorage(),
		sink:  &servicetest.Sink{},
	}
	employees := servicetest.NewEmployees(
		employee.Employee{ID: "emp-1", IsActive: true, Role: "employee"},
		employee.Employee{ID: "emp-9", IsActive: true, Role: "admin"},
	)
	f.svc = NewDocumentService(f.docs, employees, file.NewFileService(f.store), f.sink, clock.NewFixed(now))
	return f
}

func (f fixture) upload(t *testing.T, actor user.Actor) document.DocumentResponse {
	t.Helper()
	resp, err := f.svc.Upload(context.Background(), actor, document.UploadRequest{Type: document.TypeIDCard}, bytes.NewReader(pdf), "ktp.pdf", int64(len(pdf)))
	require.NoError(t, err)
	return resp
}

func TestUpload_NotifiesAdmins(t *testing.T) {
	f := newFixture()

	resp := f.upload(t, ana)
	assert.Equal(t, "ktp.pdf", resp.Name)
	assert.Equal(t, document.StatusPending, resp.Status)
	assert.Len(t, f.store.Files, 1)

	notes := f.sink.For("emp-9")
	require.Len(t, notes, 1)
	assert.Equal(t, notification.TypeDocument, notes[0].Type)
	assert.Equal(t, resp.ID, *notes[0].RelatedID)
}

func TestUpload_InvalidFileNotStored(t *testing.T) {
	f := newFixture()

	data := []byte("MZ\x90\x00 binary")
	_, err := f.svc.Upload(context.Background(), ana, document.UploadRequest{Type: document.TypeOther}, bytes.NewReader(data), "setup.exe", int64(len(data)))
	assert.ErrorIs(t, err, file.ErrInvalidFileType)
	assert.Empty(t, f.docs.docs)
	assert.Empty(t, f.store.Files)
}

func TestUpload_NotificationFailureKeepsDocument(t *testing.T) {
	f := newFixture()
	f.sink.Err = errors.New("notifications table locked")

	resp := f.upload(t, ana)
	assert.Contains(t, f.docs.docs, resp.ID)
}

func TestGet_OwnerOrAdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.upload(t, ana)

	_, err := f.svc.Get(ctx, ana, doc.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, reviewer, doc.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, ben, doc.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientRole)
}

func TestReview_RejectionIsHighPriority(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.upload(t, ana)

	resp, err := f.svc.Review(ctx, reviewer, doc.ID, document.ReviewRequest{Status: document.StatusRejected, Comment: servicetest.Ptr("blurry scan")})
	require.NoError(t, err)
	assert.Equal(t, document.StatusRejected, resp.Status)
	assert.Equal(t, "acc-9", *resp.ReviewedBy)
	assert.Equal(t, now.Format(time.RFC3339), *resp.ReviewedAt)

	notes := f.sink.For("emp-1")
	require.Len(t, notes, 1)
	assert.Equal(t, notification.PriorityHigh, notes[0].Priority)
	assert.Contains(t, notes[0].Message, "blurry scan")

	_, err = f.svc.Review(ctx, ana, doc.ID, document.ReviewRequest{Status: document.StatusApproved})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestListMine_OnlyOwnDocuments(t *testing.T) {
	f := newFixture()
	f.upload(t, ana)
	f.upload(t, ben)

	mine, info, err := f.svc.ListMine(context.Background(), ben, document.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "emp-2", mine[0].EmployeeID)
	assert.Equal(t, int64(1), info.TotalItems)
}

func TestDelete_RemovesFile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc := f.upload(t, ana)

	assert.ErrorIs(t, f.svc.Delete(ctx, ben, doc.ID), user.ErrInsufficientRole)
	require.NoError(t, f.svc.Delete(ctx, ana, doc.ID))
	assert.Empty(t, f.docs.docs)
	assert.Empty(t, f.store.Files)
}
