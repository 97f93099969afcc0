package welcome

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/welcome"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

type fakeVideos struct {
	videos []welcome.Video
}

func (f *fakeVideos) CreateActive(ctx context.Context, v welcome.Video) (welcome.Video, error) {
	for i := range f.videos {
		f.videos[i].IsActive = false
	}
	v.ID = fmt.Sprintf("vid-%d", len(f.videos)+1)
	v.IsActive = true
	f.videos = append(f.videos, v)
	return v, nil
}

func (f *fakeVideos) GetActive(ctx context.Context) (welcome.Video, error) {
	for _, v := range f.videos {
		if v.IsActive {
			return v, nil
		}
	}
	return welcome.Video{}, welcome.ErrVideoNotFound
}

func (f *fakeVideos) GetByID(ctx context.Context, id string) (welcome.Video, error) {
	for _, v := range f.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return welcome.Video{}, welcome.ErrVideoNotFound
}

func (f *fakeVideos) List(ctx context.Context) ([]welcome.Video, error) {
	return f.videos, nil
}

func (f *fakeVideos) Delete(ctx context.Context, id string) error {
	for i, v := range f.videos {
		if v.ID == id {
			f.videos = append(f.videos[:i], f.videos[i+1:]...)
			return nil
		}
	}
	return welcome.ErrVideoNotFound
}

var (
	admin = user.Actor{AccountID: "acc-9", EmployeeID: "emp-9", Role: user.RoleAdmin}
	staff = user.Actor{AccountID: "acc-1", EmployeeID: "emp-1", Role: user.RoleEmployee}
	webm  = []byte("\x1a\x45\xdf\xa3 tour of the office")
)

func newService() (welcome.VideoService, *fakeVideos, *servicetest.Storage) {
	repo := &fakeVideos{}
	store := servicetest.NewStorage()
	svc := NewVideoService(&servicetest.Tx{}, repo, file.NewFileService(store), clock.NewFixed(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)))
	return svc, repo, store
}

func upload(t *testing.T, svc welcome.VideoService, title string) welcome.VideoResponse {
	t.Helper()
	resp, err := svc.Upload(context.Background(), admin, welcome.UploadRequest{Title: title}, bytes.NewReader(webm), "tour.webm", int64(len(webm)))
	require.NoError(t, err)
	return resp
}

func TestUpload_NewestIsTheOnlyActive(t *testing.T) {
	svc, _, store := newService()
	ctx := context.Background()

	_, err := svc.GetActive(ctx)
	assert.ErrorIs(t, err, welcome.ErrVideoNotFound)

	first := upload(t, svc, "2024 tour")
	second := upload(t, svc, "2025 tour")
	assert.Len(t, store.Files, 2)

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Contains(t, active.URL, "/uploads/welcome/")

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.False(t, all[0].IsActive)
}

func TestUpload_Rejections(t *testing.T) {
	svc, repo, store := newService()
	ctx := context.Background()

	_, err := svc.Upload(ctx, staff, welcome.UploadRequest{Title: "x"}, bytes.NewReader(webm), "tour.webm", int64(len(webm)))
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	pdf := []byte("%PDF-1.4")
	_, err = svc.Upload(ctx, admin, welcome.UploadRequest{Title: "x"}, bytes.NewReader(pdf), "tour.pdf", int64(len(pdf)))
	assert.ErrorIs(t, err, file.ErrInvalidFileType)

	assert.Empty(t, repo.videos)
	assert.Empty(t, store.Files)
}

func TestDelete_RemovesFile(t *testing.T) {
	svc, repo, store := newService()
	v := upload(t, svc, "tour")

	require.NoError(t, svc.Delete(context.Background(), v.ID))
	assert.Empty(t, repo.videos)
	assert.Empty(t, store.Files)
	assert.ErrorIs(t, svc.Delete(context.Background(), v.ID), welcome.ErrVideoNotFound)
}
