package welcome

import (
	"context"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/welcome"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
)

type VideoServiceImpl struct {
	tx          database.Transactor
	videos      welcome.VideoRepository
	fileService file.FileService
	clock       clock.Clock
}

func NewVideoService(tx database.Transactor, videoRepo welcome.VideoRepository, fileService file.FileService, clk clock.Clock) welcome.VideoService {
	return &VideoServiceImpl{
		tx:          tx,
		videos:      videoRepo,
		fileService: fileService,
		clock:       clk,
	}
}

func (s *VideoServiceImpl) toResponse(v welcome.Video) welcome.VideoResponse {
	return welcome.NewVideoResponse(v, s.fileService.URL(v.FilePath))
}

// Upload stores the video and makes it the only active one.
func (s *VideoServiceImpl) Upload(ctx context.Context, actor user.Actor, req welcome.UploadRequest, r io.Reader, filename string, size int64) (welcome.VideoResponse, error) {
	if !actor.IsAdmin() {
		return welcome.VideoResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return welcome.VideoResponse{}, err
	}

	stored, err := s.fileService.UploadWelcomeVideo(ctx, file.Upload{Reader: r, FileName: filename, Size: size})
	if err != nil {
		return welcome.VideoResponse{}, err
	}

	var video welcome.Video
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := s.videos.CreateActive(txCtx, welcome.Video{
			Title:       req.Title,
			Description: req.Description,
			FilePath:    stored.Path,
			UploadedBy:  actor.AccountID,
			IsActive:    true,
			CreatedAt:   s.clock.Now(),
		})
		video = created
		return err
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, stored.Path); delErr != nil {
			slog.Warn("failed to remove orphaned welcome video", "path", stored.Path, "error", delErr)
		}
		return welcome.VideoResponse{}, err
	}
	return s.toResponse(video), nil
}

func (s *VideoServiceImpl) GetActive(ctx context.Context) (welcome.VideoResponse, error) {
	v, err := s.videos.GetActive(ctx)
	if err != nil {
		return welcome.VideoResponse{}, err
	}
	return s.toResponse(v), nil
}

func (s *VideoServiceImpl) List(ctx context.Context) ([]welcome.VideoResponse, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]welcome.VideoResponse, len(videos))
	for i, v := range videos {
		resp[i] = s.toResponse(v)
	}
	return resp, nil
}

func (s *VideoServiceImpl) Delete(ctx context.Context, id string) error {
	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, v.ID); err != nil {
		return err
	}
	if err := s.fileService.DeleteFile(ctx, v.FilePath); err != nil {
		slog.Warn("failed to remove welcome video file", "video_id", v.ID, "path", v.FilePath, "error", err)
	}
	return nil
}
