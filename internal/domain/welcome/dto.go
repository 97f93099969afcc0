package welcome

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type UploadRequest struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description" validate:"max=2000"`
}

func (r *UploadRequest) Validate() error {
	return validator.Struct(r)
}

type VideoResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	IsActive    bool   `json:"is_active"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}

func NewVideoResponse(v Video, url string) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		URL:         url,
		IsActive:    v.IsActive,
		UploadedBy:  v.UploadedBy,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
	}
}
