package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/welcome"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type WelcomeVideoHandler interface {
	GetActive(w http.ResponseWriter, r *http.Request)

	// Admin only
	Upload(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type welcomeVideoHandlerImpl struct {
	videoService welcome.VideoService
}

func NewWelcomeVideoHandler(videoService welcome.VideoService) WelcomeVideoHandler {
	return &welcomeVideoHandlerImpl{videoService: videoService}
}

func (h *welcomeVideoHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	result, err := h.videoService.GetActive(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upload expects multipart fields "title", "description" and "video".
func (h *welcomeVideoHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, file.MaxVideoSize+file.MB)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := welcome.UploadRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	f, fileHeader, err := r.FormFile("video")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Video file is required", nil)
			return
		}
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer f.Close()

	result, err := h.videoService.Upload(r.Context(), actor, req, f, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Welcome video uploaded successfully", result)
}

func (h *welcomeVideoHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.videoService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

func (h *welcomeVideoHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.videoService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Welcome video deleted successfully", nil)
}
