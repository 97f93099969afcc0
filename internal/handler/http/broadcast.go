package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/broadcast"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BroadcastHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)

	// Admin only
	Send(w http.ResponseWriter, r *http.Request)
	ListSent(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type broadcastHandlerImpl struct {
	broadcastService broadcast.BroadcastService
}

func NewBroadcastHandler(broadcastService broadcast.BroadcastService) BroadcastHandler {
	return &broadcastHandlerImpl{broadcastService: broadcastService}
}

// Send accepts a JSON body, or a multipart form with the JSON request in
// field "data" and files under "attachments".
func (h *broadcastHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req broadcast.SendRequest
	if !isMultipart(r) {
		if !decodeJSON(w, r, "Send broadcast", &req) {
			return
		}
	} else {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		headers := formFiles(r, "attachments")
		files, err := openFormFiles(headers)
		if err != nil {
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		defer closeAll(files)

		for i, f := range files {
			req.Attachments = append(req.Attachments, broadcast.FileUpload{
				File:     f,
				Filename: headers[i].Filename,
				Size:     headers[i].Size,
			})
		}
	}

	result, err := h.broadcastService.Send(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Broadcast sent successfully", result)
}

// ListMine returns the caller's broadcasts. Unless unread_only is set, every
// unread item is marked read by this call.
func (h *broadcastHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	unreadOnly := getBoolQueryParam(r, "unread_only", false)
	results, pageInfo, err := h.broadcastService.ListMine(r.Context(), actor, unreadOnly, paginationFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *broadcastHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.broadcastService.MarkRead(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Broadcast marked as read", nil)
}

func (h *broadcastHandlerImpl) ListSent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	results, pageInfo, err := h.broadcastService.ListSent(r.Context(), actor, paginationFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *broadcastHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.broadcastService.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

func (h *broadcastHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.broadcastService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Broadcast deleted successfully", nil)
}
