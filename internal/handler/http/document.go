package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type DocumentHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Admin only
	List(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandlerImpl{documentService: documentService}
}

// Upload implements DocumentHandler. Expects multipart fields "type", "name" and "file".
func (h *documentHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, file.MaxDocumentSize+file.MB)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := document.UploadRequest{
		Type: document.Type(r.FormValue("type")),
		Name: r.FormValue("name"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	f, fileHeader, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Document file is required", nil)
			return
		}
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer f.Close()

	result, err := h.documentService.Upload(r.Context(), actor, req, f, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Document uploaded successfully", result)
}

func (h *documentHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := document.DocumentFilter{
		Pagination: paginationFromQuery(r),
		Status:     getEnumQueryParam[document.Status](r, "status"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, pageInfo, err := h.documentService.ListMine(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *documentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.documentService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *documentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.documentService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document deleted successfully", nil)
}

func (h *documentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := document.DocumentFilter{
		Pagination: paginationFromQuery(r),
		Status:     getEnumQueryParam[document.Status](r, "status"),
		EmployeeID: getStringQueryParam(r, "employee_id"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, pageInfo, err := h.documentService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *documentHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req document.ReviewRequest
	if !decodeJSON(w, r, "Review document", &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.documentService.Review(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document reviewed successfully", result)
}
