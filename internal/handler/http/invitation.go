package http

import (
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InvitationHandler interface {
	// Public endpoint - check an invitation link before registering
	Validate(w http.ResponseWriter, r *http.Request)
	// Admin endpoints
	Issue(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
	}
}

// Validate implements InvitationHandler - public endpoint
func (h *invitationHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "Token is required", nil)
		return
	}

	result, err := h.invitationService.Validate(r.Context(), token)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Issue implements InvitationHandler
func (h *invitationHandlerImpl) Issue(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req invitation.IssueRequest
	if !decodeJSON(w, r, "Issue invitation", &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.invitationService.Issue(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invitation sent successfully", result)
}

// List implements InvitationHandler
func (h *invitationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := invitation.ListFilter{
		Pagination: paginationFromQuery(r),
		Status:     getEnumQueryParam[invitation.Status](r, "status"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, pageInfo, err := h.invitationService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

// Revoke implements InvitationHandler
func (h *invitationHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Invitation ID is required", nil)
		return
	}

	if err := h.invitationService.Revoke(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invitation revoked successfully", nil)
}
