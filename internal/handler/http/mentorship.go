package http

import (
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/mentorship"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MentorshipHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	AddNote(w http.ResponseWriter, r *http.Request)
	AddGoal(w http.ResponseWriter, r *http.Request)
	ToggleGoal(w http.ResponseWriter, r *http.Request)

	// Admin only
	Assign(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type mentorshipHandlerImpl struct {
	mentorshipService mentorship.MentorshipService
}

func NewMentorshipHandler(mentorshipService mentorship.MentorshipService) MentorshipHandler {
	return &mentorshipHandlerImpl{mentorshipService: mentorshipService}
}

func (h *mentorshipHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req mentorship.AssignRequest
	if !decodeJSON(w, r, "Assign mentorship", &req) {
		return
	}

	result, err := h.mentorshipService.Assign(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Mentorship created successfully", result)
}

func (h *mentorshipHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := mentorship.MentorshipFilter{
		Pagination:    paginationFromQuery(r),
		Status:        getEnumQueryParam[mentorship.Status](r, "status"),
		ParticipantID: getStringQueryParam(r, "employee_id"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, pageInfo, err := h.mentorshipService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *mentorshipHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := mentorship.MentorshipFilter{
		Pagination: paginationFromQuery(r),
		Status:     getEnumQueryParam[mentorship.Status](r, "status"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, pageInfo, err := h.mentorshipService.ListMine(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *mentorshipHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.mentorshipService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *mentorshipHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req mentorship.SetStatusRequest
	if !decodeJSON(w, r, "SetStatus mentorship", &req) {
		return
	}

	result, err := h.mentorshipService.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Mentorship status updated", result)
}

func (h *mentorshipHandlerImpl) AddNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req mentorship.AddNoteRequest
	if !decodeJSON(w, r, "AddNote", &req) {
		return
	}

	result, err := h.mentorshipService.AddNote(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Note added", result)
}

func (h *mentorshipHandlerImpl) AddGoal(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req mentorship.AddGoalRequest
	if !decodeJSON(w, r, "AddGoal", &req) {
		return
	}

	result, err := h.mentorshipService.AddGoal(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Goal added", result)
}

func (h *mentorshipHandlerImpl) ToggleGoal(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.mentorshipService.ToggleGoal(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "goalID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
