package http

import (
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MeetingHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Respond(w http.ResponseWriter, r *http.Request)

	// Admin only
	Schedule(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type meetingHandlerImpl struct {
	meetingService meeting.MeetingService
}

func NewMeetingHandler(meetingService meeting.MeetingService) MeetingHandler {
	return &meetingHandlerImpl{meetingService: meetingService}
}

func meetingFilterFromQuery(r *http.Request) meeting.MeetingFilter {
	return meeting.MeetingFilter{
		Pagination: paginationFromQuery(r),
		Status:     getEnumQueryParam[meeting.Status](r, "status"),
		Upcoming:   getBoolQueryParam(r, "upcoming", false),
	}
}

func (h *meetingHandlerImpl) Schedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req meeting.ScheduleRequest
	if !decodeJSON(w, r, "Schedule meeting", &req) {
		return
	}

	result, err := h.meetingService.Schedule(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Meeting scheduled successfully", result)
}

func (h *meetingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := meetingFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, pageInfo, err := h.meetingService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *meetingHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := meetingFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, pageInfo, err := h.meetingService.ListMine(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, results, pageInfo)
}

func (h *meetingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.meetingService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *meetingHandlerImpl) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req meeting.RespondRequest
	if !decodeJSON(w, r, "Respond meeting", &req) {
		return
	}

	result, err := h.meetingService.Respond(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Response recorded", result)
}

func (h *meetingHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req meeting.SetStatusRequest
	if !decodeJSON(w, r, "SetStatus meeting", &req) {
		return
	}

	result, err := h.meetingService.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Meeting status updated", result)
}

func (h *meetingHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.meetingService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Meeting deleted successfully", nil)
}
