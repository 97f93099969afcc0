package http

import (
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OnboardingHandler interface {
	ListSteps(w http.ResponseWriter, r *http.Request)
	CompleteStep(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
	// GetEmployeeStatus is the admin view of any employee's progress.
	GetEmployeeStatus(w http.ResponseWriter, r *http.Request)
}

type onboardingHandlerImpl struct {
	onboardingService onboarding.OnboardingService
}

func NewOnboardingHandler(onboardingService onboarding.OnboardingService) OnboardingHandler {
	return &onboardingHandlerImpl{onboardingService: onboardingService}
}

func (h *onboardingHandlerImpl) ListSteps(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	steps, err := h.onboardingService.ListSteps(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, steps)
}

func (h *onboardingHandlerImpl) CompleteStep(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	stepID := chi.URLParam(r, "id")
	if stepID == "" {
		response.BadRequest(w, "Step ID is required", nil)
		return
	}

	status, err := h.onboardingService.CompleteStep(r.Context(), actor.EmployeeID, stepID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Step completed", status)
}

func (h *onboardingHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	status, err := h.onboardingService.GetStatus(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

func (h *onboardingHandlerImpl) GetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	status, err := h.onboardingService.GetStatus(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}
