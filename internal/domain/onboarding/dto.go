package onboarding

import (
	"math"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
)

type StepResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Order       int     `json:"order"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at"`
}

func NewStepResponse(s Step) StepResponse {
	resp := StepResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Order:       s.OrderIndex,
		Completed:   s.Completed,
	}
	if s.CompletedAt != nil {
		v := s.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}

type StatusResponse struct {
	Status         employee.OnboardingStatus `json:"status"`
	Progress       int                       `json:"progress"`
	TotalSteps     int                       `json:"total_steps"`
	CompletedSteps int                       `json:"completed_steps"`
}

// Progress returns the completed share as a whole percentage, 0 for an empty checklist.
func Progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// DeriveStatus is completed iff every step is completed.
func DeriveStatus(completed, total int) employee.OnboardingStatus {
	if total > 0 && completed == total {
		return employee.OnboardingCompleted
	}
	return employee.OnboardingInProgress
}
