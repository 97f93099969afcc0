package employee

import "time"

type OnboardingStatus string

const (
	OnboardingPending    OnboardingStatus = "pending"
	OnboardingInProgress OnboardingStatus = "in-progress"
	OnboardingCompleted  OnboardingStatus = "completed"
	OnboardingRejected   OnboardingStatus = "rejected"
)

func (s OnboardingStatus) Valid() bool {
	switch s {
	case OnboardingPending, OnboardingInProgress, OnboardingCompleted, OnboardingRejected:
		return true
	}
	return false
}

// Employee is the profile attached 1:1 to an account.
type Employee struct {
	ID                    string
	AccountID             string
	Name                  string
	Email                 string
	Department            *string
	Position              *string
	StartDate             time.Time
	OnboardingStatus      OnboardingStatus
	Phone                 *string
	Address               *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	AvatarPath            *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Join
	Role     string
	IsActive bool
}
