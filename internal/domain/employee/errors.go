package employee

import "errors"

var (
	ErrEmployeeNotFound         = errors.New("employee not found")
	ErrInvalidOnboardingStatus  = errors.New("invalid onboarding status")
	ErrOnboardingStatusConflict = errors.New("onboarding status does not match checklist progress")
)
