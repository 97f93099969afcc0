package onboarding

import "errors"

var (
	ErrStepNotFound = errors.New("onboarding step not found")
)
