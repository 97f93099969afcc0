package onboarding

import "time"

// Step is one item of an employee's onboarding checklist.
type Step struct {
	ID          string
	EmployeeID  string
	Title       string
	Description string
	OrderIndex  int
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// StepTemplate is one entry of the fixed checklist seeded at registration.
type StepTemplate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}
