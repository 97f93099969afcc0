package task

import "time"

type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusReview, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID            string
	Title         string
	Description   string
	AssignedTo    string // employee id
	AssignedBy    string // account id
	Priority      Priority
	Status        Status
	Progress      int
	DueDate       *time.Time
	Notes         *string
	CompletedDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Attachments []Attachment
	Updates     []Update
	Reviews     []Review

	// Join
	AssigneeName string
}

type Attachment struct {
	ID         string
	TaskID     string
	FileName   string
	FilePath   string
	UploadedBy string
	UploadedAt time.Time
}

// Update is an append-only progress log entry.
type Update struct {
	ID        string
	TaskID    string
	AuthorID  string
	Message   string
	Progress  int
	CreatedAt time.Time
}

type Review struct {
	ID         string
	TaskID     string
	ReviewerID string
	Feedback   string
	Rating     int
	CreatedAt  time.Time
}

// ApplyDerivations runs the automatic status rules after explicit field
// changes have been applied. Order matters: the overdue overlay comes last and
// wins over review.
func (t *Task) ApplyDerivations(now time.Time) {
	if t.Progress == 100 && t.Status != StatusCompleted {
		t.Status = StatusReview
	}
	if t.Progress > 0 && t.Status == StatusAssigned {
		t.Status = StatusInProgress
	}
	if t.DueDate != nil && now.After(*t.DueDate) && t.Status != StatusCompleted {
		t.Status = StatusOverdue
	}
}

// IsAssignee reports whether the employee is the assignee.
func (t *Task) IsAssignee(employeeID string) bool {
	return t.AssignedTo == employeeID
}
