package mentorship

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusPaused || s == StatusCompleted
}

type Mentorship struct {
	ID         string
	MentorID   string // employee id
	MenteeID   string // employee id
	AssignedBy string // account id
	Status     Status
	StartDate  time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Goals      []Goal
	Notes      []Note

	// Join
	MentorName string
	MenteeName string
}

type Goal struct {
	ID           string
	MentorshipID string
	Title        string
	Completed    bool
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

type Note struct {
	ID           string
	MentorshipID string
	AuthorID     string // employee id
	Content      string
	CreatedAt    time.Time
}

func (m *Mentorship) IsParticipant(employeeID string) bool {
	return employeeID != "" && (m.MentorID == employeeID || m.MenteeID == employeeID)
}

// Counterpart returns the other participant.
func (m *Mentorship) Counterpart(employeeID string) string {
	if m.MentorID == employeeID {
		return m.MenteeID
	}
	return m.MentorID
}
