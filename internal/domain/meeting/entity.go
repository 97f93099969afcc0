package meeting

import "time"

type Type string

const (
	TypeOneOnOne   Type = "one-on-one"
	TypeTeam       Type = "team"
	TypeOnboarding Type = "onboarding"
	TypeTraining   Type = "training"
	TypeOther      Type = "other"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Response string

const (
	ResponsePending  Response = "pending"
	ResponseAccepted Response = "accepted"
	ResponseDeclined Response = "declined"
)

type Meeting struct {
	ID              string
	Title           string
	Description     string
	OrganizerID     string // account id
	Date            time.Time
	DurationMinutes int
	Type            Type
	Location        *string
	MeetingLink     *string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Attendees       []Attendee
}

// Attendee is keyed by (meeting id, employee id).
type Attendee struct {
	MeetingID   string
	EmployeeID  string
	Response    Response
	RespondedAt *time.Time

	// Join
	Name string
}

func (m *Meeting) HasAttendee(employeeID string) bool {
	for _, a := range m.Attendees {
		if a.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

func (m *Meeting) AttendeeIDs() []string {
	ids := make([]string, 0, len(m.Attendees))
	for _, a := range m.Attendees {
		ids = append(ids, a.EmployeeID)
	}
	return ids
}
