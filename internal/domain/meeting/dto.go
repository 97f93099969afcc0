package meeting

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type ScheduleRequest struct {
	Title           string   `json:"title" validate:"required,max=255"`
	Description     string   `json:"description" validate:"max=5000"`
	Date            string   `json:"date" validate:"required"`
	DurationMinutes int      `json:"duration" validate:"required,gte=15,lte=480"`
	Type            Type     `json:"type" validate:"omitempty,oneof=one-on-one team onboarding training other"`
	Location        *string  `json:"location" validate:"omitempty,max=255"`
	MeetingLink     *string  `json:"meeting_link" validate:"omitempty,url"`
	Attendees       []string `json:"attendees" validate:"required,min=1,dive,uuid"`

	date time.Time
}

func (r *ScheduleRequest) Validate() error {
	if r.Type == "" {
		r.Type = TypeOther
	}
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	date, ok := validator.IsValidDateTime(r.Date)
	if !ok {
		errs.Add("date", "date must be an RFC3339 timestamp")
	}
	r.date = date.UTC()
	r.Attendees = dedupe(r.Attendees)
	return errs.OrNil()
}

func (r *ScheduleRequest) When() time.Time { return r.date }

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type RespondRequest struct {
	Response Response `json:"response" validate:"required,oneof=accepted declined"`
}

func (r *RespondRequest) Validate() error {
	return validator.Struct(r)
}

type SetStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=scheduled in-progress completed cancelled"`
}

func (r *SetStatusRequest) Validate() error {
	return validator.Struct(r)
}

type MeetingFilter struct {
	common.Pagination
	Status     *Status
	AttendeeID *string
	// Upcoming asks the service to fill UpcomingFrom with the current time.
	Upcoming bool
	// UpcomingFrom limits results to meetings on or after this instant.
	UpcomingFrom *time.Time
}

func (f *MeetingFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !f.Status.Valid() {
		errs.Add("status", "status must be one of: scheduled, in-progress, completed, cancelled")
	}
	return errs.OrNil()
}

type AttendeeResponse struct {
	EmployeeID  string   `json:"employee_id"`
	Name        string   `json:"name,omitempty"`
	Response    Response `json:"response"`
	RespondedAt *string  `json:"responded_at"`
}

type MeetingResponse struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	OrganizerID     string             `json:"organizer_id"`
	Date            string             `json:"date"`
	DurationMinutes int                `json:"duration"`
	Type            Type               `json:"type"`
	Location        *string            `json:"location"`
	MeetingLink     *string            `json:"meeting_link"`
	Status          Status             `json:"status"`
	Attendees       []AttendeeResponse `json:"attendees"`
	CreatedAt       string             `json:"created_at"`
}

func NewMeetingResponse(m Meeting) MeetingResponse {
	resp := MeetingResponse{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		OrganizerID:     m.OrganizerID,
		Date:            m.Date.Format(time.RFC3339),
		DurationMinutes: m.DurationMinutes,
		Type:            m.Type,
		Location:        m.Location,
		MeetingLink:     m.MeetingLink,
		Status:          m.Status,
		Attendees:       make([]AttendeeResponse, 0, len(m.Attendees)),
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
	for _, a := range m.Attendees {
		ar := AttendeeResponse{EmployeeID: a.EmployeeID, Name: a.Name, Response: a.Response}
		if a.RespondedAt != nil {
			s := a.RespondedAt.Format(time.RFC3339)
			ar.RespondedAt = &s
		}
		resp.Attendees = append(resp.Attendees, ar)
	}
	return resp
}
