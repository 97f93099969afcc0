package mentorship

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type AssignRequest struct {
	MentorID string   `json:"mentor_id" validate:"required,uuid"`
	MenteeID string   `json:"mentee_id" validate:"required,uuid"`
	Goals    []string `json:"goals" validate:"omitempty,dive,required,max=255"`
}

func (r *AssignRequest) Validate() error {
	return validator.Struct(r)
}

type SetStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=active paused completed"`
}

func (r *SetStatusRequest) Validate() error {
	return validator.Struct(r)
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

func (r *AddNoteRequest) Validate() error {
	return validator.Struct(r)
}

type AddGoalRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

func (r *AddGoalRequest) Validate() error {
	return validator.Struct(r)
}

type MentorshipFilter struct {
	common.Pagination
	Status *Status
	// ParticipantID matches either side of the pairing.
	ParticipantID *string
}

func (f *MentorshipFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !f.Status.Valid() {
		errs.Add("status", "status must be one of: active, paused, completed")
	}
	return errs.OrNil()
}

type GoalResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at"`
}

func NewGoalResponse(g Goal) GoalResponse {
	resp := GoalResponse{ID: g.ID, Title: g.Title, Completed: g.Completed}
	if g.CompletedAt != nil {
		s := g.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

type NoteResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func NewNoteResponse(n Note) NoteResponse {
	return NoteResponse{ID: n.ID, AuthorID: n.AuthorID, Content: n.Content, CreatedAt: n.CreatedAt.Format(time.RFC3339)}
}

type MentorshipResponse struct {
	ID         string         `json:"id"`
	MentorID   string         `json:"mentor_id"`
	MentorName string         `json:"mentor_name,omitempty"`
	MenteeID   string         `json:"mentee_id"`
	MenteeName string         `json:"mentee_name,omitempty"`
	AssignedBy string         `json:"assigned_by"`
	Status     Status         `json:"status"`
	StartDate  string         `json:"start_date"`
	EndDate    *string        `json:"end_date"`
	Goals      []GoalResponse `json:"goals"`
	Notes      []NoteResponse `json:"notes"`
	CreatedAt  string         `json:"created_at"`
}

func NewMentorshipResponse(m Mentorship) MentorshipResponse {
	resp := MentorshipResponse{
		ID:         m.ID,
		MentorID:   m.MentorID,
		MentorName: m.MentorName,
		MenteeID:   m.MenteeID,
		MenteeName: m.MenteeName,
		AssignedBy: m.AssignedBy,
		Status:     m.Status,
		StartDate:  m.StartDate.Format("2006-01-02"),
		Goals:      make([]GoalResponse, 0, len(m.Goals)),
		Notes:      make([]NoteResponse, 0, len(m.Notes)),
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
	if m.EndDate != nil {
		s := m.EndDate.Format("2006-01-02")
		resp.EndDate = &s
	}
	for _, g := range m.Goals {
		resp.Goals = append(resp.Goals, NewGoalResponse(g))
	}
	for _, n := range m.Notes {
		resp.Notes = append(resp.Notes, NewNoteResponse(n))
	}
	return resp
}
