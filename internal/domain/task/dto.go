package task

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type AssignRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=5000"`
	AssignedTo  string   `json:"assigned_to" validate:"required,uuid"`
	Priority    Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string  `json:"due_date"`

	dueDate *time.Time
}

func (r *AssignRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if r.DueDate != nil && *r.DueDate != "" {
		due, ok := parseDue(*r.DueDate)
		if !ok {
			errs.Add("due_date", "due_date must be YYYY-MM-DD or RFC3339")
		} else {
			r.dueDate = &due
		}
	}
	return errs.OrNil()
}

// Due returns the parsed due date, available after Validate.
func (r *AssignRequest) Due() *time.Time {
	return r.dueDate
}

// parseDue accepts a date (end of that day, UTC) or a full timestamp.
func parseDue(s string) (time.Time, bool) {
	if d, ok := validator.IsValidDate(s); ok {
		return d.Add(24*time.Hour - time.Second), true
	}
	if t, ok := validator.IsValidDateTime(s); ok {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// UpdateProgressRequest applies explicit fields first; derivations run after.
type UpdateProgressRequest struct {
	Progress *int    `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Status   *Status `json:"status" validate:"omitempty,oneof=assigned in-progress review completed overdue"`
	Notes    *string `json:"notes" validate:"omitempty,max=5000"`
	Message  *string `json:"message" validate:"omitempty,max=2000"`
}

func (r *UpdateProgressRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Progress != nil && (*r.Progress < 0 || *r.Progress > 100) {
		errs.Add("progress", ErrInvalidProgress.Error())
		return errs
	}
	return validator.Struct(r)
}

type ReviewRequest struct {
	Feedback string `json:"feedback" validate:"required,max=5000"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
}

func (r *ReviewRequest) Validate() error {
	return validator.Struct(r)
}

type TaskFilter struct {
	common.Pagination
	Status     *Status
	AssignedTo *string
}

func (f *TaskFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !f.Status.Valid() {
		errs.Add("status", "status must be one of: assigned, in-progress, review, completed, overdue")
	}
	return errs.OrNil()
}

type AttachmentResponse struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	URL        string `json:"url"`
	UploadedBy string `json:"uploaded_by"`
	UploadedAt string `json:"uploaded_at"`
}

type UpdateResponse struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Message   string `json:"message"`
	Progress  int    `json:"progress"`
	CreatedAt string `json:"created_at"`
}

type ReviewResponse struct {
	ID         string `json:"id"`
	ReviewerID string `json:"reviewer_id"`
	Feedback   string `json:"feedback"`
	Rating     int    `json:"rating"`
	CreatedAt  string `json:"created_at"`
}

type TaskResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	AssignedTo    string               `json:"assigned_to"`
	AssigneeName  string               `json:"assignee_name,omitempty"`
	AssignedBy    string               `json:"assigned_by"`
	Priority      Priority             `json:"priority"`
	Status        Status               `json:"status"`
	Progress      int                  `json:"progress"`
	DueDate       *string              `json:"due_date"`
	Notes         *string              `json:"notes"`
	CompletedDate *string              `json:"completed_date"`
	Attachments   []AttachmentResponse `json:"attachments,omitempty"`
	Updates       []UpdateResponse     `json:"updates,omitempty"`
	Reviews       []ReviewResponse     `json:"reviews,omitempty"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// NewTaskResponse maps a task; urlFor resolves attachment paths.
func NewTaskResponse(t Task, urlFor func(path string) string) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		AssignedTo:    t.AssignedTo,
		AssigneeName:  t.AssigneeName,
		AssignedBy:    t.AssignedBy,
		Priority:      t.Priority,
		Status:        t.Status,
		Progress:      t.Progress,
		DueDate:       formatTime(t.DueDate),
		Notes:         t.Notes,
		CompletedDate: formatTime(t.CompletedDate),
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
	for _, a := range t.Attachments {
		resp.Attachments = append(resp.Attachments, NewAttachmentResponse(a, urlFor))
	}
	for _, u := range t.Updates {
		resp.Updates = append(resp.Updates, UpdateResponse{
			ID:        u.ID,
			AuthorID:  u.AuthorID,
			Message:   u.Message,
			Progress:  u.Progress,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}
	for _, r := range t.Reviews {
		resp.Reviews = append(resp.Reviews, ReviewResponse{
			ID:         r.ID,
			ReviewerID: r.ReviewerID,
			Feedback:   r.Feedback,
			Rating:     r.Rating,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func NewAttachmentResponse(a Attachment, urlFor func(path string) string) AttachmentResponse {
	url := a.FilePath
	if urlFor != nil {
		url = urlFor(a.FilePath)
	}
	return AttachmentResponse{
		ID:         a.ID,
		FileName:   a.FileName,
		URL:        url,
		UploadedBy: a.UploadedBy,
		UploadedAt: a.UploadedAt.Format(time.RFC3339),
	}
}
