package leave

import (
	"io"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

// FileUpload is a multipart file handed down from the handler.
type FileUpload struct {
	File     io.Reader
	Filename string
	Size     int64
}

type SubmitRequest struct {
	Type      Type   `json:"type" validate:"required,oneof=annual sick personal maternity paternity unpaid other"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason" validate:"required,max=2000"`

	Attachments []FileUpload `json:"-"`

	start time.Time
	end   time.Time
}

// Validate checks shape and date ordering. Whether the start lies in the past
// depends on the clock and is checked by the service.
func (r *SubmitRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, ok2 := validator.IsValidDate(r.EndDate)
	if !ok2 {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if ok && ok2 && !end.After(start) {
		errs.Add("end_date", "end_date must be after start_date")
	}
	r.start, r.end = start, end
	return errs.OrNil()
}

func (r *SubmitRequest) Start() time.Time { return r.start }
func (r *SubmitRequest) End() time.Time   { return r.end }

type ReviewRequest struct {
	Status   Status  `json:"status" validate:"required,oneof=approved rejected"`
	Comments *string `json:"comments" validate:"omitempty,max=2000"`
}

func (r *ReviewRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveFilter struct {
	common.Pagination
	Status     *Status
	EmployeeID *string
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !f.Status.Valid() {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}
	return errs.OrNil()
}

type AttachmentResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

type LeaveResponse struct {
	ID           string               `json:"id"`
	EmployeeID   string               `json:"employee_id"`
	EmployeeName string               `json:"employee_name,omitempty"`
	Type         Type                 `json:"type"`
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	TotalDays    int                  `json:"total_days"`
	Reason       string               `json:"reason"`
	Status       Status               `json:"status"`
	ReviewedBy   *string              `json:"reviewed_by"`
	ReviewedAt   *string              `json:"reviewed_at"`
	Comments     *string              `json:"comments"`
	Attachments  []AttachmentResponse `json:"attachments"`
	CreatedAt    string               `json:"created_at"`
}

func NewLeaveResponse(l Leave, urlFor func(path string) string) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		Type:         l.Type,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		TotalDays:    l.TotalDays,
		Reason:       l.Reason,
		Status:       l.Status,
		ReviewedBy:   l.ReviewedBy,
		Comments:     l.Comments,
		Attachments:  []AttachmentResponse{},
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedAt != nil {
		s := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	for _, a := range l.Attachments {
		url := a.FilePath
		if urlFor != nil {
			url = urlFor(a.FilePath)
		}
		resp.Attachments = append(resp.Attachments, AttachmentResponse{ID: a.ID, FileName: a.FileName, URL: url})
	}
	return resp
}
