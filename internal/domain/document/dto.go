package document

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
)

type UploadRequest struct {
	Type Type   `form:"type" validate:"required,oneof=id_card resume contract certificate tax_form bank_details other"`
	Name string `form:"name" validate:"max=255"`
}

func (r *UploadRequest) Validate() error {
	return validator.Struct(r)
}

type ReviewRequest struct {
	Status  Status  `json:"status" validate:"required,oneof=approved rejected"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

func (r *ReviewRequest) Validate() error {
	return validator.Struct(r)
}

type DocumentFilter struct {
	common.Pagination
	Status     *Status
	EmployeeID *string
}

func (f *DocumentFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !f.Status.Valid() {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}
	return errs.OrNil()
}

type DocumentResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	Type          Type    `json:"type"`
	Name          string  `json:"name"`
	URL           string  `json:"url"`
	Status        Status  `json:"status"`
	ReviewComment *string `json:"review_comment"`
	ReviewedBy    *string `json:"reviewed_by"`
	ReviewedAt    *string `json:"reviewed_at"`
	UploadedAt    string  `json:"uploaded_at"`
}

func NewDocumentResponse(d Document, url string) DocumentResponse {
	resp := DocumentResponse{
		ID:            d.ID,
		EmployeeID:    d.EmployeeID,
		EmployeeName:  d.EmployeeName,
		Type:          d.Type,
		Name:          d.Name,
		URL:           url,
		Status:        d.Status,
		ReviewComment: d.ReviewComment,
		ReviewedBy:    d.ReviewedBy,
		UploadedAt:    d.UploadedAt.Format(time.RFC3339),
	}
	if d.ReviewedAt != nil {
		s := d.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}
