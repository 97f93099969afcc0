package document

import "time"

type Type string

const (
	TypeIDCard      Type = "id_card"
	TypeResume      Type = "resume"
	TypeContract    Type = "contract"
	TypeCertificate Type = "certificate"
	TypeTaxForm     Type = "tax_form"
	TypeBankDetails Type = "bank_details"
	TypeOther       Type = "other"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type Document struct {
	ID            string
	EmployeeID    string
	Type          Type
	Name          string
	FilePath      string
	Status        Status
	ReviewComment *string
	ReviewedBy    *string
	ReviewedAt    *time.Time
	UploadedAt    time.Time

	// Join
	EmployeeName string
}
