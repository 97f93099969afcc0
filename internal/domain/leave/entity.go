package leave

import (
	"math"
	"time"
)

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypePersonal  Type = "personal"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeUnpaid    Type = "unpaid"
	TypeOther     Type = "other"
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

type Leave struct {
	ID          string
	EmployeeID  string
	Type        Type
	StartDate   time.Time
	EndDate     time.Time
	TotalDays   int
	Reason      string
	Status      Status
	ReviewedBy  *string
	ReviewedAt  *time.Time
	Comments    *string
	CreatedAt   time.Time
	Attachments []Attachment

	// Join
	EmployeeName string
}

type Attachment struct {
	ID       string
	LeaveID  string
	FileName string
	FilePath string
}

// TotalDays counts both ends: ceil((end-start)/day) + 1.
func TotalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}
