package invitation

import (
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

// Invitation is a single-use, time-boxed registration grant.
type Invitation struct {
	ID        string
	Email     string
	Role      user.Role
	Token     string
	Used      bool
	UsedAt    *time.Time
	ExpiresAt time.Time
	InvitedBy string
	CreatedAt time.Time
}

// IsUsable reports whether the invitation can still be consumed at now.
func (i Invitation) IsUsable(now time.Time) bool {
	return !i.Used && now.Before(i.ExpiresAt)
}

func (i Invitation) Status(now time.Time) Status {
	switch {
	case i.Used:
		return StatusUsed
	case !now.Before(i.ExpiresAt):
		return StatusExpired
	default:
		return StatusPending
	}
}
