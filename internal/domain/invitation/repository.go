package invitation

import (
	"context"
	"time"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv Invitation) (Invitation, error)
	GetByID(ctx context.Context, id string) (Invitation, error)
	GetByToken(ctx context.Context, token string) (Invitation, error)
	HasPendingForEmail(ctx context.Context, email string, now time.Time) (bool, error)
	// MarkUsed consumes the invitation only if it is unused and unexpired at
	// now. It returns ErrInvitationInvalid when no row qualified.
	MarkUsed(ctx context.Context, token string, now time.Time) (Invitation, error)
	List(ctx context.Context, filter ListFilter, now time.Time) ([]Invitation, int64, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
