package cron

import (
	"context"
	"log/slog"
	"time"
)

const purgeExpiredInvitationsInterval = time.Hour

type InvitationPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type InvitationJobs struct {
	purger InvitationPurger
}

func NewInvitationJobs(purger InvitationPurger) *InvitationJobs {
	return &InvitationJobs{purger: purger}
}

func (j *InvitationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_invitations", purgeExpiredInvitationsInterval, j.PurgeExpiredInvitations)
}

// PurgeExpiredInvitations deletes unused invitations past their expiry.
func (j *InvitationJobs) PurgeExpiredInvitations(ctx context.Context) error {
	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("expired invitations purged", "count", n)
	}
	return nil
}
