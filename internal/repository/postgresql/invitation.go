package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type invitationRepositoryImpl struct {
	db *database.DB
}

func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

const invitationColumns = `id, email, role, token, used, used_at, expires_at, invited_by, created_at`

func scanInvitation(row pgx.Row, notFound error) (invitation.Invitation, error) {
	var inv invitation.Invitation
	err := row.Scan(&inv.ID, &inv.Email, &inv.Role, &inv.Token, &inv.Used, &inv.UsedAt, &inv.ExpiresAt, &inv.InvitedBy, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, notFound
		}
		return invitation.Invitation{}, err
	}
	return inv, nil
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	if inv.ID == "" {
		inv.ID = newID()
	}

	query := `
		INSERT INTO invitations (id, email, role, token, expires_at, invited_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query, inv.ID, inv.Email, inv.Role, inv.Token, inv.ExpiresAt, inv.InvitedBy, inv.CreatedAt)
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}
	return inv, nil
}

// GetByID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, id string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
	return scanInvitation(row, invitation.ErrInvitationNotFound)
}

// GetByToken implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByToken(ctx context.Context, token string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token)
	return scanInvitation(row, invitation.ErrInvitationInvalid)
}

// HasPendingForEmail implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) HasPendingForEmail(ctx context.Context, email string, now time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE LOWER(email) = LOWER($1) AND used = FALSE AND expires_at > $2
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, email, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	return exists, nil
}

// MarkUsed implements invitation.InvitationRepository. Of several concurrent
// callers holding the same token, only one gets a row back.
func (r *invitationRepositoryImpl) MarkUsed(ctx context.Context, token string, now time.Time) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET used = TRUE, used_at = $2
		WHERE token = $1 AND used = FALSE AND expires_at > $2
		RETURNING ` + invitationColumns

	return scanInvitation(q.QueryRow(ctx, query, token, now), invitation.ErrInvitationInvalid)
}

// List implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) List(ctx context.Context, filter invitation.ListFilter, now time.Time) ([]invitation.Invitation, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	if filter.Status != nil {
		switch *filter.Status {
		case invitation.StatusUsed:
			w.conds = append(w.conds, "used = TRUE")
		case invitation.StatusPending:
			w.add("used = FALSE AND expires_at > $%d", now)
		case invitation.StatusExpired:
			w.add("used = FALSE AND expires_at <= $%d", now)
		}
	}
	where := w.sql()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM invitations`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invitations: %w", err)
	}

	page := filter.Pagination.Normalize()
	query := `SELECT ` + invitationColumns + ` FROM invitations` + where +
		` ORDER BY created_at DESC` + w.page(page.Limit, page.Offset())

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []invitation.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows, invitation.ErrInvitationNotFound)
		if err != nil {
			return nil, 0, err
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invitations, total, nil
}

// Delete implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrInvitationNotFound
	}
	return nil
}

// DeleteExpired implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM invitations WHERE used = FALSE AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}
