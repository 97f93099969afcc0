package invitation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/email"
)

const tokenBytes = 32

// LinkFunc builds the registration link mailed to the invitee.
type LinkFunc func(token string) string

type InvitationServiceImpl struct {
	invitations invitation.InvitationRepository
	users       user.UserRepository
	mailer      email.EmailService
	link        LinkFunc
	expiry      time.Duration
	clock       clock.Clock
}

func NewInvitationService(
	invitationRepository invitation.InvitationRepository,
	userRepository user.UserRepository,
	mailer email.EmailService,
	link LinkFunc,
	expiry time.Duration,
	clk clock.Clock,
) invitation.InvitationService {
	return &InvitationServiceImpl{
		invitations: invitationRepository,
		users:       userRepository,
		mailer:      mailer,
		link:        link,
		expiry:      expiry,
		clock:       clk,
	}
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue implements invitation.InvitationService.
func (s *InvitationServiceImpl) Issue(ctx context.Context, issuer user.Actor, req invitation.IssueRequest) (invitation.InvitationResponse, error) {
	if !issuer.IsAdmin() {
		return invitation.InvitationResponse{}, user.ErrAdminPrivilegeRequired
	}

	now := s.clock.Now()

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return invitation.InvitationResponse{}, invitation.ErrEmailAlreadyRegistered
	}

	pending, err := s.invitations.HasPendingForEmail(ctx, req.Email, now)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	if pending {
		return invitation.InvitationResponse{}, invitation.ErrPendingInvitationExists
	}

	token, err := generateToken()
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inv, err := s.invitations.Create(ctx, invitation.Invitation{
		Email:     req.Email,
		Role:      req.Role,
		Token:     token,
		ExpiresAt: now.Add(s.expiry),
		InvitedBy: issuer.AccountID,
		CreatedAt: now,
	})
	if err != nil {
		return invitation.InvitationResponse{}, err
	}

	link := s.link(inv.Token)
	go func() {
		if err := s.mailer.SendInvitation(inv.Email, link, string(inv.Role), inv.ExpiresAt); err != nil {
			slog.Error("failed to send invitation email", "invitation_id", inv.ID, "to", inv.Email, "error", err)
		}
	}()

	resp := invitation.NewInvitationResponse(inv, now)
	resp.Link = link
	return resp, nil
}

// Validate implements invitation.InvitationService. Unknown, expired and used
// tokens all yield ErrInvitationInvalid.
func (s *InvitationServiceImpl) Validate(ctx context.Context, token string) (invitation.ValidateResponse, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return invitation.ValidateResponse{}, err
	}
	if !inv.IsUsable(s.clock.Now()) {
		return invitation.ValidateResponse{}, invitation.ErrInvitationInvalid
	}
	return invitation.ValidateResponse{
		Email:     inv.Email,
		Role:      inv.Role,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// List implements invitation.InvitationService.
func (s *InvitationServiceImpl) List(ctx context.Context, filter invitation.ListFilter) ([]invitation.InvitationResponse, common.PageInfo, error) {
	now := s.clock.Now()
	items, total, err := s.invitations.List(ctx, filter, now)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]invitation.InvitationResponse, len(items))
	for i, inv := range items {
		resp[i] = invitation.NewInvitationResponse(inv, now)
	}
	return resp, common.NewPageInfo(filter.Pagination, total), nil
}

// Revoke implements invitation.InvitationService.
func (s *InvitationServiceImpl) Revoke(ctx context.Context, id string) error {
	inv, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Used {
		return invitation.ErrInvitationAlreadyUsed
	}
	return s.invitations.Delete(ctx, id)
}

// PurgeExpired implements invitation.InvitationService.
func (s *InvitationServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.invitations.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired invitations: %w", err)
	}
	return n, nil
}
