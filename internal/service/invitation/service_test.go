package invitation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/servicetest"
)

type fakeRepo struct {
	items []*invitation.Invitation
}

func (f *fakeRepo) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	inv.ID = fmt.Sprintf("inv-%d", len(f.items)+1)
	f.items = append(f.items, &inv)
	return inv, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (invitation.Invitation, error) {
	for _, inv := range f.items {
		if inv.ID == id {
			return *inv, nil
		}
	}
	return invitation.Invitation{}, invitation.ErrInvitationNotFound
}

func (f *fakeRepo) GetByToken(ctx context.Context, token string) (invitation.Invitation, error) {
	for _, inv := range f.items {
		if inv.Token == token {
			return *inv, nil
		}
	}
	return invitation.Invitation{}, invitation.ErrInvitationInvalid
}

func (f *fakeRepo) HasPendingForEmail(ctx context.Context, email string, now time.Time) (bool, error) {
	for _, inv := range f.items {
		if strings.EqualFold(inv.Email, email) && inv.IsUsable(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) MarkUsed(ctx context.Context, token string, now time.Time) (invitation.Invitation, error) {
	for _, inv := range f.items {
		if inv.Token == token && inv.IsUsable(now) {
			inv.Used = true
			inv.UsedAt = &now
			return *inv, nil
		}
	}
	return invitation.Invitation{}, invitation.ErrInvitationInvalid
}

func (f *fakeRepo) List(ctx context.Context, filter invitation.ListFilter, now time.Time) ([]invitation.Invitation, int64, error) {
	var out []invitation.Invitation
	for _, inv := range f.items {
		if filter.Status == nil || inv.Status(now) == *filter.Status {
			out = append(out, *inv)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	for i, inv := range f.items {
		if inv.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return invitation.ErrInvitationNotFound
}

func (f *fakeRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var kept []*invitation.Invitation
	var n int64
	for _, inv := range f.items {
		if !inv.Used && !now.Before(inv.ExpiresAt) {
			n++
			continue
		}
		kept = append(kept, inv)
	}
	f.items = kept
	return n, nil
}

type fakeUsers struct {
	user.UserRepository
	emails map[string]bool
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.emails[email], nil
}

var (
	issuedAt = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	admin    = user.Actor{AccountID: "acc-admin", Role: user.RoleAdmin}
)

func newService() (*fakeRepo, *servicetest.Mailer, *clock.Fixed, invitation.InvitationService) {
	repo := &fakeRepo{}
	mailer := &servicetest.Mailer{}
	clk := clock.NewFixed(issuedAt)
	users := &fakeUsers{emails: map[string]bool{"taken@example.com": true}}
	link := func(token string) string { return "https://app.example.com/register?token=" + token }
	return repo, mailer, clk, NewInvitationService(repo, users, mailer, link, 24*time.Hour, clk)
}

func issue(t *testing.T, svc invitation.InvitationService, email string) invitation.InvitationResponse {
	t.Helper()
	req := invitation.IssueRequest{Email: email}
	require.NoError(t, req.Validate())
	resp, err := svc.Issue(context.Background(), admin, req)
	require.NoError(t, err)
	return resp
}

func TestIssue(t *testing.T) {
	repo, mailer, _, svc := newService()

	resp := issue(t, svc, "New.Hire@Example.com")
	assert.Equal(t, "new.hire@example.com", resp.Email)
	assert.Equal(t, user.RoleEmployee, resp.Role)
	assert.Equal(t, invitation.StatusPending, resp.Status)
	assert.Equal(t, issuedAt.Add(24*time.Hour).Format(time.RFC3339), resp.ExpiresAt)

	require.Len(t, repo.items, 1)
	token := repo.items[0].Token
	assert.Len(t, token, 64)
	assert.Equal(t, "https://app.example.com/register?token="+token, resp.Link)

	assert.Eventually(t, func() bool {
		invitations, _ := mailer.Sent()
		return len(invitations) == 1 && strings.HasPrefix(invitations[0], "new.hire@example.com ")
	}, time.Second, 10*time.Millisecond)
}

func TestIssue_Conflicts(t *testing.T) {
	_, _, _, svc := newService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, admin, invitation.IssueRequest{Email: "taken@example.com", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, invitation.ErrEmailAlreadyRegistered)

	issue(t, svc, "dup@example.com")
	_, err = svc.Issue(ctx, admin, invitation.IssueRequest{Email: "dup@example.com", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, invitation.ErrPendingInvitationExists)

	_, err = svc.Issue(ctx, user.Actor{AccountID: "acc-1", Role: user.RoleEmployee}, invitation.IssueRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestIssue_AfterExpiryAllowsReissue(t *testing.T) {
	_, _, clk, svc := newService()

	issue(t, svc, "late@example.com")
	clk.Advance(25 * time.Hour)
	issue(t, svc, "late@example.com")
}

func TestValidate(t *testing.T) {
	repo, _, clk, svc := newService()
	ctx := context.Background()

	issue(t, svc, "ana@example.com")
	token := repo.items[0].Token

	resp, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.Email)

	_, err = svc.Validate(ctx, "unknown")
	assert.ErrorIs(t, err, invitation.ErrInvitationInvalid)

	clk.Advance(24 * time.Hour)
	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, invitation.ErrInvitationInvalid)
}

func TestValidate_UsedTokenIsInvalid(t *testing.T) {
	repo, _, _, svc := newService()
	ctx := context.Background()

	issue(t, svc, "ana@example.com")
	token := repo.items[0].Token

	_, err := repo.MarkUsed(ctx, token, issuedAt)
	require.NoError(t, err)

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, invitation.ErrInvitationInvalid)
}

func TestRevoke(t *testing.T) {
	repo, _, _, svc := newService()
	ctx := context.Background()

	first := issue(t, svc, "a@example.com")
	second := issue(t, svc, "b@example.com")
	_, err := repo.MarkUsed(ctx, repo.items[1].Token, issuedAt)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, first.ID))
	assert.ErrorIs(t, svc.Revoke(ctx, second.ID), invitation.ErrInvitationAlreadyUsed)
	assert.ErrorIs(t, svc.Revoke(ctx, "inv-missing"), invitation.ErrInvitationNotFound)
}

func TestListAndPurge(t *testing.T) {
	repo, _, clk, svc := newService()
	ctx := context.Background()

	issue(t, svc, "a@example.com")
	clk.Advance(12 * time.Hour)
	issue(t, svc, "b@example.com")
	clk.Advance(13 * time.Hour)

	expired := invitation.StatusExpired
	list, info, err := svc.List(ctx, invitation.ListFilter{Status: &expired})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@example.com", list[0].Email)
	assert.Equal(t, int64(1), info.TotalItems)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, repo.items, 1)
}
