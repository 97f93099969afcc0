package auth

import (
	"context"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// LoginWithGoogle issues a session for an existing account identified by a
	// verified Google email.
	LoginWithGoogle(ctx context.Context, email string, verified bool) (TokenResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt int64) error
	Me(ctx context.Context, actor user.Actor) (MeResponse, error)
}
