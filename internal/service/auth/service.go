package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/revocation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

const tokenType = "Bearer"

type AuthServiceImpl struct {
	tx          database.Transactor
	users       user.UserRepository
	employees   employee.EmployeeRepository
	invitations invitation.InvitationRepository
	onboarding  onboarding.OnboardingService
	jwt         jwt.Service
	revoked     revocation.Store
	mailer      email.EmailService
	storage     storage.FileStorage
	clock       clock.Clock
	bcryptCost  int
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	invitationRepository invitation.InvitationRepository,
	onboardingService onboarding.OnboardingService,
	jwtService jwt.Service,
	revoked revocation.Store,
	mailer email.EmailService,
	fileStorage storage.FileStorage,
	clk clock.Clock,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:          tx,
		users:       userRepository,
		employees:   employeeRepository,
		invitations: invitationRepository,
		onboarding:  onboardingService,
		jwt:         jwtService,
		revoked:     revoked,
		mailer:      mailer,
		storage:     fileStorage,
		clock:       clk,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.clock.Now()
	var (
		account user.Account
		profile employee.Employee
		invited bool
	)

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		role := user.RoleEmployee

		if req.Token != nil {
			inv, err := a.invitations.MarkUsed(txCtx, *req.Token, now)
			if err != nil {
				return err
			}
			if !strings.EqualFold(inv.Email, req.Email) {
				return invitation.ErrInvitationEmailMismatch
			}
			role = inv.Role
			invited = true
		}

		exists, err := a.users.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return auth.ErrEmailAlreadyExists
		}

		account, err = a.users.Create(txCtx, user.Account{
			Email:        req.Email,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return auth.ErrEmailAlreadyExists
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		profile, err = a.employees.Create(txCtx, employee.Employee{
			AccountID:        account.ID,
			Name:             req.Name,
			Email:            req.Email,
			Department:       req.Department,
			Position:         req.Position,
			StartDate:        now.Truncate(24 * time.Hour),
			OnboardingStatus: employee.OnboardingPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return fmt.Errorf("failed to create employee profile: %w", err)
		}
		profile.Role = string(role)
		profile.IsActive = true
		account.EmployeeID = profile.ID

		if err := a.onboarding.SeedSteps(txCtx, profile.ID); err != nil {
			return fmt.Errorf("failed to seed onboarding steps: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	if invited {
		a.notifyAdmins(ctx, account.ID, profile, now)
	}

	return a.issueToken(account, profile)
}

// notifyAdmins mails every other active admin in the background.
func (a *AuthServiceImpl) notifyAdmins(ctx context.Context, accountID string, profile employee.Employee, registeredAt time.Time) {
	admins, err := a.users.ListActiveAdmins(ctx)
	if err != nil {
		slog.Error("failed to list admins for registration email", "employee_id", profile.ID, "error", err)
		return
	}

	go func() {
		for _, admin := range admins {
			if admin.ID == accountID {
				continue
			}
			if err := a.mailer.SendNewEmployeeRegistered(admin.Email, profile.Name, profile.Email, registeredAt); err != nil {
				slog.Error("failed to send registration email", "to", admin.Email, "error", err)
			}
		}
	}()
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	account, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	if account.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !account.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	return a.sessionFor(ctx, account)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleEmail string, verified bool) (auth.TokenResponse, error) {
	if !verified {
		return auth.TokenResponse{}, auth.ErrGoogleEmailUnknown
	}

	account, err := a.users.GetByEmail(ctx, strings.ToLower(googleEmail))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrGoogleEmailUnknown
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	if !account.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	return a.sessionFor(ctx, account)
}

func (a *AuthServiceImpl) sessionFor(ctx context.Context, account user.Account) (auth.TokenResponse, error) {
	profile, err := a.employees.GetByAccountID(ctx, account.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee profile: %w", err)
	}
	account.EmployeeID = profile.ID
	return a.issueToken(account, profile)
}

func (a *AuthServiceImpl) issueToken(account user.Account, profile employee.Employee) (auth.TokenResponse, error) {
	token, expiresAt, err := a.jwt.GenerateAccessToken(account.ID, profile.ID, account.Email, account.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
		User:        user.NewAccountResponse(account),
		Employee:    employee.NewEmployeeResponse(profile, a.avatarURL(profile)),
	}, nil
}

func (a *AuthServiceImpl) avatarURL(e employee.Employee) *string {
	if e.AvatarPath == nil {
		return nil
	}
	url := a.storage.URL(*e.AvatarPath)
	return &url
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, tokenID string, expiresAt int64) error {
	if tokenID == "" {
		return auth.ErrInvalidToken
	}
	return a.revoked.Revoke(ctx, tokenID, time.Unix(expiresAt, 0))
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor user.Actor) (auth.MeResponse, error) {
	account, err := a.users.GetByID(ctx, actor.AccountID)
	if err != nil {
		return auth.MeResponse{}, err
	}
	profile, err := a.employees.GetByAccountID(ctx, account.ID)
	if err != nil {
		return auth.MeResponse{}, err
	}
	account.EmployeeID = profile.ID

	return auth.MeResponse{
		User:     user.NewAccountResponse(account),
		Employee: employee.NewEmployeeResponse(profile, a.avatarURL(profile)),
	}, nil
}
