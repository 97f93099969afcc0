package user

import (
	"context"
)

type UserRepository interface {
	Create(ctx context.Context, newUser Account) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActiveAdmins(ctx context.Context) ([]Account, error)
	SetActive(ctx context.Context, id string, active bool) error
}
