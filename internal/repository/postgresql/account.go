package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) user.UserRepository {
	return &accountRepositoryImpl{db: db}
}

const accountColumns = `a.id, a.email, a.password_hash, a.role, a.is_active, a.created_at, a.updated_at,
		COALESCE(e.id::text, '')`

func scanAccount(row pgx.Row) (user.Account, error) {
	var a user.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &a.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Account{}, user.ErrUserNotFound
		}
		return user.Account{}, err
	}
	return a, nil
}

// Create implements user.UserRepository.
func (r *accountRepositoryImpl) Create(ctx context.Context, newUser user.Account) (user.Account, error) {
	q := GetQuerier(ctx, r.db)

	if newUser.ID == "" {
		newUser.ID = newID()
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, newUser.ID, newUser.Email, newUser.PasswordHash, newUser.Role, newUser.IsActive).
		Scan(&newUser.CreatedAt, &newUser.UpdatedAt)
	if err != nil {
		return user.Account{}, translatePgError(err, user.ErrUserEmailExists, nil)
	}

	return newUser, nil
}

// GetByID implements user.UserRepository.
func (r *accountRepositoryImpl) GetByID(ctx context.Context, id string) (user.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		LEFT JOIN employees e ON e.account_id = a.id
		WHERE a.id = $1
	`
	return scanAccount(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.UserRepository.
func (r *accountRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		LEFT JOIN employees e ON e.account_id = a.id
		WHERE LOWER(a.email) = LOWER($1)
	`
	return scanAccount(q.QueryRow(ctx, query, email))
}

// ExistsByEmail implements user.UserRepository.
func (r *accountRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account email: %w", err)
	}
	return exists, nil
}

// ListActiveAdmins implements user.UserRepository.
func (r *accountRepositoryImpl) ListActiveAdmins(ctx context.Context) ([]user.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		LEFT JOIN employees e ON e.account_id = a.id
		WHERE a.role = $1 AND a.is_active = TRUE
		ORDER BY a.created_at
	`

	rows, err := q.Query(ctx, query, user.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []user.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// SetActive implements user.UserRepository.
func (r *accountRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE accounts SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
