package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Account is the login identity. Every account owns exactly one employee profile.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeID string
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	AccountID  string
	EmployeeID string
	Email      string
	Role       Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
