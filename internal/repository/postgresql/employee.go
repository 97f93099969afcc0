package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
		SELECT e.id, e.account_id, e.name, e.email, e.department, e.position, e.start_date,
			e.onboarding_status, e.phone, e.address, e.emergency_contact_name, e.emergency_contact_phone,
			e.avatar_path, e.created_at, e.updated_at, a.role, a.is_active
		FROM employees e
		JOIN accounts a ON a.id = e.account_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.AccountID, &emp.Name, &emp.Email, &emp.Department, &emp.Position, &emp.StartDate,
		&emp.OnboardingStatus, &emp.Phone, &emp.Address, &emp.EmergencyContactName, &emp.EmergencyContactPhone,
		&emp.AvatarPath, &emp.CreatedAt, &emp.UpdatedAt, &emp.Role, &emp.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}
	if newEmployee.OnboardingStatus == "" {
		newEmployee.OnboardingStatus = employee.OnboardingPending
	}

	query := `
		INSERT INTO employees (id, account_id, name, email, department, position, start_date, onboarding_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.AccountID,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.Department,
		newEmployee.Position,
		newEmployee.StartDate,
		newEmployee.OnboardingStatus,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
}

// GetByAccountID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByAccountID(ctx context.Context, accountID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.account_id = $1`, accountID))
}

// GetByIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+` WHERE e.id::text = ANY($1) ORDER BY e.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	return collectEmployees(rows)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	if filter.Department != nil && *filter.Department != "" {
		w.add("e.department = $%d", *filter.Department)
	}
	if filter.Status != nil {
		w.add("e.onboarding_status = $%d", *filter.Status)
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		w.add("(e.name ILIKE $%[1]d OR e.email ILIKE $%[1]d)", "%"+strings.TrimSpace(*filter.Search)+"%")
	}
	where := w.sql()

	var total int64
	countQuery := `SELECT COUNT(*) FROM employees e JOIN accounts a ON a.id = e.account_id` + where
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	page := filter.Pagination.Normalize()
	listQuery := employeeSelect + where + ` ORDER BY e.created_at DESC` + w.page(page.Limit, page.Offset())

	rows, err := q.Query(ctx, listQuery, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepositoryImpl) listIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListActiveIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActiveIDs(ctx context.Context) ([]string, error) {
	return r.listIDs(ctx, `
		SELECT e.id::text FROM employees e
		JOIN accounts a ON a.id = e.account_id
		WHERE a.is_active = TRUE
		ORDER BY e.created_at
	`)
}

// ListAdminIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListAdminIDs(ctx context.Context) ([]string, error) {
	return r.listIDs(ctx, `
		SELECT e.id::text FROM employees e
		JOIN accounts a ON a.id = e.account_id
		WHERE a.is_active = TRUE AND a.role = $1
		ORDER BY e.created_at
	`, user.RoleAdmin)
}

func (r *employeeRepositoryImpl) update(ctx context.Context, id string, sets []string, args []interface{}) error {
	if len(sets) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	q := GetQuerier(ctx, r.db)

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE employees SET %s, updated_at = NOW() WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateProfile implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateProfile(ctx context.Context, id string, req employee.UpdateMeRequest) error {
	var sets []string
	var args []interface{}
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	set("name", req.Name)
	set("phone", req.Phone)
	set("address", req.Address)
	set("emergency_contact_name", req.EmergencyContactName)
	set("emergency_contact_phone", req.EmergencyContactPhone)

	return r.update(ctx, id, sets, args)
}

// UpdateByAdmin implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateByAdmin(ctx context.Context, id string, req employee.AdminUpdateRequest) error {
	var sets []string
	var args []interface{}

	if req.Department != nil {
		args = append(args, *req.Department)
		sets = append(sets, fmt.Sprintf("department = $%d", len(args)))
	}
	if req.Position != nil {
		args = append(args, *req.Position)
		sets = append(sets, fmt.Sprintf("position = $%d", len(args)))
	}
	if req.OnboardingStatus != nil {
		args = append(args, *req.OnboardingStatus)
		sets = append(sets, fmt.Sprintf("onboarding_status = $%d", len(args)))
	}

	return r.update(ctx, id, sets, args)
}

// UpdateOnboardingStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateOnboardingStatus(ctx context.Context, id string, status employee.OnboardingStatus) error {
	return r.update(ctx, id, []string{"onboarding_status = $1"}, []interface{}{status})
}

// UpdateAvatar implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateAvatar(ctx context.Context, id string, path string) error {
	return r.update(ctx, id, []string{"avatar_path = $1"}, []interface{}{path})
}
