// Package servicetest holds in-memory collaborators shared by service tests.
package servicetest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/email"
)

// Tx runs fn inline. Failed is set when fn returned an error, standing in for
// a rollback.
type Tx struct {
	Calls  int
	Failed int
}

func (t *Tx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if err := fn(ctx); err != nil {
		t.Failed++
		return err
	}
	return nil
}

// Sink records every notification request.
type Sink struct {
	mu       sync.Mutex
	Requests []notification.CreateNotificationRequest
	Err      error
}

func (s *Sink) Create(ctx context.Context, req notification.CreateNotificationRequest) (*notification.Notification, error) {
	created, err := s.CreateBulk(ctx, []notification.CreateNotificationRequest{req})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *Sink) CreateBulk(ctx context.Context, reqs []notification.CreateNotificationRequest) ([]*notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]*notification.Notification, 0, len(reqs))
	for _, r := range reqs {
		s.Requests = append(s.Requests, r)
		out = append(out, &notification.Notification{
			ID:          fmt.Sprintf("n-%d", len(s.Requests)),
			RecipientID: r.RecipientID,
			Title:       r.Title,
			Message:     r.Message,
			Type:        r.Type,
			Priority:    r.Priority,
			RelatedID:   r.RelatedID,
			RelatedType: r.RelatedType,
		})
	}
	return out, nil
}

// For returns the requests addressed to recipientID.
func (s *Sink) For(recipientID string) []notification.CreateNotificationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.CreateNotificationRequest
	for _, r := range s.Requests {
		if r.RecipientID == recipientID {
			out = append(out, r)
		}
	}
	return out
}

// Employees is an in-memory employee.EmployeeRepository.
type Employees struct {
	mu   sync.Mutex
	byID map[string]*employee.Employee
	seq  int
}

func NewEmployees(seed ...employee.Employee) *Employees {
	e := &Employees{byID: make(map[string]*employee.Employee)}
	for _, emp := range seed {
		emp := emp
		if emp.OnboardingStatus == "" {
			emp.OnboardingStatus = employee.OnboardingPending
		}
		e.byID[emp.ID] = &emp
	}
	return e
}

func (e *Employees) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if newEmployee.ID == "" {
		e.seq++
		newEmployee.ID = fmt.Sprintf("emp-%d", e.seq)
	}
	stored := newEmployee
	e.byID[stored.ID] = &stored
	return stored, nil
}

func (e *Employees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	emp, ok := e.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return *emp, nil
}

func (e *Employees) GetByAccountID(ctx context.Context, accountID string) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, emp := range e.byID {
		if emp.AccountID == accountID {
			return *emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (e *Employees) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []employee.Employee
	seen := make(map[string]bool)
	for _, id := range ids {
		if emp, ok := e.byID[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (e *Employees) sorted() []*employee.Employee {
	out := make([]*employee.Employee, 0, len(e.byID))
	for _, emp := range e.byID {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (e *Employees) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var matched []employee.Employee
	for _, emp := range e.sorted() {
		if filter.Department != nil && (emp.Department == nil || *emp.Department != *filter.Department) {
			continue
		}
		if filter.Status != nil && emp.OnboardingStatus != *filter.Status {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(emp.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		matched = append(matched, *emp)
	}
	page := filter.Pagination.Normalize()
	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (e *Employees) ListActiveIDs(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ids []string
	for _, emp := range e.sorted() {
		if emp.IsActive {
			ids = append(ids, emp.ID)
		}
	}
	return ids, nil
}

func (e *Employees) ListAdminIDs(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ids []string
	for _, emp := range e.sorted() {
		if emp.IsActive && emp.Role == "admin" {
			ids = append(ids, emp.ID)
		}
	}
	return ids, nil
}

func (e *Employees) mutate(id string, fn func(*employee.Employee)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	emp, ok := e.byID[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	fn(emp)
	return nil
}

func (e *Employees) UpdateProfile(ctx context.Context, id string, req employee.UpdateMeRequest) error {
	return e.mutate(id, func(emp *employee.Employee) {
		if req.Name != nil {
			emp.Name = *req.Name
		}
		if req.Phone != nil {
			emp.Phone = req.Phone
		}
		if req.Address != nil {
			emp.Address = req.Address
		}
		if req.EmergencyContactName != nil {
			emp.EmergencyContactName = req.EmergencyContactName
		}
		if req.EmergencyContactPhone != nil {
			emp.EmergencyContactPhone = req.EmergencyContactPhone
		}
	})
}

func (e *Employees) UpdateByAdmin(ctx context.Context, id string, req employee.AdminUpdateRequest) error {
	return e.mutate(id, func(emp *employee.Employee) {
		if req.Department != nil {
			emp.Department = req.Department
		}
		if req.Position != nil {
			emp.Position = req.Position
		}
		if req.OnboardingStatus != nil {
			emp.OnboardingStatus = *req.OnboardingStatus
		}
	})
}

func (e *Employees) UpdateOnboardingStatus(ctx context.Context, id string, status employee.OnboardingStatus) error {
	return e.mutate(id, func(emp *employee.Employee) { emp.OnboardingStatus = status })
}

func (e *Employees) UpdateAvatar(ctx context.Context, id string, path string) error {
	return e.mutate(id, func(emp *employee.Employee) { emp.AvatarPath = &path })
}

// SetActive flips the joined account flag, as deactivating the account would.
func (e *Employees) SetActive(id string, active bool) {
	_ = e.mutate(id, func(emp *employee.Employee) { emp.IsActive = active })
}

// Storage is an in-memory storage.FileStorage.
type Storage struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Deleted []string
}

func NewStorage() *Storage {
	return &Storage{Files: make(map[string][]byte)}
}

func (s *Storage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[path] = buf.Bytes()
	return path, nil
}

func (s *Storage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, path)
	s.Deleted = append(s.Deleted, path)
	return nil
}

func (s *Storage) URL(path string) string {
	return "/uploads/" + path
}

func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Files[path]
	return ok, nil
}

// Mailer records sent mail.
type Mailer struct {
	mu          sync.Mutex
	Invitations []string
	Registered  []string
	Contact     []email.ContactMessage
	Err         error
}

func (m *Mailer) SendInvitation(to, invitationLink, role string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invitations = append(m.Invitations, to+" "+invitationLink)
	return m.Err
}

func (m *Mailer) SendNewEmployeeRegistered(to, employeeName, employeeEmail string, registeredAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registered = append(m.Registered, to)
	return m.Err
}

func (m *Mailer) SendContactMessage(to string, msg email.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contact = append(m.Contact, msg)
	return m.Err
}

// Sent returns a snapshot of the invitation and registration mail.
func (m *Mailer) Sent() (invitations, registered []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Invitations...), append([]string(nil), m.Registered...)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
