package employee

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	stepRepo     onboarding.StepRepository
	fileService  file.FileService
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	stepRepo onboarding.StepRepository,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		stepRepo:     stepRepo,
		fileService:  fileService,
	}
}

func (s *EmployeeServiceImpl) toResponse(e employee.Employee) employee.EmployeeResponse {
	var avatarURL *string
	if e.AvatarPath != nil {
		url := s.fileService.URL(*e.AvatarPath)
		avatarURL = &url
	}
	return employee.NewEmployeeResponse(e, avatarURL)
}

func (s *EmployeeServiceImpl) load(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(emp), nil
}

// GetMe implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMe(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	return s.load(ctx, employeeID)
}

// UpdateMe implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateMe(ctx context.Context, employeeID string, req employee.UpdateMeRequest) (employee.EmployeeResponse, error) {
	if err := s.employeeRepo.UpdateProfile(ctx, employeeID, req); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.load(ctx, employeeID)
}

// UploadAvatar implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadAvatar(ctx context.Context, employeeID string, r io.Reader, filename string, size int64) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	stored, err := s.fileService.UploadAvatar(ctx, employeeID, file.Upload{Reader: r, FileName: filename, Size: size})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.UpdateAvatar(ctx, employeeID, stored.Path); err != nil {
		if delErr := s.fileService.DeleteFile(ctx, stored.Path); delErr != nil {
			slog.Warn("failed to remove orphaned avatar", "path", stored.Path, "error", delErr)
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update avatar: %w", err)
	}

	if emp.AvatarPath != nil {
		if err := s.fileService.DeleteFile(ctx, *emp.AvatarPath); err != nil {
			slog.Warn("failed to remove previous avatar", "path", *emp.AvatarPath, "error", err)
		}
	}

	return s.load(ctx, employeeID)
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return s.load(ctx, id)
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, common.PageInfo, error) {
	items, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]employee.EmployeeResponse, len(items))
	for i, e := range items {
		resp[i] = s.toResponse(e)
	}
	return resp, common.NewPageInfo(filter.Pagination, total), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id string, req employee.AdminUpdateRequest) (employee.EmployeeResponse, error) {
	if req.OnboardingStatus != nil {
		if !req.OnboardingStatus.Valid() {
			return employee.EmployeeResponse{}, employee.ErrInvalidOnboardingStatus
		}
		if err := s.checkOnboardingStatus(ctx, id, *req.OnboardingStatus); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}
	if err := s.employeeRepo.UpdateByAdmin(ctx, id, req); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.load(ctx, id)
}

// checkOnboardingStatus keeps an admin-set status consistent with the
// checklist: completed only when every step is done. Rejected is always
// allowed.
func (s *EmployeeServiceImpl) checkOnboardingStatus(ctx context.Context, id string, status employee.OnboardingStatus) error {
	if status == employee.OnboardingRejected {
		return nil
	}
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		return err
	}
	total, done, err := s.stepRepo.CountByEmployee(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count onboarding steps: %w", err)
	}
	allDone := total > 0 && done == total
	switch status {
	case employee.OnboardingCompleted:
		if !allDone {
			return employee.ErrOnboardingStatusConflict
		}
	case employee.OnboardingInProgress:
		if allDone {
			return employee.ErrOnboardingStatusConflict
		}
	case employee.OnboardingPending:
		if done > 0 {
			return employee.ErrOnboardingStatusConflict
		}
	}
	return nil
}

// DeactivateEmployee implements employee.EmployeeService. The profile stays,
// its account can no longer sign in.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, id string) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.userRepo.SetActive(ctx, emp.AccountID, false)
}
