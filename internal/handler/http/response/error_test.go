package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"file too large", file.ErrFileTooLarge, http.StatusBadRequest},
		{"invalid progress", task.ErrInvalidProgress, http.StatusBadRequest},
		{"admin required", user.ErrAdminPrivilegeRequired, http.StatusForbidden},
		{"not attendee", meeting.ErrNotAttendee, http.StatusForbidden},
		{"task missing", task.ErrTaskNotFound, http.StatusNotFound},
		{"invitation invalid", invitation.ErrInvitationInvalid, http.StatusConflict},
		{"leave reviewed", leave.ErrLeaveAlreadyReviewed, http.StatusConflict},
		{"onboarding status conflict", employee.ErrOnboardingStatusConflict, http.StatusConflict},
		{"wrapped", fmt.Errorf("failed to get task: %w", task.ErrTaskNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)
			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, decode(t, rec).Success)
		})
	}
}

func TestHandleError_UnknownErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: connection refused"))

	resp := decode(t, rec)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
}

func TestHandleError_Validation(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("start_date", "start_date cannot be in the past")
	errs.Add("reason", "reason is required")

	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("submit: %w", errs))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "start_date cannot be in the past", resp.Error.Message)
	assert.Equal(t, map[string]string{
		"start_date": "start_date cannot be in the past",
		"reason":     "reason is required",
	}, resp.Error.Details)
}
