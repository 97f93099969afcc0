package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/broadcast"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/mentorship"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/message"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/welcome"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
)

var (
	badRequestErrors = []error{
		invitation.ErrInvitationEmailMismatch,
		file.ErrFileTooLarge,
		file.ErrInvalidFileType,
		file.ErrEmptyFile,
		auth.ErrGoogleNotEnabled,
		employee.ErrInvalidOnboardingStatus,
		task.ErrInvalidProgress,
		meeting.ErrAttendeeNotFound,
		mentorship.ErrSelfMentorship,
		broadcast.ErrRecipientNotFound,
		broadcast.ErrNoRecipients,
		message.ErrMessageToSelf,
		notification.ErrInvalidNotificationType,
	}

	unauthorizedErrors = []error{
		auth.ErrInvalidCredentials,
		auth.ErrInvalidToken,
		auth.ErrTokenRevoked,
		auth.ErrGoogleEmailUnknown,
	}

	forbiddenErrors = []error{
		auth.ErrAccountDisabled,
		user.ErrAdminPrivilegeRequired,
		user.ErrInsufficientRole,
		meeting.ErrNotAttendee,
		mentorship.ErrNotParticipant,
		mentorship.ErrStatusChangeForbidden,
	}

	notFoundErrors = []error{
		user.ErrUserNotFound,
		employee.ErrEmployeeNotFound,
		invitation.ErrInvitationNotFound,
		onboarding.ErrStepNotFound,
		document.ErrDocumentNotFound,
		task.ErrTaskNotFound,
		task.ErrAssigneeNotFound,
		task.ErrAttachmentNotFound,
		leave.ErrLeaveRequestNotFound,
		meeting.ErrMeetingNotFound,
		mentorship.ErrMentorshipNotFound,
		mentorship.ErrGoalNotFound,
		mentorship.ErrMentorNotFound,
		mentorship.ErrMenteeNotFound,
		broadcast.ErrBroadcastNotFound,
		notification.ErrNotificationNotFound,
		message.ErrMessageNotFound,
		message.ErrRecipientNotFound,
		welcome.ErrVideoNotFound,
	}

	conflictErrors = []error{
		auth.ErrEmailAlreadyExists,
		user.ErrUserEmailExists,
		invitation.ErrInvitationInvalid,
		invitation.ErrInvitationAlreadyUsed,
		invitation.ErrPendingInvitationExists,
		invitation.ErrEmailAlreadyRegistered,
		leave.ErrLeaveAlreadyReviewed,
		leave.ErrLeaveNotCancellable,
		mentorship.ErrMenteeAlreadyMentored,
		mentorship.ErrMentorshipNotActive,
		employee.ErrOnboardingStatusConflict,
	}
)

func matches(err error, targets []error) (error, bool) {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target, true
		}
	}
	return nil, false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.First(), validationErrs.ToMap())
		return
	}

	if target, ok := matches(err, badRequestErrors); ok {
		BadRequest(w, target.Error(), nil)
		return
	}
	if target, ok := matches(err, unauthorizedErrors); ok {
		Unauthorized(w, target.Error())
		return
	}
	if target, ok := matches(err, forbiddenErrors); ok {
		Forbidden(w, target.Error())
		return
	}
	if target, ok := matches(err, notFoundErrors); ok {
		NotFound(w, target.Error())
		return
	}
	if target, ok := matches(err, conflictErrors); ok {
		Conflict(w, target.Error())
		return
	}

	slog.Error("unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}
