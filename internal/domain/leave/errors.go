package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveAlreadyReviewed = errors.New("leave request already reviewed")
	ErrLeaveNotCancellable  = errors.New("only pending leave requests can be cancelled")
)
