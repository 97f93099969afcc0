package task

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrAssigneeNotFound   = errors.New("assignee not found")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrAttachmentNotFound = errors.New("task attachment not found")
)
