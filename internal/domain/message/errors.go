package message

import "errors"

var (
	ErrMessageNotFound   = errors.New("message not found")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrMessageToSelf     = errors.New("cannot send a message to yourself")
)
