package welcome

import "errors"

var (
	ErrVideoNotFound = errors.New("welcome video not found")
)
