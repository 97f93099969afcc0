package welcome

import "time"

// Video is the welcome video shown to new hires. At most one is active.
type Video struct {
	ID          string
	Title       string
	Description string
	FilePath    string
	UploadedBy  string
	IsActive    bool
	CreatedAt   time.Time
}
