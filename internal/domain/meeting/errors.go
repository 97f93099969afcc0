package meeting

import "errors"

var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrAttendeeNotFound = errors.New("one or more attendees do not exist")
	ErrNotAttendee      = errors.New("you are not an attendee of this meeting")
)
