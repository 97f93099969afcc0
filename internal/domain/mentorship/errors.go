package mentorship

import "errors"

var (
	ErrMentorshipNotFound    = errors.New("mentorship not found")
	ErrGoalNotFound          = errors.New("mentorship goal not found")
	ErrSelfMentorship        = errors.New("an employee cannot mentor themselves")
	ErrMentorNotFound        = errors.New("mentor not found")
	ErrMenteeNotFound        = errors.New("mentee not found")
	ErrMenteeAlreadyMentored = errors.New("mentee already has an active mentorship")
	ErrNotParticipant        = errors.New("you are not a participant of this mentorship")
	ErrMentorshipNotActive   = errors.New("mentorship is not active")
	ErrStatusChangeForbidden = errors.New("only an admin can make this status change")
)
