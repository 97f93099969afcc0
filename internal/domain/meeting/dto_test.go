package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatusRequest_Validate(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled} {
		req := SetStatusRequest{Status: s}
		assert.NoError(t, req.Validate(), s)
		assert.True(t, s.Valid(), s)
	}

	req := SetStatusRequest{Status: "in_progress"}
	assert.Error(t, req.Validate())
	assert.False(t, Status("in_progress").Valid())
}

func TestMeetingFilter_ValidateStatus(t *testing.T) {
	inProgress := StatusInProgress
	assert.NoError(t, (&MeetingFilter{Status: &inProgress}).Validate())

	bogus := Status("postponed")
	assert.Error(t, (&MeetingFilter{Status: &bogus}).Validate())
}

func TestScheduleRequest_Validate(t *testing.T) {
	req := ScheduleRequest{
		Title:           "Intro",
		Date:            "2025-03-05T10:00:00+07:00",
		DurationMinutes: 30,
		Type:            TypeOneOnOne,
		Attendees: []string{
			"0b8f6c1e-2a3d-4e5f-8a9b-1c2d3e4f5a6b",
			"0b8f6c1e-2a3d-4e5f-8a9b-1c2d3e4f5a6b",
		},
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "one-on-one", string(req.Type))
	assert.Len(t, req.Attendees, 1)
	assert.Equal(t, "2025-03-05T03:00:00Z", req.When().Format("2006-01-02T15:04:05Z07:00"))

	req = ScheduleRequest{Title: "x", Date: "2025-03-05T10:00:00Z", DurationMinutes: 30, Attendees: []string{"0b8f6c1e-2a3d-4e5f-8a9b-1c2d3e4f5a6b"}}
	require.NoError(t, req.Validate())
	assert.Equal(t, TypeOther, req.Type)

	req = ScheduleRequest{Title: "x", Date: "2025-03-05T10:00:00Z", DurationMinutes: 30, Type: "one_on_one", Attendees: []string{"0b8f6c1e-2a3d-4e5f-8a9b-1c2d3e4f5a6b"}}
	assert.Error(t, req.Validate())
}
