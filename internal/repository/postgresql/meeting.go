package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/meeting"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type meetingRepositoryImpl struct {
	db *database.DB
}

func NewMeetingRepository(db *database.DB) meeting.MeetingRepository {
	return &meetingRepositoryImpl{db: db}
}

const meetingColumns = `m.id, m.title, m.description, m.organizer_id, m.date, m.duration_minutes, m.type,
		m.location, m.meeting_link, m.status, m.created_at, m.updated_at`

func scanMeeting(row pgx.Row) (meeting.Meeting, error) {
	var m meeting.Meeting
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.OrganizerID, &m.Date, &m.DurationMinutes, &m.Type,
		&m.Location, &m.MeetingLink, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return meeting.Meeting{}, meeting.ErrMeetingNotFound
		}
		return meeting.Meeting{}, err
	}
	return m, nil
}

// Create implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) Create(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = meeting.StatusScheduled
	}

	_, err := q.Exec(ctx, `
		INSERT INTO meetings (id, title, description, organizer_id, date, duration_minutes, type,
			location, meeting_link, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, m.ID, m.Title, m.Description, m.OrganizerID, m.Date, m.DurationMinutes, m.Type,
		m.Location, m.MeetingLink, m.Status, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return meeting.Meeting{}, fmt.Errorf("failed to create meeting: %w", err)
	}

	for i := range m.Attendees {
		a := &m.Attendees[i]
		a.MeetingID = m.ID
		if a.Response == "" {
			a.Response = meeting.ResponsePending
		}
		_, err := q.Exec(ctx, `
			INSERT INTO meeting_attendees (meeting_id, employee_id, response)
			VALUES ($1, $2, $3)
		`, a.MeetingID, a.EmployeeID, a.Response)
		if err != nil {
			return meeting.Meeting{}, translatePgError(fmt.Errorf("failed to add attendee: %w", err), nil, meeting.ErrAttendeeNotFound)
		}
	}

	return m, nil
}

func (r *meetingRepositoryImpl) attendeesFor(ctx context.Context, meetingIDs []string) (map[string][]meeting.Attendee, error) {
	result := make(map[string][]meeting.Attendee)
	if len(meetingIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT a.meeting_id, a.employee_id, a.response, a.responded_at, e.name
		FROM meeting_attendees a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.meeting_id::text = ANY($1)
		ORDER BY e.name
	`, meetingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a meeting.Attendee
		if err := rows.Scan(&a.MeetingID, &a.EmployeeID, &a.Response, &a.RespondedAt, &a.Name); err != nil {
			return nil, err
		}
		result[a.MeetingID] = append(result[a.MeetingID], a)
	}
	return result, rows.Err()
}

// GetByID implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) GetByID(ctx context.Context, id string) (meeting.Meeting, error) {
	q := GetQuerier(ctx, r.db)

	m, err := scanMeeting(q.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.id = $1`, id))
	if err != nil {
		return meeting.Meeting{}, err
	}

	attendees, err := r.attendeesFor(ctx, []string{m.ID})
	if err != nil {
		return meeting.Meeting{}, err
	}
	m.Attendees = attendees[m.ID]
	return m, nil
}

// List implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) List(ctx context.Context, filter meeting.MeetingFilter) ([]meeting.Meeting, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	if filter.Status != nil {
		w.add("m.status = $%d", *filter.Status)
	}
	if filter.AttendeeID != nil {
		w.add("EXISTS (SELECT 1 FROM meeting_attendees ma WHERE ma.meeting_id = m.id AND ma.employee_id = $%d)", *filter.AttendeeID)
	}
	if filter.UpcomingFrom != nil {
		w.add("m.date >= $%d", *filter.UpcomingFrom)
	}
	where := w.sql()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM meetings m`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	page := filter.Pagination.Normalize()
	rows, err := q.Query(ctx, `SELECT `+meetingColumns+` FROM meetings m`+where+` ORDER BY m.date`+w.page(page.Limit, page.Offset()), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}

	var meetings []meeting.Meeting
	var ids []string
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		meetings = append(meetings, m)
		ids = append(ids, m.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	attendees, err := r.attendeesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range meetings {
		meetings[i].Attendees = attendees[meetings[i].ID]
	}
	return meetings, total, nil
}

// SetResponse implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) SetResponse(ctx context.Context, meetingID, employeeID string, resp meeting.Response, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE meeting_attendees
		SET response = $3, responded_at = $4
		WHERE meeting_id = $1 AND employee_id = $2
	`, meetingID, employeeID, resp, at)
	if err != nil {
		return fmt.Errorf("failed to record meeting response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrNotAttendee
	}
	return nil
}

// UpdateStatus implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) UpdateStatus(ctx context.Context, id string, status meeting.Status, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE meetings SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("failed to update meeting status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrMeetingNotFound
	}
	return nil
}

// Delete implements meeting.MeetingRepository.
func (r *meetingRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return meeting.ErrMeetingNotFound
	}
	return nil
}
