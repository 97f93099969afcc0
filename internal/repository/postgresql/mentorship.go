package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/mentorship"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type mentorshipRepositoryImpl struct {
	db *database.DB
}

func NewMentorshipRepository(db *database.DB) mentorship.MentorshipRepository {
	return &mentorshipRepositoryImpl{db: db}
}

const mentorshipSelect = `
		SELECT m.id, m.mentor_id, m.mentee_id, m.assigned_by, m.status, m.start_date, m.end_date,
			m.created_at, m.updated_at, mentor.name, mentee.name
		FROM mentorships m
		JOIN employees mentor ON mentor.id = m.mentor_id
		JOIN employees mentee ON mentee.id = m.mentee_id
`

func scanMentorship(row pgx.Row) (mentorship.Mentorship, error) {
	var m mentorship.Mentorship
	err := row.Scan(&m.ID, &m.MentorID, &m.MenteeID, &m.AssignedBy, &m.Status, &m.StartDate, &m.EndDate,
		&m.CreatedAt, &m.UpdatedAt, &m.MentorName, &m.MenteeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mentorship.Mentorship{}, mentorship.ErrMentorshipNotFound
		}
		return mentorship.Mentorship{}, err
	}
	return m, nil
}

// Create implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) Create(ctx context.Context, m mentorship.Mentorship) (mentorship.Mentorship, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = mentorship.StatusActive
	}

	_, err := q.Exec(ctx, `
		INSERT INTO mentorships (id, mentor_id, mentee_id, assigned_by, status, start_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.MentorID, m.MenteeID, m.AssignedBy, m.Status, m.StartDate, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return mentorship.Mentorship{}, translatePgError(err, mentorship.ErrMenteeAlreadyMentored, nil)
	}

	for i := range m.Goals {
		m.Goals[i].MentorshipID = m.ID
		g, err := r.AddGoal(ctx, m.Goals[i])
		if err != nil {
			return mentorship.Mentorship{}, err
		}
		m.Goals[i] = g
	}

	return m, nil
}

// GetByID implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) GetByID(ctx context.Context, id string) (mentorship.Mentorship, error) {
	q := GetQuerier(ctx, r.db)
	return scanMentorship(q.QueryRow(ctx, mentorshipSelect+` WHERE m.id = $1`, id))
}

// GetDetail implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) GetDetail(ctx context.Context, id string) (mentorship.Mentorship, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return mentorship.Mentorship{}, err
	}
	q := GetQuerier(ctx, r.db)

	goalRows, err := q.Query(ctx, `
		SELECT id, mentorship_id, title, completed, completed_at, created_at
		FROM mentorship_goals WHERE mentorship_id = $1 ORDER BY created_at
	`, id)
	if err != nil {
		return mentorship.Mentorship{}, fmt.Errorf("failed to list mentorship goals: %w", err)
	}
	m.Goals, err = pgx.CollectRows(goalRows, func(row pgx.CollectableRow) (mentorship.Goal, error) {
		var g mentorship.Goal
		err := row.Scan(&g.ID, &g.MentorshipID, &g.Title, &g.Completed, &g.CompletedAt, &g.CreatedAt)
		return g, err
	})
	if err != nil {
		return mentorship.Mentorship{}, fmt.Errorf("failed to scan mentorship goals: %w", err)
	}

	noteRows, err := q.Query(ctx, `
		SELECT id, mentorship_id, author_id, content, created_at
		FROM mentorship_notes WHERE mentorship_id = $1 ORDER BY created_at
	`, id)
	if err != nil {
		return mentorship.Mentorship{}, fmt.Errorf("failed to list mentorship notes: %w", err)
	}
	m.Notes, err = pgx.CollectRows(noteRows, func(row pgx.CollectableRow) (mentorship.Note, error) {
		var n mentorship.Note
		err := row.Scan(&n.ID, &n.MentorshipID, &n.AuthorID, &n.Content, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		return mentorship.Mentorship{}, fmt.Errorf("failed to scan mentorship notes: %w", err)
	}

	return m, nil
}

// HasActiveForMentee implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) HasActiveForMentee(ctx context.Context, menteeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM mentorships WHERE mentee_id = $1 AND status = $2)`,
		menteeID, mentorship.StatusActive).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active mentorship: %w", err)
	}
	return exists, nil
}

// List implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) List(ctx context.Context, filter mentorship.MentorshipFilter) ([]mentorship.Mentorship, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	if filter.Status != nil {
		w.add("m.status = $%d", *filter.Status)
	}
	if filter.ParticipantID != nil {
		w.add("(m.mentor_id = $%[1]d OR m.mentee_id = $%[1]d)", *filter.ParticipantID)
	}
	where := w.sql()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM mentorships m`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count mentorships: %w", err)
	}

	page := filter.Pagination.Normalize()
	rows, err := q.Query(ctx, mentorshipSelect+where+` ORDER BY m.created_at DESC`+w.page(page.Limit, page.Offset()), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list mentorships: %w", err)
	}
	defer rows.Close()

	var list []mentorship.Mentorship
	for rows.Next() {
		m, err := scanMentorship(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateStatus implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) UpdateStatus(ctx context.Context, id string, status mentorship.Status, endDate *time.Time, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE mentorships SET status = $2, end_date = $3, updated_at = $4 WHERE id = $1
	`, id, status, endDate, at)
	if err != nil {
		return translatePgError(err, mentorship.ErrMenteeAlreadyMentored, nil)
	}
	if tag.RowsAffected() == 0 {
		return mentorship.ErrMentorshipNotFound
	}
	return nil
}

// AddGoal implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) AddGoal(ctx context.Context, g mentorship.Goal) (mentorship.Goal, error) {
	q := GetQuerier(ctx, r.db)

	if g.ID == "" {
		g.ID = newID()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO mentorship_goals (id, mentorship_id, title, completed, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, g.ID, g.MentorshipID, g.Title, g.Completed, g.CompletedAt, g.CreatedAt)
	if err != nil {
		return mentorship.Goal{}, fmt.Errorf("failed to add mentorship goal: %w", err)
	}
	return g, nil
}

// GetGoal implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) GetGoal(ctx context.Context, mentorshipID, goalID string) (mentorship.Goal, error) {
	q := GetQuerier(ctx, r.db)

	var g mentorship.Goal
	err := q.QueryRow(ctx, `
		SELECT id, mentorship_id, title, completed, completed_at, created_at
		FROM mentorship_goals WHERE id = $1 AND mentorship_id = $2
	`, goalID, mentorshipID).Scan(&g.ID, &g.MentorshipID, &g.Title, &g.Completed, &g.CompletedAt, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mentorship.Goal{}, mentorship.ErrGoalNotFound
		}
		return mentorship.Goal{}, err
	}
	return g, nil
}

// SetGoalCompleted implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) SetGoalCompleted(ctx context.Context, goalID string, completed bool, at *time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE mentorship_goals SET completed = $2, completed_at = $3 WHERE id = $1`, goalID, completed, at)
	if err != nil {
		return fmt.Errorf("failed to update mentorship goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return mentorship.ErrGoalNotFound
	}
	return nil
}

// AddNote implements mentorship.MentorshipRepository.
func (r *mentorshipRepositoryImpl) AddNote(ctx context.Context, n mentorship.Note) (mentorship.Note, error) {
	q := GetQuerier(ctx, r.db)

	if n.ID == "" {
		n.ID = newID()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO mentorship_notes (id, mentorship_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, n.ID, n.MentorshipID, n.AuthorID, n.Content, n.CreatedAt)
	if err != nil {
		return mentorship.Note{}, fmt.Errorf("failed to add mentorship note: %w", err)
	}
	return n, nil
}
