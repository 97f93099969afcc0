package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/welcome"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type videoRepositoryImpl struct {
	db *database.DB
}

func NewVideoRepository(db *database.DB) welcome.VideoRepository {
	return &videoRepositoryImpl{db: db}
}

const videoColumns = `id, title, description, file_path, uploaded_by, is_active, created_at`

func scanVideo(row pgx.Row) (welcome.Video, error) {
	var v welcome.Video
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.FilePath, &v.UploadedBy, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return welcome.Video{}, welcome.ErrVideoNotFound
		}
		return welcome.Video{}, err
	}
	return v, nil
}

// CreateActive implements welcome.VideoRepository. Run it inside a transaction.
func (r *videoRepositoryImpl) CreateActive(ctx context.Context, v welcome.Video) (welcome.Video, error) {
	q := GetQuerier(ctx, r.db)

	if v.ID == "" {
		v.ID = newID()
	}
	v.IsActive = true

	if _, err := q.Exec(ctx, `UPDATE welcome_videos SET is_active = FALSE WHERE is_active`); err != nil {
		return welcome.Video{}, fmt.Errorf("failed to deactivate welcome videos: %w", err)
	}

	_, err := q.Exec(ctx, `
		INSERT INTO welcome_videos (id, title, description, file_path, uploaded_by, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
	`, v.ID, v.Title, v.Description, v.FilePath, v.UploadedBy, v.CreatedAt)
	if err != nil {
		return welcome.Video{}, fmt.Errorf("failed to create welcome video: %w", err)
	}
	return v, nil
}

// GetActive implements welcome.VideoRepository.
func (r *videoRepositoryImpl) GetActive(ctx context.Context) (welcome.Video, error) {
	q := GetQuerier(ctx, r.db)
	return scanVideo(q.QueryRow(ctx, `SELECT `+videoColumns+` FROM welcome_videos WHERE is_active LIMIT 1`))
}

// GetByID implements welcome.VideoRepository.
func (r *videoRepositoryImpl) GetByID(ctx context.Context, id string) (welcome.Video, error) {
	q := GetQuerier(ctx, r.db)
	return scanVideo(q.QueryRow(ctx, `SELECT `+videoColumns+` FROM welcome_videos WHERE id = $1`, id))
}

// List implements welcome.VideoRepository.
func (r *videoRepositoryImpl) List(ctx context.Context) ([]welcome.Video, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+videoColumns+` FROM welcome_videos ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list welcome videos: %w", err)
	}
	defer rows.Close()

	var videos []welcome.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// Delete implements welcome.VideoRepository.
func (r *videoRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM welcome_videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete welcome video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return welcome.ErrVideoNotFound
	}
	return nil
}
