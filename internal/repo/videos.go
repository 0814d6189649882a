package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ministryhub/internal/model"
)

type VideoRepository interface {
	CreateVideo(ctx context.Context, v *model.Video) error
	GetAllVideos(ctx context.Context) ([]model.Video, error)
	UpdateVideo(ctx context.Context, id string, patch model.VideoPatch) (*model.Video, error)
	DeleteVideo(ctx context.Context, id string) error
}

const videoColumns = `id, title, video_id, category, thumbnail, duration, views, created_at`

func scanVideo(row rowScanner) (*model.Video, error) {
	var v model.Video
	if err := row.Scan(
		&v.ID,
		&v.Title,
		&v.VideoID,
		&v.Category,
		&v.Thumbnail,
		&v.Duration,
		&v.Views,
		&v.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) CreateVideo(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (id, title, video_id, category, thumbnail, duration, views, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	if v.Views == "" {
		v.Views = model.DefaultViews
	}
	id := uuid.NewString()
	if err := r.db.QueryRowContext(ctx, query,
		id, v.Title, v.VideoID, v.Category, v.Thumbnail, v.Duration, v.Views,
	).Scan(&v.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert video: %w", mapConstraint(err))
	}
	v.ID = id
	return nil
}

func (r *repository) GetAllVideos(ctx context.Context) ([]model.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos: %w", err)
	}
	defer rows.Close()

	videos := make([]model.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}

	return videos, nil
}

func (r *repository) UpdateVideo(ctx context.Context, id string, patch model.VideoPatch) (*model.Video, error) {
	query := `
		UPDATE videos
		SET title = COALESCE($2, title),
		    video_id = COALESCE($3, video_id),
		    category = COALESCE($4, category),
		    thumbnail = COALESCE($5, thumbnail),
		    duration = COALESCE($6, duration),
		    views = COALESCE($7, views)
		WHERE id = $1
		RETURNING ` + videoColumns

	v, err := scanVideo(r.db.QueryRowContext(ctx, query,
		id, patch.Title, patch.VideoID, patch.Category, patch.Thumbnail, patch.Duration, patch.Views,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to update video: %w", mapConstraint(err))
	}
	return v, nil
}

func (r *repository) DeleteVideo(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if n == 0 {
		return ErrVideoNotFound
	}
	return nil
}
