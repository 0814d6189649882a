package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ministryhub/internal/model"
)

type SettingsRepository interface {
	GetAllSettings(ctx context.Context) ([]model.MinistrySettings, error)
	GetSettings(ctx context.Context, ministryType string) (*model.MinistrySettings, error)
	UpsertSettings(ctx context.Context, in model.SettingsInput) (*model.MinistrySettings, error)
	IncrementRegistrations(ctx context.Context, ministryType string) error
	DecrementRegistrations(ctx context.Context, ministryType string) error
}

const settingsColumns = `id, ministry_type, status, next_session_date, next_session_time,
		       location, capacity, current_registrations,
		       start_date, end_date, meeting_days, meeting_mode, spotify_show_id`

const (
	incrementQuery = `
		UPDATE ministry_settings
		SET current_registrations = current_registrations + 1
		WHERE ministry_type = $1
	`
	decrementQuery = `
		UPDATE ministry_settings
		SET current_registrations = GREATEST(current_registrations - 1, 0)
		WHERE ministry_type = $1
	`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettings(row rowScanner) (*model.MinistrySettings, error) {
	var (
		s        model.MinistrySettings
		capacity sql.NullInt64
	)
	if err := row.Scan(
		&s.ID,
		&s.MinistryType,
		&s.Status,
		&s.NextSessionDate,
		&s.NextSessionTime,
		&s.Location,
		&capacity,
		&s.CurrentRegistrations,
		&s.StartDate,
		&s.EndDate,
		&s.MeetingDays,
		&s.MeetingMode,
		&s.SpotifyShowID,
	); err != nil {
		return nil, err
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		s.Capacity = &c
	}
	return &s, nil
}

func (r *repository) GetAllSettings(ctx context.Context) ([]model.MinistrySettings, error) {
	query := `
		SELECT ` + settingsColumns + `
		FROM ministry_settings
		ORDER BY ministry_type ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get ministry settings: %w", err)
	}
	defer rows.Close()

	settings := make([]model.MinistrySettings, 0)
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ministry settings: %w", err)
		}
		settings = append(settings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ministry settings: %w", err)
	}

	return settings, nil
}

func (r *repository) GetSettings(ctx context.Context, ministryType string) (*model.MinistrySettings, error) {
	query := `
		SELECT ` + settingsColumns + `
		FROM ministry_settings
		WHERE ministry_type = $1
	`

	s, err := scanSettings(r.db.QueryRowContext(ctx, query, ministryType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get ministry settings: %w", err)
	}
	return s, nil
}

func (r *repository) UpsertSettings(ctx context.Context, in model.SettingsInput) (*model.MinistrySettings, error) {
	query := `
		INSERT INTO ministry_settings (id, ministry_type, status, next_session_date, next_session_time,
		                               location, capacity, current_registrations,
		                               start_date, end_date, meeting_days, meeting_mode, spotify_show_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, 0), $9, $10, $11, $12, $13)
		ON CONFLICT (ministry_type) DO UPDATE SET
			status = EXCLUDED.status,
			next_session_date = EXCLUDED.next_session_date,
			next_session_time = EXCLUDED.next_session_time,
			location = EXCLUDED.location,
			capacity = EXCLUDED.capacity,
			current_registrations = COALESCE($8, ministry_settings.current_registrations),
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			meeting_days = EXCLUDED.meeting_days,
			meeting_mode = EXCLUDED.meeting_mode,
			spotify_show_id = EXCLUDED.spotify_show_id
		RETURNING ` + settingsColumns

	var capacity, count sql.NullInt64
	if in.Capacity != nil {
		capacity = sql.NullInt64{Int64: int64(*in.Capacity), Valid: true}
	}
	if in.CurrentRegistrations != nil {
		count = sql.NullInt64{Int64: int64(*in.CurrentRegistrations), Valid: true}
	}

	status := in.Status
	if status == "" {
		status = model.StatusUpcoming
	}

	s, err := scanSettings(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), in.MinistryType, status, in.NextSessionDate, in.NextSessionTime,
		in.Location, capacity, count,
		in.StartDate, in.EndDate, in.MeetingDays, in.MeetingMode, in.SpotifyShowID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert ministry settings: %w", mapConstraint(err))
	}
	return s, nil
}

func (r *repository) IncrementRegistrations(ctx context.Context, ministryType string) error {
	return adjustCount(ctx, r.db.Master, incrementQuery, ministryType)
}

func (r *repository) DecrementRegistrations(ctx context.Context, ministryType string) error {
	return adjustCount(ctx, r.db.Master, decrementQuery, ministryType)
}

// adjustCount is a no-op for ministries without a settings row.
func adjustCount(ctx context.Context, ex execer, query, ministryType string) error {
	if _, err := ex.ExecContext(ctx, query, ministryType); err != nil {
		return fmt.Errorf("failed to update registration count for %s: %w", ministryType, err)
	}
	return nil
}
