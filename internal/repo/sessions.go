package repo

import (
	"context"
	"fmt"
	"time"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, id string, expiresAt time.Time) error
	SessionActive(ctx context.Context, id string, now time.Time) (bool, error)
	DeleteSession(ctx context.Context, id string) error
}

// CreateSession stores a new admin session and purges expired ones.
func (r *repository) CreateSession(ctx context.Context, id string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at < NOW()`); err != nil {
		r.log.Warn().Err(err).Msg("failed to purge expired admin sessions")
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, created_at, expires_at)
		VALUES ($1, NOW(), $2)
	`, id, expiresAt); err != nil {
		return fmt.Errorf("failed to create admin session: %w", err)
	}
	return nil
}

func (r *repository) SessionActive(ctx context.Context, id string, now time.Time) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM admin_sessions WHERE id = $1 AND expires_at > $2)
	`, id, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check admin session: %w", err)
	}
	return exists, nil
}

func (r *repository) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
