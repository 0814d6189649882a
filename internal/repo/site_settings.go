package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type SiteSettingRepository interface {
	GetSiteSettings(ctx context.Context, keys ...string) (map[string]string, error)
	UpsertSiteSettings(ctx context.Context, values map[string]string) error
}

// GetSiteSettings returns the stored values for keys; missing keys are absent from
// the map.
func (r *repository) GetSiteSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value
		FROM site_settings
		WHERE key = ANY($1)
	`, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan site setting: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate site settings: %w", err)
	}
	return values, nil
}

func (r *repository) UpsertSiteSettings(ctx context.Context, values map[string]string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO site_settings (key, value, updated_at)
				VALUES ($1, $2, NOW())
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
			`, key, value); err != nil {
				return fmt.Errorf("failed to upsert site setting %s: %w", key, err)
			}
		}
		return nil
	})
}
