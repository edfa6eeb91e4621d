package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
)

type settingRepository struct {
	BaseRepository
}

func NewSettingRepository(base BaseRepository) repository.SettingRepository {
	return &settingRepository{base}
}

func (r *settingRepository) List(ctx context.Context) ([]*model.Setting, error) {
	query := `
		SELECT key, value, setting_group, updated_by, updated_at
		FROM settings
		ORDER BY setting_group, key
	`

	var settings []*model.Setting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

func (r *settingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	query := `
		SELECT key, value, setting_group, updated_by, updated_at
		FROM settings
		WHERE key = $1
	`

	var setting model.Setting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &setting, nil
}

// Upsert writes every key/value pair in one transaction so a settings form
// submit is applied atomically.
func (r *settingRepository) Upsert(ctx context.Context, settings map[string]string, updatedBy string) error {
	query := `
		INSERT INTO settings (key, value, updated_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = EXCLUDED.updated_at
	`

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()
		for key, value := range settings {
			if _, err := tx.ExecContext(ctx, query, key, value, updatedBy, now); err != nil {
				return fmt.Errorf("failed to upsert setting %s: %w", key, err)
			}
		}
		return nil
	})
}
