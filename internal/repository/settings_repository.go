package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/italyna/reservations-api/internal/models"
)

// SettingsRepository persists restaurant settings as key/value JSON entries.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fetches a single setting by key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.RestaurantSetting, error) {
	const query = `SELECT setting_key, setting_value, updated_at FROM restaurant_settings WHERE setting_key = $1`
	var setting models.RestaurantSetting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// ListByKeys returns settings whose key is in the provided slice.
func (r *SettingsRepository) ListByKeys(ctx context.Context, keys []string) ([]models.RestaurantSetting, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT setting_key, setting_value, updated_at
FROM restaurant_settings WHERE setting_key IN (%s) ORDER BY setting_key ASC`, placeholders(len(keys)))
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	var settings []models.RestaurantSetting
	if err := r.db.SelectContext(ctx, &settings, query, args...); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// Upsert inserts or updates a settings entry.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.RestaurantSetting) error {
	const query = `INSERT INTO restaurant_settings (setting_key, setting_value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (setting_key)
DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = EXCLUDED.updated_at`
	setting.UpdatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, setting.Key, setting.Value, setting.UpdatedAt); err != nil {
		return fmt.Errorf("upsert setting %s: %w", setting.Key, err)
	}
	return nil
}

func placeholders(n int) string {
	values := make([]string, n)
	for i := 1; i <= n; i++ {
		values[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(values, ",")
}
