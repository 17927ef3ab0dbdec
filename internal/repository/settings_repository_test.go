package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/italyna/reservations-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestSettingsRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	rows := sqlmock.NewRows([]string{"setting_key", "setting_value", "updated_at"}).
		AddRow("opening_hours", []byte(`{"monday":{"open":"11:00","close":"22:00"}}`), time.Now())
	mock.ExpectQuery("SELECT setting_key, setting_value").
		WithArgs("opening_hours").
		WillReturnRows(rows)

	setting, err := repo.Get(context.Background(), "opening_hours")
	require.NoError(t, err)
	assert.Equal(t, "opening_hours", setting.Key)
	assert.Contains(t, string(setting.Value), "monday")
}

func TestSettingsRepositoryListByKeys(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	rows := sqlmock.NewRows([]string{"setting_key", "setting_value", "updated_at"}).
		AddRow("opening_hours", []byte(`{}`), time.Now()).
		AddRow("table_capacity", []byte(`{"total_seats":50,"max_party_size":8}`), time.Now())
	mock.ExpectQuery("SELECT setting_key, setting_value").
		WithArgs("opening_hours", "table_capacity").
		WillReturnRows(rows)

	settings, err := repo.ListByKeys(context.Background(), []string{"opening_hours", "table_capacity"})
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "table_capacity", settings[1].Key)
}

func TestSettingsRepositoryListByKeysEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	settings, err := repo.ListByKeys(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, settings)
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSettingsRepository(db)
	mock.ExpectExec("INSERT INTO restaurant_settings").
		WithArgs("table_capacity", []byte(`{"total_seats":50}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	setting := &models.RestaurantSetting{
		Key:   "table_capacity",
		Value: []byte(`{"total_seats":50}`),
	}
	require.NoError(t, repo.Upsert(context.Background(), setting))
	assert.False(t, setting.UpdatedAt.IsZero())
}
