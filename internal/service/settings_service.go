package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/italyna/reservations-api/internal/dto"
	"github.com/italyna/reservations-api/internal/models"
	"github.com/italyna/reservations-api/pkg/config"
	appErrors "github.com/italyna/reservations-api/pkg/errors"
)

const settingsSnapshotCacheKey = "settings:snapshot"

type settingsRepository interface {
	Get(ctx context.Context, key string) (*models.RestaurantSetting, error)
	ListByKeys(ctx context.Context, keys []string) ([]models.RestaurantSetting, error)
	Upsert(ctx context.Context, setting *models.RestaurantSetting) error
}

type settingsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SettingsService loads and updates the restaurant settings. Availability
// computations receive an explicit snapshot per call instead of sharing a
// mutable module-level settings object; updates invalidate the cached
// snapshot so the next computation sees fresh values.
type SettingsService struct {
	repo      settingsRepository
	cache     settingsCache
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.SettingsConfig
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, cache settingsCache, validate *validator.Validate, logger *zap.Logger, cfg config.SettingsConfig) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, validator: validate, logger: logger, cfg: cfg}
}

// Snapshot returns the current settings. A missing setting row yields a nil
// section, which the availability engine treats per its fail-open policy; a
// store failure is reported as CONFIG_UNAVAILABLE.
func (s *SettingsService) Snapshot(ctx context.Context) (models.RestaurantSettings, error) {
	var snapshot models.RestaurantSettings

	if s.cacheEnabled() {
		if err := s.cache.Get(ctx, settingsSnapshotCacheKey, &snapshot); err == nil {
			return snapshot, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("settings cache read failed", zap.Error(err))
		}
	}

	rows, err := s.repo.ListByKeys(ctx, []string{models.SettingOpeningHours, models.SettingTableCapacity})
	if err != nil {
		return snapshot, appErrors.Wrap(err, appErrors.ErrConfigUnavailable.Code, appErrors.ErrConfigUnavailable.Status, "failed to load restaurant settings")
	}

	for _, row := range rows {
		switch row.Key {
		case models.SettingOpeningHours:
			var hours models.OpeningHours
			if err := json.Unmarshal(row.Value, &hours); err != nil {
				s.logger.Warn("malformed opening_hours setting", zap.Error(err))
				continue
			}
			snapshot.OpeningHours = hours
		case models.SettingTableCapacity:
			var capacity models.TableCapacity
			if err := json.Unmarshal(row.Value, &capacity); err != nil {
				s.logger.Warn("malformed table_capacity setting", zap.Error(err))
				continue
			}
			snapshot.TableCapacity = &capacity
		}
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, settingsSnapshotCacheKey, snapshot, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("settings cache write failed", zap.Error(err))
		}
	}

	return snapshot, nil
}

// Reload drops the cached snapshot and loads settings fresh from the store.
func (s *SettingsService) Reload(ctx context.Context) (models.RestaurantSettings, error) {
	s.invalidate(ctx)
	return s.Snapshot(ctx)
}

// UpdateOpeningHours replaces the weekly opening-hours table.
func (s *SettingsService) UpdateOpeningHours(ctx context.Context, req dto.UpdateOpeningHoursRequest) (models.OpeningHours, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid opening hours payload")
	}

	hours := make(models.OpeningHours, len(req.Hours))
	for day, payload := range req.Hours {
		name := strings.ToLower(strings.TrimSpace(day))
		if !models.KnownWeekday(name) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q", day))
		}
		if payload.Open > payload.Close {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s: open must not be after close", name))
		}
		hours[name] = models.DayHours{Open: payload.Open, Close: payload.Close}
	}

	value, err := json.Marshal(hours)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode opening hours")
	}
	if err := s.repo.Upsert(ctx, &models.RestaurantSetting{Key: models.SettingOpeningHours, Value: value}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save opening hours")
	}

	s.invalidate(ctx)
	return hours, nil
}

// UpdateTableCapacity replaces the seating capacity settings.
func (s *SettingsService) UpdateTableCapacity(ctx context.Context, req dto.UpdateTableCapacityRequest) (*models.TableCapacity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid table capacity payload")
	}
	if req.MaxPartySize > req.TotalSeats {
		return nil, appErrors.Clone(appErrors.ErrValidation, "max_party_size must not exceed total_seats")
	}

	capacity := models.TableCapacity{
		TotalSeats:   req.TotalSeats,
		MaxPartySize: req.MaxPartySize,
		Tables:       make([]models.Table, 0, len(req.Tables)),
	}
	for _, table := range req.Tables {
		capacity.Tables = append(capacity.Tables, models.Table{ID: table.ID, Seats: table.Seats})
	}

	value, err := json.Marshal(capacity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode table capacity")
	}
	if err := s.repo.Upsert(ctx, &models.RestaurantSetting{Key: models.SettingTableCapacity, Value: value}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save table capacity")
	}

	s.invalidate(ctx)
	return &capacity, nil
}

// Get returns a single raw setting for the admin UI.
func (s *SettingsService) Get(ctx context.Context, key string) (*models.RestaurantSetting, error) {
	if key != models.SettingOpeningHours && key != models.SettingTableCapacity {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported setting key")
	}
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "setting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get setting")
	}
	return setting, nil
}

func (s *SettingsService) cacheEnabled() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Delete(ctx, settingsSnapshotCacheKey); err != nil {
		s.logger.Warn("settings cache invalidation failed", zap.Error(err))
	}
}
