package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/italyna/reservations-api/internal/dto"
	"github.com/italyna/reservations-api/internal/models"
	"github.com/italyna/reservations-api/pkg/config"
	appErrors "github.com/italyna/reservations-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type availabilitySettings interface {
	Snapshot(ctx context.Context) (models.RestaurantSettings, error)
}

type availabilityReservations interface {
	ConfirmedPartySizes(ctx context.Context, date, timeOfDay string) ([]int, error)
}

// Decision is the outcome of an availability evaluation. When CanAccept is
// false, Reason distinguishes "no seats left" from "party exceeds the
// per-party maximum" so callers can show an accurate message.
type Decision struct {
	CanAccept bool
	Reason    string
}

// AvailabilityService implements the reservation availability engine: slot
// generation, the openness check and the capacity evaluator. Every call
// fetches a fresh settings snapshot; the service itself is stateless.
//
// The evaluator reads aggregate occupied seats without any lock, so it is
// advisory only: the authoritative oversell check runs when a reservation is
// confirmed (ReservationRepository.ConfirmWithCapacityCheck).
type AvailabilityService struct {
	settings     availabilitySettings
	reservations availabilityReservations
	logger       *zap.Logger
	cfg          config.AvailabilityConfig
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(settings availabilitySettings, reservations availabilityReservations, logger *zap.Logger, cfg config.AvailabilityConfig) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlotInterval <= 0 {
		cfg.SlotInterval = 30 * time.Minute
	}
	return &AvailabilityService{settings: settings, reservations: reservations, logger: logger, cfg: cfg}
}

// TimeSlots returns the ordered bookable time-of-day slots for a date: fixed
// interval steps from open while the slot is not past close. Close itself
// appears only when the interval lands on it exactly; a trailing partial
// interval yields no extra slot. Pure function of the date and the current
// schedule, so repeated calls return identical sequences.
func (s *AvailabilityService) TimeSlots(ctx context.Context, date string) ([]string, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil || snapshot.OpeningHours == nil {
		if err != nil {
			s.logger.Warn("opening hours unavailable, returning no slots", zap.Error(err))
		}
		return []string{}, nil
	}

	hours, open := snapshot.OpeningHours.ForDate(day)
	if !open {
		return []string{}, nil
	}

	openMin, err := parseClock(hours.Open)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfigUnavailable.Code, appErrors.ErrConfigUnavailable.Status, "malformed opening hours")
	}
	closeMin, err := parseClock(hours.Close)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfigUnavailable.Code, appErrors.ErrConfigUnavailable.Status, "malformed opening hours")
	}

	step := int(s.cfg.SlotInterval.Minutes())
	if step <= 0 {
		step = 30
	}
	slots := make([]string, 0, (closeMin-openMin)/step+1)
	for m := openMin; m <= closeMin; m += step {
		slots = append(slots, formatClock(m))
	}
	return slots, nil
}

// IsOpen reports whether the restaurant is open at the given date and "HH:MM"
// time. Both the open and close instants are bookable (inclusive bounds). An
// absent weekday means closed; opening hours that cannot be loaded fail open
// by default so a settings outage never blocks bookings.
func (s *AvailabilityService) IsOpen(ctx context.Context, date, timeOfDay string) (bool, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil || snapshot.OpeningHours == nil {
		if err != nil {
			s.logger.Warn("opening hours unavailable for openness check", zap.Error(err))
		}
		if s.cfg.FailOpen {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return false, appErrors.Clone(appErrors.ErrConfigUnavailable, "opening hours not configured")
	}

	hours, open := snapshot.OpeningHours.ForDate(day)
	if !open {
		return false, nil
	}

	// Lexicographic comparison is correct for zero-padded HH:MM within a day.
	return hours.Open <= timeOfDay && timeOfDay <= hours.Close, nil
}

// CheckAvailability decides whether a party can be seated at the given date
// and time. It sums party sizes over confirmed reservations for the slot and
// accepts when enough aggregate seats remain and the party does not exceed
// the per-party maximum. A failure querying the reservation store surfaces as
// AVAILABILITY_UNKNOWN, distinct from a capacity rejection.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, date, timeOfDay string, partySize int) (Decision, error) {
	if partySize < 1 {
		return Decision{}, appErrors.Clone(appErrors.ErrValidation, "party size must be at least 1")
	}

	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil || snapshot.TableCapacity == nil {
		if err != nil {
			s.logger.Warn("table capacity unavailable for availability check", zap.Error(err))
		}
		if s.cfg.FailOpen {
			return Decision{CanAccept: true}, nil
		}
		if err != nil {
			return Decision{}, err
		}
		return Decision{}, appErrors.Clone(appErrors.ErrConfigUnavailable, "table capacity not configured")
	}
	capacity := snapshot.TableCapacity

	sizes, err := s.reservations.ConfirmedPartySizes(ctx, date, timeOfDay)
	if err != nil {
		return Decision{}, appErrors.Wrap(err, appErrors.ErrAvailabilityUnknown.Code, appErrors.ErrAvailabilityUnknown.Status, appErrors.ErrAvailabilityUnknown.Message)
	}

	occupied := 0
	for _, size := range sizes {
		occupied += size
	}
	available := capacity.TotalSeats - occupied

	if partySize > capacity.MaxPartySize {
		return Decision{Reason: dto.RejectionPartyTooLarge}, nil
	}
	if available < partySize {
		return Decision{Reason: dto.RejectionCapacity}, nil
	}
	return Decision{CanAccept: true}, nil
}

func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
