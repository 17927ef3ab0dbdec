package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/italyna/reservations-api/internal/dto"
	"github.com/italyna/reservations-api/internal/models"
	"github.com/italyna/reservations-api/internal/repository"
	appErrors "github.com/italyna/reservations-api/pkg/errors"
	"github.com/italyna/reservations-api/pkg/export"
)

type reservationRepository interface {
	Insert(ctx context.Context, reservation *models.Reservation) error
	FindByID(ctx context.Context, id string) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error)
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	ConfirmWithCapacityCheck(ctx context.Context, reservation *models.Reservation, totalSeats int, tableNumber *int) error
	CreateNotification(ctx context.Context, notification *models.ReservationNotification) error
}

type availabilityChecker interface {
	IsOpen(ctx context.Context, date, timeOfDay string) (bool, error)
	CheckAvailability(ctx context.Context, date, timeOfDay string, partySize int) (Decision, error)
}

// ReservationService orchestrates the guest intake sequence and the
// administrative reservation workflow.
type ReservationService struct {
	repo         reservationRepository
	availability availabilityChecker
	settings     availabilitySettings
	validator    *validator.Validate
	logger       *zap.Logger
	metrics      *MetricsService
}

// NewReservationService constructs a ReservationService.
func NewReservationService(repo reservationRepository, availability availabilityChecker, settings availabilitySettings, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		repo:         repo,
		availability: availability,
		settings:     settings,
		validator:    validate,
		logger:       logger,
		metrics:      metrics,
	}
}

// Create runs the intake sequence in a single pass: openness check, then the
// advisory capacity check, then persistence of a pending reservation. A
// rejected request leaves no trace in the store, and intake never sends
// notifications; confirmation flows from the later administrative confirm.
func (s *ReservationService) Create(ctx context.Context, req dto.CreateReservationRequest) (*dto.IntakeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	open, err := s.availability.IsOpen(ctx, req.ReservationDate, req.ReservationTime)
	if err != nil {
		return nil, err
	}
	if !open {
		return s.rejected(dto.RejectionClosed), nil
	}

	decision, err := s.availability.CheckAvailability(ctx, req.ReservationDate, req.ReservationTime, req.PartySize)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrAvailabilityUnknown.Code {
			return s.rejected(dto.RejectionUnavailable), nil
		}
		return nil, err
	}
	if !decision.CanAccept {
		return s.rejected(decision.Reason), nil
	}

	reservation := &models.Reservation{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		PartySize:       req.PartySize,
		Status:          models.StatusPending,
	}
	if req.SpecialRequests != "" {
		requests := req.SpecialRequests
		reservation.SpecialRequests = &requests
	}

	if err := s.repo.Insert(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailed.Code, appErrors.ErrPersistenceFailed.Status, appErrors.ErrPersistenceFailed.Message)
	}

	if s.metrics != nil {
		s.metrics.RecordIntakeDecision("accepted")
	}
	s.logger.Info("reservation accepted",
		zap.String("reservation_id", reservation.ID),
		zap.String("date", reservation.ReservationDate),
		zap.String("time", reservation.ReservationTime),
		zap.Int("party_size", reservation.PartySize),
	)

	return &dto.IntakeResult{Accepted: true, Reservation: reservation}, nil
}

// List returns reservations for the admin back office.
func (s *ReservationService) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, *models.Pagination, error) {
	reservations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return reservations, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateStatus applies an administrative status transition. Confirms are the
// linearization point for capacity: they re-check aggregate seats inside a
// serialized transaction, so the advisory intake check can never oversell a
// slot on its own.
func (s *ReservationService) UpdateStatus(ctx context.Context, id string, req dto.UpdateReservationStatusRequest, actor *models.JWTClaims) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !models.ValidStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch reservation")
	}

	if !models.CanTransition(reservation.Status, req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move reservation from %s to %s", reservation.Status, req.Status))
	}

	if req.Status == models.StatusConfirmed {
		if err := s.confirm(ctx, reservation, req.TableNumber); err != nil {
			return nil, err
		}
		reservation.Status = models.StatusConfirmed
		if req.TableNumber != nil {
			reservation.TableNumber = req.TableNumber
		}
	} else {
		if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reservation status")
		}
		reservation.Status = req.Status
	}

	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}
	s.logger.Info("reservation status updated",
		zap.String("reservation_id", id),
		zap.String("status", string(req.Status)),
		zap.String("actor", actorID),
	)

	return reservation, nil
}

func (s *ReservationService) confirm(ctx context.Context, reservation *models.Reservation, tableNumber *int) error {
	totalSeats := 0
	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil {
		// Without capacity settings the confirm check cannot bound seats;
		// fail open the same way intake does and log the gap.
		s.logger.Warn("confirming without capacity settings", zap.Error(err))
	} else if snapshot.TableCapacity != nil {
		totalSeats = snapshot.TableCapacity.TotalSeats
	}

	if err := s.repo.ConfirmWithCapacityCheck(ctx, reservation, totalSeats, tableNumber); err != nil {
		if errors.Is(err, repository.ErrSlotFull) {
			return appErrors.Clone(appErrors.ErrCapacityExceeded, "confirming would exceed seating capacity for this slot")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm reservation")
	}

	notification := &models.ReservationNotification{
		ReservationID: reservation.ID,
		Type:          "confirmation",
		EmailSent:     true,
	}
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		s.logger.Warn("failed to record confirmation notification", zap.Error(err))
	}

	return nil
}

// Export renders a day's reservation book as CSV or PDF.
func (s *ReservationService) Export(ctx context.Context, date, format string) ([]byte, string, error) {
	reservations, _, err := s.repo.List(ctx, models.ReservationFilter{Date: date, PageSize: 100, SortBy: "reservation_time", SortOrder: "ASC"})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservations for export")
	}

	dataset := export.Dataset{
		Headers: []string{"Time", "Guest", "Party", "Phone", "Status", "Table"},
		Rows:    make([]map[string]string, 0, len(reservations)),
	}
	for _, reservation := range reservations {
		table := ""
		if reservation.TableNumber != nil {
			table = fmt.Sprintf("%d", *reservation.TableNumber)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Time":   reservation.ReservationTime,
			"Guest":  reservation.GuestName,
			"Party":  fmt.Sprintf("%d", reservation.PartySize),
			"Phone":  reservation.GuestPhone,
			"Status": string(reservation.Status),
			"Table":  table,
		})
	}

	switch format {
	case "csv":
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, fmt.Sprintf("Reservations %s", date))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *ReservationService) rejected(reason string) *dto.IntakeResult {
	if s.metrics != nil {
		s.metrics.RecordIntakeDecision(reason)
	}
	return &dto.IntakeResult{Accepted: false, RejectionReason: reason}
}
