package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/italyna/reservations-api/internal/dto"
	"github.com/italyna/reservations-api/internal/models"
	"github.com/italyna/reservations-api/internal/repository"
	appErrors "github.com/italyna/reservations-api/pkg/errors"
)

type reservationRepoStub struct {
	inserted      []*models.Reservation
	insertErr     error
	byID          map[string]*models.Reservation
	listResp      []models.Reservation
	listTotal     int
	listErr       error
	confirmErr    error
	confirmCalls  int
	confirmSeats  int
	statusCalls   []models.ReservationStatus
	notifications []*models.ReservationNotification
}

func (s *reservationRepoStub) Insert(ctx context.Context, reservation *models.Reservation) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	reservation.ID = "res-test"
	s.inserted = append(s.inserted, reservation)
	return nil
}

func (s *reservationRepoStub) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	if r, ok := s.byID[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *reservationRepoStub) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.listResp, s.listTotal, nil
}

func (s *reservationRepoStub) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	s.statusCalls = append(s.statusCalls, status)
	return nil
}

func (s *reservationRepoStub) ConfirmWithCapacityCheck(ctx context.Context, reservation *models.Reservation, totalSeats int, tableNumber *int) error {
	s.confirmCalls++
	s.confirmSeats = totalSeats
	return s.confirmErr
}

func (s *reservationRepoStub) CreateNotification(ctx context.Context, notification *models.ReservationNotification) error {
	s.notifications = append(s.notifications, notification)
	return nil
}

type availabilityStub struct {
	open     bool
	openErr  error
	decision Decision
	decErr   error
}

func (s *availabilityStub) IsOpen(ctx context.Context, date, timeOfDay string) (bool, error) {
	return s.open, s.openErr
}

func (s *availabilityStub) CheckAvailability(ctx context.Context, date, timeOfDay string, partySize int) (Decision, error) {
	return s.decision, s.decErr
}

func validRequest() dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		GuestName:       "Ada Rossi",
		GuestEmail:      "ada@example.com",
		GuestPhone:      "555-0101",
		ReservationDate: "2024-06-01",
		ReservationTime: "19:00",
		PartySize:       4,
	}
}

func newReservationService(repo *reservationRepoStub, availability *availabilityStub, settings *settingsStub) *ReservationService {
	return NewReservationService(repo, availability, settings, validator.New(), nil, nil)
}

func TestCreateAcceptedPersistsPending(t *testing.T) {
	repo := &reservationRepoStub{}
	svc := newReservationService(repo, &availabilityStub{open: true, decision: Decision{CanAccept: true}}, &settingsStub{})

	result, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	require.NotNil(t, result.Reservation)
	assert.Equal(t, models.StatusPending, result.Reservation.Status)
	require.Len(t, repo.inserted, 1)
}

func TestCreateRejectedClosedLeavesNoTrace(t *testing.T) {
	repo := &reservationRepoStub{}
	svc := newReservationService(repo, &availabilityStub{open: false}, &settingsStub{})

	result, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, dto.RejectionClosed, result.RejectionReason)
	assert.Nil(t, result.Reservation)
	assert.Empty(t, repo.inserted)
}

func TestCreateRejectedCapacity(t *testing.T) {
	repo := &reservationRepoStub{}
	svc := newReservationService(repo, &availabilityStub{open: true, decision: Decision{Reason: dto.RejectionCapacity}}, &settingsStub{})

	result, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, dto.RejectionCapacity, result.RejectionReason)
	assert.Empty(t, repo.inserted)
}

func TestCreateRejectedPartyTooLarge(t *testing.T) {
	repo := &reservationRepoStub{}
	svc := newReservationService(repo, &availabilityStub{open: true, decision: Decision{Reason: dto.RejectionPartyTooLarge}}, &settingsStub{})

	result, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, dto.RejectionPartyTooLarge, result.RejectionReason)
	assert.Empty(t, repo.inserted)
}

func TestCreateStoreErrorRejectedAsUnavailable(t *testing.T) {
	repo := &reservationRepoStub{}
	decErr := appErrors.Clone(appErrors.ErrAvailabilityUnknown, "")
	svc := newReservationService(repo, &availabilityStub{open: true, decErr: decErr}, &settingsStub{})

	result, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, dto.RejectionUnavailable, result.RejectionReason)
	assert.Empty(t, repo.inserted)
}

func TestCreateValidationFailureBeforeAvailability(t *testing.T) {
	repo := &reservationRepoStub{}
	svc := newReservationService(repo, &availabilityStub{open: true, decision: Decision{CanAccept: true}}, &settingsStub{})

	req := validRequest()
	req.GuestEmail = "not-an-email"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.inserted)
}

func TestCreatePersistenceFailure(t *testing.T) {
	repo := &reservationRepoStub{insertErr: errors.New("disk full")}
	svc := newReservationService(repo, &availabilityStub{open: true, decision: Decision{CanAccept: true}}, &settingsStub{})

	_, err := svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPersistenceFailed.Code, appErrors.FromError(err).Code)
}

func pendingReservation(id string) *models.Reservation {
	return &models.Reservation{
		ID:              id,
		GuestName:       "Ada Rossi",
		GuestEmail:      "ada@example.com",
		GuestPhone:      "555-0101",
		ReservationDate: "2024-06-01",
		ReservationTime: "19:00",
		PartySize:       4,
		Status:          models.StatusPending,
	}
}

func TestUpdateStatusConfirmChecksCapacity(t *testing.T) {
	repo := &reservationRepoStub{byID: map[string]*models.Reservation{"res-1": pendingReservation("res-1")}}
	settings := &settingsStub{snapshot: saturdaySettings()}
	svc := newReservationService(repo, &availabilityStub{}, settings)

	updated, err := svc.UpdateStatus(context.Background(), "res-1", dto.UpdateReservationStatusRequest{Status: models.StatusConfirmed}, &models.JWTClaims{UserID: "admin"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, 1, repo.confirmCalls)
	assert.Equal(t, 50, repo.confirmSeats)
	require.Len(t, repo.notifications, 1)
	assert.Equal(t, "confirmation", repo.notifications[0].Type)
}

func TestUpdateStatusConfirmRejectsOversell(t *testing.T) {
	repo := &reservationRepoStub{
		byID:       map[string]*models.Reservation{"res-1": pendingReservation("res-1")},
		confirmErr: repository.ErrSlotFull,
	}
	svc := newReservationService(repo, &availabilityStub{}, &settingsStub{snapshot: saturdaySettings()})

	_, err := svc.UpdateStatus(context.Background(), "res-1", dto.UpdateReservationStatusRequest{Status: models.StatusConfirmed}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.notifications)
}

func TestUpdateStatusCancelSkipsCapacityCheck(t *testing.T) {
	repo := &reservationRepoStub{byID: map[string]*models.Reservation{"res-1": pendingReservation("res-1")}}
	svc := newReservationService(repo, &availabilityStub{}, &settingsStub{snapshot: saturdaySettings()})

	updated, err := svc.UpdateStatus(context.Background(), "res-1", dto.UpdateReservationStatusRequest{Status: models.StatusCancelled}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Zero(t, repo.confirmCalls)
	assert.Equal(t, []models.ReservationStatus{models.StatusCancelled}, repo.statusCalls)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	completed := pendingReservation("res-1")
	completed.Status = models.StatusCompleted
	repo := &reservationRepoStub{byID: map[string]*models.Reservation{"res-1": completed}}
	svc := newReservationService(repo, &availabilityStub{}, &settingsStub{snapshot: saturdaySettings()})

	_, err := svc.UpdateStatus(context.Background(), "res-1", dto.UpdateReservationStatusRequest{Status: models.StatusCancelled}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo := &reservationRepoStub{}
	svc := newReservationService(repo, &availabilityStub{}, &settingsStub{snapshot: saturdaySettings()})

	_, err := svc.UpdateStatus(context.Background(), "missing", dto.UpdateReservationStatusRequest{Status: models.StatusCancelled}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportCSV(t *testing.T) {
	table := 4
	repo := &reservationRepoStub{
		listResp: []models.Reservation{
			{ReservationTime: "19:00", GuestName: "Ada Rossi", PartySize: 4, GuestPhone: "555-0101", Status: models.StatusConfirmed, TableNumber: &table},
		},
		listTotal: 1,
	}
	svc := newReservationService(repo, &availabilityStub{}, &settingsStub{})

	payload, contentType, err := svc.Export(context.Background(), "2024-06-01", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Time,Guest,Party,Phone,Status,Table"))
	assert.Contains(t, body, "19:00,Ada Rossi,4,555-0101,confirmed,4")
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newReservationService(&reservationRepoStub{}, &availabilityStub{}, &settingsStub{})

	_, _, err := svc.Export(context.Background(), "2024-06-01", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
