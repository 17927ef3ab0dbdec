package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/italyna/reservations-api/internal/dto"
	"github.com/italyna/reservations-api/internal/models"
	"github.com/italyna/reservations-api/internal/service"
	appErrors "github.com/italyna/reservations-api/pkg/errors"
)

type reservationServiceMock struct {
	result    *dto.IntakeResult
	createErr error
	listResp  []models.Reservation
	updated   *models.Reservation
	updateErr error
	payload   []byte
	mime      string
	exportErr error
}

func (m *reservationServiceMock) Create(ctx context.Context, req dto.CreateReservationRequest) (*dto.IntakeResult, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.result, nil
}

func (m *reservationServiceMock) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, *models.Pagination, error) {
	return m.listResp, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.listResp)}, nil
}

func (m *reservationServiceMock) UpdateStatus(ctx context.Context, id string, req dto.UpdateReservationStatusRequest, actor *models.JWTClaims) (*models.Reservation, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.updated, nil
}

func (m *reservationServiceMock) Export(ctx context.Context, date, format string) ([]byte, string, error) {
	if m.exportErr != nil {
		return nil, "", m.exportErr
	}
	return m.payload, m.mime, nil
}

type availabilityServiceMock struct {
	slots    []string
	slotsErr error
	open     bool
	openErr  error
	decision service.Decision
	decErr   error
}

func (m *availabilityServiceMock) TimeSlots(ctx context.Context, date string) ([]string, error) {
	if m.slotsErr != nil {
		return nil, m.slotsErr
	}
	return m.slots, nil
}

func (m *availabilityServiceMock) IsOpen(ctx context.Context, date, timeOfDay string) (bool, error) {
	return m.open, m.openErr
}

func (m *availabilityServiceMock) CheckAvailability(ctx context.Context, date, timeOfDay string, partySize int) (service.Decision, error) {
	return m.decision, m.decErr
}

func newTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestReservationHandlerCreateAccepted(t *testing.T) {
	svc := &reservationServiceMock{result: &dto.IntakeResult{
		Accepted:    true,
		Reservation: &models.Reservation{ID: "res-1", Status: models.StatusPending},
	}}
	h := NewReservationHandler(svc, &availabilityServiceMock{})

	body, _ := json.Marshal(dto.CreateReservationRequest{
		GuestName:       "Ada Moretti",
		GuestEmail:      "ada@example.com",
		GuestPhone:      "+39 055 1234567",
		ReservationDate: "2024-06-01",
		ReservationTime: "19:00",
		PartySize:       4,
	})
	c, w := newTestContext(t, http.MethodPost, "/api/v1/reservations", body)

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, true, data["accepted"])
}

func TestReservationHandlerCreateRejected(t *testing.T) {
	svc := &reservationServiceMock{result: &dto.IntakeResult{
		Accepted:        false,
		RejectionReason: dto.RejectionCapacity,
	}}
	h := NewReservationHandler(svc, &availabilityServiceMock{})

	body, _ := json.Marshal(dto.CreateReservationRequest{
		GuestName:       "Ada Moretti",
		GuestEmail:      "ada@example.com",
		GuestPhone:      "+39 055 1234567",
		ReservationDate: "2024-06-01",
		ReservationTime: "19:00",
		PartySize:       10,
	})
	c, w := newTestContext(t, http.MethodPost, "/api/v1/reservations", body)

	h.Create(c)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, false, data["accepted"])
	assert.Equal(t, dto.RejectionCapacity, data["rejection_reason"])
}

func TestReservationHandlerCreateInvalidBody(t *testing.T) {
	h := NewReservationHandler(&reservationServiceMock{}, &availabilityServiceMock{})
	c, w := newTestContext(t, http.MethodPost, "/api/v1/reservations", []byte(`{"party_size":`))

	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandlerTimeSlots(t *testing.T) {
	availability := &availabilityServiceMock{slots: []string{"11:00", "11:30", "12:00"}}
	h := NewReservationHandler(&reservationServiceMock{}, availability)
	c, w := newTestContext(t, http.MethodGet, "/api/v1/reservations/slots?date=2024-06-01", nil)

	h.TimeSlots(c)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "2024-06-01", data["date"])
	assert.Len(t, data["slots"], 3)
}

func TestReservationHandlerTimeSlotsMissingDate(t *testing.T) {
	h := NewReservationHandler(&reservationServiceMock{}, &availabilityServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/api/v1/reservations/slots", nil)

	h.TimeSlots(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandlerAvailabilityClosedDay(t *testing.T) {
	h := NewReservationHandler(&reservationServiceMock{}, &availabilityServiceMock{open: false})
	c, w := newTestContext(t, http.MethodGet, "/api/v1/reservations/availability?date=2024-06-02&time=19:00&party_size=2", nil)

	h.CheckAvailability(c)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, false, data["open"])
	assert.Equal(t, false, data["available"])
	assert.Equal(t, dto.RejectionClosed, data["reason"])
}

func TestReservationHandlerAvailabilityAccepts(t *testing.T) {
	availability := &availabilityServiceMock{open: true, decision: service.Decision{CanAccept: true}}
	h := NewReservationHandler(&reservationServiceMock{}, availability)
	c, w := newTestContext(t, http.MethodGet, "/api/v1/reservations/availability?date=2024-06-01&time=19:00&party_size=4", nil)

	h.CheckAvailability(c)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, true, data["open"])
	assert.Equal(t, true, data["available"])
}

func TestReservationHandlerAvailabilityStoreDown(t *testing.T) {
	availability := &availabilityServiceMock{
		open:   true,
		decErr: appErrors.Clone(appErrors.ErrAvailabilityUnknown, "reservation store unreachable"),
	}
	h := NewReservationHandler(&reservationServiceMock{}, availability)
	c, w := newTestContext(t, http.MethodGet, "/api/v1/reservations/availability?date=2024-06-01&time=19:00&party_size=4", nil)

	h.CheckAvailability(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReservationHandlerAvailabilityBadPartySize(t *testing.T) {
	h := NewReservationHandler(&reservationServiceMock{}, &availabilityServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/api/v1/reservations/availability?date=2024-06-01&time=19:00&party_size=zero", nil)

	h.CheckAvailability(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandlerListUnknownStatus(t *testing.T) {
	h := NewReservationHandler(&reservationServiceMock{}, &availabilityServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/admin/reservations?status=waitlisted", nil)

	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandlerList(t *testing.T) {
	svc := &reservationServiceMock{listResp: []models.Reservation{
		{ID: "res-1", GuestName: "Ada Moretti", Status: models.StatusPending},
	}}
	h := NewReservationHandler(svc, &availabilityServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/admin/reservations?date=2024-06-01&status=pending", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.NotNil(t, envelope["pagination"])
}

func TestReservationHandlerUpdateStatus(t *testing.T) {
	svc := &reservationServiceMock{updated: &models.Reservation{ID: "res-1", Status: models.StatusConfirmed}}
	h := NewReservationHandler(svc, &availabilityServiceMock{})

	body, _ := json.Marshal(dto.UpdateReservationStatusRequest{Status: models.StatusConfirmed})
	c, w := newTestContext(t, http.MethodPatch, "/admin/reservations/res-1/status", body)
	c.Params = gin.Params{{Key: "id", Value: "res-1"}}

	h.UpdateStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, string(models.StatusConfirmed), data["status"])
}

func TestReservationHandlerUpdateStatusCapacityConflict(t *testing.T) {
	svc := &reservationServiceMock{updateErr: appErrors.Clone(appErrors.ErrCapacityExceeded, "slot is full")}
	h := NewReservationHandler(svc, &availabilityServiceMock{})

	body, _ := json.Marshal(dto.UpdateReservationStatusRequest{Status: models.StatusConfirmed})
	c, w := newTestContext(t, http.MethodPatch, "/admin/reservations/res-1/status", body)
	c.Params = gin.Params{{Key: "id", Value: "res-1"}}

	h.UpdateStatus(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReservationHandlerExport(t *testing.T) {
	svc := &reservationServiceMock{payload: []byte("Time,Guest\n"), mime: "text/csv"}
	h := NewReservationHandler(svc, &availabilityServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/admin/reservations/export?date=2024-06-01&format=csv", nil)

	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reservations-2024-06-01.csv")
}

func TestReservationHandlerExportMissingDate(t *testing.T) {
	h := NewReservationHandler(&reservationServiceMock{}, &availabilityServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/admin/reservations/export", nil)

	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
