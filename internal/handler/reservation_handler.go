package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/italyna/reservations-api/internal/dto"
	"github.com/italyna/reservations-api/internal/models"
	"github.com/italyna/reservations-api/internal/service"
	appErrors "github.com/italyna/reservations-api/pkg/errors"
	"github.com/italyna/reservations-api/pkg/response"
)

type reservationService interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (*dto.IntakeResult, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, *models.Pagination, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateReservationStatusRequest, actor *models.JWTClaims) (*models.Reservation, error)
	Export(ctx context.Context, date, format string) ([]byte, string, error)
}

type availabilityService interface {
	TimeSlots(ctx context.Context, date string) ([]string, error)
	IsOpen(ctx context.Context, date, timeOfDay string) (bool, error)
	CheckAvailability(ctx context.Context, date, timeOfDay string, partySize int) (service.Decision, error)
}

// ReservationHandler exposes the guest intake endpoints and the admin
// reservation workflow.
type ReservationHandler struct {
	reservations reservationService
	availability availabilityService
}

// NewReservationHandler builds a new handler.
func NewReservationHandler(reservations reservationService, availability availabilityService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, availability: availability}
}

// Create godoc
// @Summary Submit a reservation request
// @Description Runs the intake checks and persists a pending reservation when the slot can take the party
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body dto.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reservation payload"))
		return
	}

	result, err := h.reservations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !result.Accepted {
		// A rejection is a terminal answer for the guest, not a server fault.
		response.JSON(c, http.StatusOK, result, nil)
		return
	}
	response.Created(c, result)
}

// TimeSlots godoc
// @Summary List bookable time slots for a date
// @Tags Reservations
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reservations/slots [get]
func (h *ReservationHandler) TimeSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter is required"))
		return
	}

	slots, err := h.availability.TimeSlots(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.TimeSlotsResponse{Date: date, Slots: slots}, nil)
}

// CheckAvailability godoc
// @Summary Check whether a party fits a slot
// @Tags Reservations
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param time query string true "Time (HH:MM)"
// @Param party_size query int true "Party size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /reservations/availability [get]
func (h *ReservationHandler) CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	timeOfDay := c.Query("time")
	if date == "" || timeOfDay == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date and time query parameters are required"))
		return
	}
	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "1"))
	if err != nil || partySize < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "party_size must be a positive integer"))
		return
	}

	resp := dto.AvailabilityResponse{Date: date, Time: timeOfDay, PartySize: partySize}

	open, err := h.availability.IsOpen(c.Request.Context(), date, timeOfDay)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !open {
		resp.Reason = dto.RejectionClosed
		response.JSON(c, http.StatusOK, resp, nil)
		return
	}
	resp.Open = true

	decision, err := h.availability.CheckAvailability(c.Request.Context(), date, timeOfDay, partySize)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp.Available = decision.CanAccept
	resp.Reason = decision.Reason
	response.JSON(c, http.StatusOK, resp, nil)
}

// List godoc
// @Summary List reservations
// @Tags Admin
// @Produce json
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param status query string false "Filter by status"
// @Param search query string false "Search guest name, email or phone"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	filter := models.ReservationFilter{
		Date:      c.Query("date"),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "reservation_date"),
		SortOrder: c.DefaultQuery("sort_order", "ASC"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ReservationStatus(raw)
		if !models.ValidStatus(status) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw)))
			return
		}
		filter.Status = &status
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reservations, pagination, err := h.reservations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, pagination)
}

// UpdateStatus godoc
// @Summary Update reservation status
// @Description Applies a status transition; confirming re-checks seating capacity
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body dto.UpdateReservationStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	reservation, err := h.reservations.UpdateStatus(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservation, nil)
}

// Export godoc
// @Summary Export a day's reservation book
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/reservations/export [get]
func (h *ReservationHandler) Export(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter is required"))
		return
	}
	format := c.DefaultQuery("format", "csv")

	payload, contentType, err := h.reservations.Export(c.Request.Context(), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=reservations-%s.%s", date, format))
	c.Data(http.StatusOK, contentType, payload)
}
