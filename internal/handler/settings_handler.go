package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/italyna/reservations-api/internal/dto"
	"github.com/italyna/reservations-api/internal/models"
	appErrors "github.com/italyna/reservations-api/pkg/errors"
	"github.com/italyna/reservations-api/pkg/response"
)

type settingsService interface {
	Snapshot(ctx context.Context) (models.RestaurantSettings, error)
	UpdateOpeningHours(ctx context.Context, req dto.UpdateOpeningHoursRequest) (models.OpeningHours, error)
	UpdateTableCapacity(ctx context.Context, req dto.UpdateTableCapacityRequest) (*models.TableCapacity, error)
}

// SettingsHandler exposes the restaurant settings endpoints.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler builds a new handler.
func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get godoc
// @Summary Get restaurant settings
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SettingsResponse{
		OpeningHours:  snapshot.OpeningHours,
		TableCapacity: snapshot.TableCapacity,
	}, nil)
}

// UpdateOpeningHours godoc
// @Summary Replace the weekly opening hours
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.UpdateOpeningHoursRequest true "Opening hours payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/settings/opening-hours [put]
func (h *SettingsHandler) UpdateOpeningHours(c *gin.Context) {
	var req dto.UpdateOpeningHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid opening hours payload"))
		return
	}

	hours, err := h.service.UpdateOpeningHours(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours, nil)
}

// UpdateTableCapacity godoc
// @Summary Replace the seating capacity settings
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.UpdateTableCapacityRequest true "Table capacity payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/settings/table-capacity [put]
func (h *SettingsHandler) UpdateTableCapacity(c *gin.Context) {
	var req dto.UpdateTableCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid table capacity payload"))
		return
	}

	capacity, err := h.service.UpdateTableCapacity(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, capacity, nil)
}
