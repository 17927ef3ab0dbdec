package dto

import "github.com/italyna/reservations-api/internal/models"

// SettingsResponse exposes the current restaurant settings snapshot.
type SettingsResponse struct {
	OpeningHours  models.OpeningHours   `json:"opening_hours,omitempty"`
	TableCapacity *models.TableCapacity `json:"table_capacity,omitempty"`
}

// DayHoursPayload is a single weekday's open/close pair in update requests.
type DayHoursPayload struct {
	Open  string `json:"open" validate:"required,datetime=15:04"`
	Close string `json:"close" validate:"required,datetime=15:04"`
}

// UpdateOpeningHoursRequest replaces the weekly opening-hours table. Weekdays
// omitted from the map become closed days.
type UpdateOpeningHoursRequest struct {
	Hours map[string]DayHoursPayload `json:"hours" validate:"required,min=1,dive"`
}

// UpdateTableCapacityRequest replaces the seating capacity settings.
type UpdateTableCapacityRequest struct {
	TotalSeats   int                  `json:"total_seats" validate:"required,min=1"`
	MaxPartySize int                  `json:"max_party_size" validate:"required,min=1"`
	Tables       []TableCapacityEntry `json:"tables" validate:"omitempty,dive"`
}

// TableCapacityEntry describes one physical table for admin display.
type TableCapacityEntry struct {
	ID    int `json:"id" validate:"required,min=1"`
	Seats int `json:"seats" validate:"required,min=1"`
}
