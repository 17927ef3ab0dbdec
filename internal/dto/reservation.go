package dto

import "github.com/italyna/reservations-api/internal/models"

// CreateReservationRequest is the guest-submitted intake payload. The date is
// "YYYY-MM-DD" and the time a zero-padded "HH:MM" slot value.
type CreateReservationRequest struct {
	GuestName       string `json:"guest_name" validate:"required"`
	GuestEmail      string `json:"guest_email" validate:"required,email"`
	GuestPhone      string `json:"guest_phone" validate:"required"`
	ReservationDate string `json:"reservation_date" validate:"required,datetime=2006-01-02"`
	ReservationTime string `json:"reservation_time" validate:"required,datetime=15:04"`
	PartySize       int    `json:"party_size" validate:"required,min=1"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// Rejection reasons returned by intake.
const (
	RejectionClosed        = "closed"
	RejectionCapacity      = "capacity"
	RejectionPartyTooLarge = "party_too_large"
	RejectionUnavailable   = "unavailable"
)

// IntakeResult is the terminal outcome of a reservation intake attempt.
// Rejected attempts carry a reason and leave no persisted trace.
type IntakeResult struct {
	Accepted        bool                `json:"accepted"`
	Reservation     *models.Reservation `json:"reservation,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
}

// TimeSlotsResponse lists the bookable slots for a date.
type TimeSlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// AvailabilityResponse reports whether a party can be seated at a date/time,
// with the specific reason when it cannot.
type AvailabilityResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	PartySize int    `json:"party_size"`
	Open      bool   `json:"open"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// UpdateReservationStatusRequest is the admin status-transition payload.
type UpdateReservationStatusRequest struct {
	Status      models.ReservationStatus `json:"status" validate:"required"`
	TableNumber *int                     `json:"table_number,omitempty" validate:"omitempty,min=1"`
}
