package models

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// ValidStatus reports whether s is a known reservation status.
func ValidStatus(s ReservationStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransition encodes the allowed status transitions: forward only, with
// cancellation possible from pending and confirmed. Cancelled and completed
// are terminal.
func CanTransition(from, to ReservationStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Reservation is a persisted guest reservation. Rows are created in pending
// state by intake; only administrative actions move them to confirmed,
// cancelled or completed.
type Reservation struct {
	ID              string            `db:"id" json:"id"`
	GuestName       string            `db:"guest_name" json:"guest_name"`
	GuestEmail      string            `db:"guest_email" json:"guest_email"`
	GuestPhone      string            `db:"guest_phone" json:"guest_phone"`
	ReservationDate string            `db:"reservation_date" json:"reservation_date"`
	ReservationTime string            `db:"reservation_time" json:"reservation_time"`
	PartySize       int               `db:"party_size" json:"party_size"`
	SpecialRequests *string           `db:"special_requests" json:"special_requests,omitempty"`
	Status          ReservationStatus `db:"status" json:"status"`
	TableNumber     *int              `db:"table_number" json:"table_number,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// ReservationFilter captures filtering criteria for the admin listing.
type ReservationFilter struct {
	Date      string
	Status    *ReservationStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ReservationNotification records that a notification was produced for a
// reservation. Delivery itself is handled by an external messaging
// collaborator; this table is the record of what was handed off.
type ReservationNotification struct {
	ID            string    `db:"id" json:"id"`
	ReservationID string    `db:"reservation_id" json:"reservation_id"`
	Type          string    `db:"notification_type" json:"notification_type"`
	EmailSent     bool      `db:"email_sent" json:"email_sent"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
