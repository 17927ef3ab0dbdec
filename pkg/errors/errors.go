package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Reservation-domain errors. RestaurantClosed, CapacityExceeded and
// PartyTooLarge are business rejections, not system faults; the guest sees a
// specific reason for each. AvailabilityUnknown is a store failure and must
// never be conflated with "no capacity".
var (
	ErrRestaurantClosed    = New("RESTAURANT_CLOSED", http.StatusConflict, "restaurant is closed at the requested time")
	ErrCapacityExceeded    = New("CAPACITY_EXCEEDED", http.StatusConflict, "no tables available for the requested time")
	ErrPartyTooLarge       = New("PARTY_TOO_LARGE", http.StatusConflict, "party size exceeds the maximum we can seat")
	ErrAvailabilityUnknown = New("AVAILABILITY_UNKNOWN", http.StatusServiceUnavailable, "unable to verify availability, please try again")
	ErrConfigUnavailable   = New("CONFIG_UNAVAILABLE", http.StatusServiceUnavailable, "restaurant settings are unavailable")
	ErrPersistenceFailed   = New("PERSISTENCE_FAILED", http.StatusInternalServerError, "failed to save reservation")
	ErrInvalidTransition   = New("INVALID_TRANSITION", http.StatusConflict, "invalid reservation status transition")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
