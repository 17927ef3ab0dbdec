package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to ReservationStatus }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to ReservationStatus }{
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusCompleted, StatusCancelled},
		{StatusCompleted, StatusConfirmed},
		{StatusConfirmed, StatusPending},
		{StatusPending, StatusCompleted},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus(ReservationStatus("rejected")))
}
