package models

import (
	"strings"
	"time"
)

// Setting keys stored in the restaurant_settings table.
const (
	SettingOpeningHours  = "opening_hours"
	SettingTableCapacity = "table_capacity"
)

// RestaurantSetting is a persisted key/value settings entry. Values are JSON
// documents owned by the admin back office.
type RestaurantSetting struct {
	Key       string    `db:"setting_key" json:"key"`
	Value     []byte    `db:"setting_value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DayHours is the open/close pair for a single weekday, both values
// zero-padded "HH:MM" 24-hour wall-clock strings. Open <= Close is assumed;
// hours spanning midnight are not supported.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OpeningHours maps lowercase weekday names to opening hours. A missing
// weekday means the restaurant is closed all day.
type OpeningHours map[string]DayHours

var weekdayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName returns the lowercase weekday name for a date.
func WeekdayName(date time.Time) string {
	return weekdayNames[int(date.Weekday())]
}

// KnownWeekday reports whether name is one of the seven weekday identifiers.
func KnownWeekday(name string) bool {
	name = strings.ToLower(name)
	for _, day := range weekdayNames {
		if day == name {
			return true
		}
	}
	return false
}

// ForDate looks up the hours for the date's weekday. The second return value
// is false when the restaurant is closed that day.
func (h OpeningHours) ForDate(date time.Time) (DayHours, bool) {
	hours, ok := h[WeekdayName(date)]
	return hours, ok
}

// Table describes a single physical table. Informational only: availability is
// computed from aggregate seats, tables are never bin-packed.
type Table struct {
	ID    int `json:"id"`
	Seats int `json:"seats"`
}

// TableCapacity holds the restaurant's aggregate seating limits.
type TableCapacity struct {
	TotalSeats   int     `json:"total_seats"`
	MaxPartySize int     `json:"max_party_size"`
	Tables       []Table `json:"tables"`
}

// RestaurantSettings is the scoped settings snapshot handed to each
// availability computation. Nil sections mean the corresponding setting could
// not be loaded; the availability engine applies its fail-open policy then.
// A snapshot is immutable for the duration of one computation and refreshed
// only by an explicit reload.
type RestaurantSettings struct {
	OpeningHours  OpeningHours   `json:"opening_hours,omitempty"`
	TableCapacity *TableCapacity `json:"table_capacity,omitempty"`
}
