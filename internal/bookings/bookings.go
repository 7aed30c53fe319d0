// Package bookings owns the reservation record and its status lifecycle:
// pending -> confirmed -> completed, or cancelled / no_show.
package bookings

import (
	"fmt"
	"time"

	"github.com/example/tablebook/internal/availability"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// CountsAgainstCapacity reports whether a booking in this status still
// holds seats. Cancelled and no-show bookings free their slot.
func (s Status) CountsAgainstCapacity() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

type Booking struct {
	ID            string
	RestaurantID  int64
	Date          time.Time
	Time          string // HH:MM
	Guests        int
	CustomerName  string
	CustomerPhone string

	Status Status

	DepositRequired bool
	DepositAmount   float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Booking) Validate() error {
	if b.RestaurantID <= 0 {
		return fmt.Errorf("restaurant_id required")
	}
	if b.Date.IsZero() {
		return fmt.Errorf("date required")
	}
	if b.Time == "" {
		return fmt.Errorf("time required")
	}
	if b.Guests < 1 {
		return fmt.Errorf("guests must be at least 1")
	}
	if b.CustomerName == "" {
		return fmt.Errorf("customer_name required")
	}
	return nil
}

// Load converts a booking to the availability engine's capacity view.
func (b Booking) Load() availability.Booking {
	return availability.Booking{
		ID:        b.ID,
		Time:      b.Time,
		Guests:    b.Guests,
		Cancelled: !b.Status.CountsAgainstCapacity(),
	}
}
