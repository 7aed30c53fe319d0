// Package availability computes bookable time slots, deposit-risk flags and
// greedy table assignments from data the caller has already loaded. Every
// function here is pure: no storage, no network, no wall clock. Callers
// inject "now" where a past-time check is needed, which keeps the package
// usable from the HTTP layer, the CLI and tests alike.
package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument marks inputs the caller should have rejected upstream
// (non-positive guest counts, malformed clock strings, zero dates).
var ErrInvalidArgument = errors.New("invalid argument")

// DayHours is one weekday's operating window in restaurant-local time.
type DayHours struct {
	Open   string // HH:MM
	Close  string // HH:MM
	Closed bool
}

// WeekHours is indexed by time.Weekday (Sunday = 0).
type WeekHours [7]DayHours

// Booking is the minimal view of a reservation the engine needs.
// Cancelled bookings are carried so the no-count rule lives here rather
// than in every caller.
type Booking struct {
	ID        string
	Time      string // HH:MM
	Guests    int
	Cancelled bool
}

// Table is a seatable unit. Inactive tables contribute nothing to capacity.
type Table struct {
	ID       string
	Capacity int
	Active   bool
}

// Slot is a derived, never-persisted availability point.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Remaining int    `json:"remaining_capacity"`
}

// Config holds the knobs the source system left open.
type Config struct {
	// SlotInterval is the spacing between candidate times. Default 30m.
	SlotInterval time.Duration

	// ServiceDuration is the minimum seating length a slot must leave
	// before close. The last candidate is the latest slot that still fits
	// a full service. Default 90m.
	ServiceDuration time.Duration

	// DefaultSlotCapacity is the per-slot guest ceiling used when a
	// restaurant has no active tables configured. Default 40.
	DefaultSlotCapacity int
}

const (
	defaultSlotInterval    = 30 * time.Minute
	defaultServiceDuration = 90 * time.Minute
	defaultSlotCapacity    = 40
)

func (c Config) withDefaults() Config {
	if c.SlotInterval <= 0 {
		c.SlotInterval = defaultSlotInterval
	}
	if c.ServiceDuration <= 0 {
		c.ServiceDuration = defaultServiceDuration
	}
	if c.DefaultSlotCapacity <= 0 {
		c.DefaultSlotCapacity = defaultSlotCapacity
	}
	return c
}

// parseClock converts "HH:MM" (or "HH:MM:SS", seconds ignored) to minutes
// after midnight. Every field must be exactly two digits; anything else is
// an invalid argument rather than a best-effort guess.
func parseClock(s string) (int, error) {
	if len(s) == 8 && s[5] == ':' && isDigit(s[6]) && isDigit(s[7]) {
		s = s[:5]
	}
	if len(s) != 5 || s[2] != ':' ||
		!isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return 0, fmt.Errorf("%w: bad clock time %q", ErrInvalidArgument, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: bad clock time %q", ErrInvalidArgument, s)
	}
	return h*60 + m, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// slotCeiling sums active table capacities, falling back to the configured
// flat default when no active tables exist.
func slotCeiling(tables []Table, cfg Config) int {
	total := 0
	seen := false
	for _, t := range tables {
		if !t.Active || t.Capacity <= 0 {
			continue
		}
		seen = true
		total += t.Capacity
	}
	if !seen {
		return cfg.DefaultSlotCapacity
	}
	return total
}
