package availability

import (
	"fmt"
	"time"
)

// GenerateSlots produces the slot table for one date and party size.
//
// Candidate times run from open to close stepped by cfg.SlotInterval; the
// last candidate is the latest one that still leaves cfg.ServiceDuration
// before close. A slot is available iff seating the requested party would
// not push the slot past its ceiling and the slot instant is strictly after
// now. Closed days yield an empty list. A party larger than the ceiling
// yields every slot unavailable rather than an error, so the caller can
// surface a "party too large" message.
//
// Output is chronological and deterministic for identical inputs.
func GenerateSlots(date time.Time, guests int, hours WeekHours, bookings []Booking, tables []Table, cfg Config, now time.Time) ([]Slot, error) {
	if guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be positive, got %d", ErrInvalidArgument, guests)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: zero date", ErrInvalidArgument)
	}
	cfg = cfg.withDefaults()

	day := hours[date.Weekday()]
	if day.Closed {
		return []Slot{}, nil
	}
	open, err := parseClock(day.Open)
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	clos, err := parseClock(day.Close)
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}
	if clos <= open {
		return []Slot{}, nil
	}

	// Guests already seated per candidate time, cancelled bookings skipped.
	booked := make(map[int]int, len(bookings))
	for _, b := range bookings {
		if b.Cancelled || b.Guests <= 0 {
			continue
		}
		m, err := parseClock(b.Time)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		booked[m] += b.Guests
	}

	ceiling := slotCeiling(tables, cfg)
	step := int(cfg.SlotInterval / time.Minute)
	last := clos - int(cfg.ServiceDuration/time.Minute)

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var out []Slot
	for m := open; m <= last; m += step {
		remaining := ceiling - booked[m]
		if remaining < 0 {
			remaining = 0
		}
		instant := midnight.Add(time.Duration(m) * time.Minute)
		out = append(out, Slot{
			Time:      formatClock(m),
			Available: remaining >= guests && instant.After(now),
			Remaining: remaining,
		})
	}
	if out == nil {
		out = []Slot{}
	}
	return out, nil
}

// SlotFor returns the generated slot matching an HH:MM time, used by the
// booking path to re-check a single candidate before insert.
func SlotFor(slots []Slot, timeStr string) (Slot, bool) {
	want, err := parseClock(timeStr)
	if err != nil {
		return Slot{}, false
	}
	for _, s := range slots {
		m, err := parseClock(s.Time)
		if err != nil {
			continue
		}
		if m == want {
			return s, true
		}
	}
	return Slot{}, false
}
