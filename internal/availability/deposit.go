package availability

import (
	"fmt"
	"time"
)

// DepositRisk flags a reservation likely to no-show. Advisory only: the
// caller decides whether to hold submission pending a deposit.
type DepositRisk struct {
	Required bool    `json:"required"`
	Amount   float64 `json:"amount"`
}

const (
	weekendEveningDeposit = 25
	largePartyDeposit     = 50

	primeHourStart = 18
	primeHourEnd   = 21 // inclusive start hour

	largePartySize = 6
)

// AssessDepositRisk is a pure function of date, start time and party size.
// Friday/Saturday bookings starting between 18:00 and 21:00 carry a 25
// deposit; parties of six or more carry 50, which takes precedence when
// both conditions hold.
func AssessDepositRisk(date time.Time, timeStr string, guests int) (DepositRisk, error) {
	if guests <= 0 {
		return DepositRisk{}, fmt.Errorf("%w: guests must be positive, got %d", ErrInvalidArgument, guests)
	}
	if date.IsZero() {
		return DepositRisk{}, fmt.Errorf("%w: zero date", ErrInvalidArgument)
	}
	minutes, err := parseClock(timeStr)
	if err != nil {
		return DepositRisk{}, err
	}

	var risk DepositRisk
	wd := date.Weekday()
	hour := minutes / 60
	if (wd == time.Friday || wd == time.Saturday) && hour >= primeHourStart && hour <= primeHourEnd {
		risk = DepositRisk{Required: true, Amount: weekendEveningDeposit}
	}
	if guests >= largePartySize {
		risk = DepositRisk{Required: true, Amount: largePartyDeposit}
	}
	return risk, nil
}
