package bookings

import (
	"context"
	"time"

	"github.com/example/tablebook/internal/db"
	"github.com/google/uuid"
)

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

const bookingCols = `id, restaurant_id, booking_date, booking_time, guests,
customer_name, customer_phone, status, deposit_required, deposit_amount,
created_at, updated_at`

func (r *Repo) Create(ctx context.Context, b Booking) (Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Status = StatusPending
	err := r.db.QueryRow(ctx, `
INSERT INTO bookings(id, restaurant_id, booking_date, booking_time, guests,
customer_name, customer_phone, status, deposit_required, deposit_amount)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING created_at, updated_at`,
		b.ID, b.RestaurantID, b.Date, b.Time, b.Guests,
		b.CustomerName, b.CustomerPhone, b.Status, b.DepositRequired, b.DepositAmount,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Booking{}, db.WrapNotFound(err)
	}
	return b, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return Booking{}, db.WrapNotFound(err)
	}
	return b, nil
}

func (r *Repo) ListByDate(ctx context.Context, restaurantID int64, date time.Time) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+bookingCols+`
FROM bookings
WHERE restaurant_id=$1 AND booking_date=$2
ORDER BY booking_time, created_at`, restaurantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SetStatus persists a transition already validated by Apply.
func (r *Repo) SetStatus(ctx context.Context, id string, status Status) error {
	n, err := r.db.Exec(ctx, `UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ExpireStaleHolds cancels pending bookings created before cutoff and
// returns how many were cancelled.
func (r *Repo) ExpireStaleHolds(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	return r.db.Exec(ctx, `
UPDATE bookings SET status=$1, updated_at=now()
WHERE id IN (
  SELECT id FROM bookings
  WHERE status=$2 AND created_at < $3
  ORDER BY created_at
  LIMIT $4
)`, StatusCancelled, StatusPending, cutoff, limit)
}

// MarkNoShows flags confirmed bookings whose slot instant is older than
// cutoff and returns how many were flagged. The stored date+time is
// restaurant-local, so it is resolved through the restaurant's timezone
// before comparing against the cutoff instant.
func (r *Repo) MarkNoShows(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	return r.db.Exec(ctx, `
UPDATE bookings SET status=$1, updated_at=now()
WHERE id IN (
  SELECT b.id FROM bookings b
  JOIN restaurants r ON r.id = b.restaurant_id
  WHERE b.status=$2
    AND (b.booking_date + b.booking_time::time) AT TIME ZONE r.timezone < $3
  ORDER BY b.booking_date, b.booking_time
  LIMIT $4
)`, StatusNoShow, StatusConfirmed, cutoff, limit)
}

func scanBooking(row db.Row) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.RestaurantID, &b.Date, &b.Time, &b.Guests,
		&b.CustomerName, &b.CustomerPhone, &b.Status, &b.DepositRequired, &b.DepositAmount,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}
