// Package restaurants reads the configuration data the availability engine
// consumes: weekly operating hours and the table inventory.
package restaurants

import (
	"context"
	"strconv"
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/db"
)

type Restaurant struct {
	ID        int64
	Name      string
	Timezone  string
	CreatedAt time.Time
}

// Location resolves the restaurant's timezone, falling back to UTC when the
// stored name does not load.
func (r Restaurant) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Table struct {
	ID       int64
	Label    string
	Capacity int
	Active   bool
}

// Engine converts to the availability engine's table view.
func (t Table) Engine() availability.Table {
	return availability.Table{
		ID:       strconv.FormatInt(t.ID, 10),
		Capacity: t.Capacity,
		Active:   t.Active,
	}
}

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

func (r *Repo) Get(ctx context.Context, id int64) (Restaurant, error) {
	var rest Restaurant
	err := r.db.QueryRow(ctx,
		`SELECT id, name, timezone, created_at FROM restaurants WHERE id=$1`, id).
		Scan(&rest.ID, &rest.Name, &rest.Timezone, &rest.CreatedAt)
	if err != nil {
		return Restaurant{}, db.WrapNotFound(err)
	}
	return rest, nil
}

// Hours loads the weekly schedule. Weekdays without a row are closed.
func (r *Repo) Hours(ctx context.Context, restaurantID int64) (availability.WeekHours, error) {
	var week availability.WeekHours
	for i := range week {
		week[i].Closed = true
	}

	rows, err := r.db.Query(ctx, `
SELECT weekday, open_time, close_time, closed
FROM operating_hours
WHERE restaurant_id=$1`, restaurantID)
	if err != nil {
		return week, err
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day availability.DayHours
		if err := rows.Scan(&weekday, &day.Open, &day.Close, &day.Closed); err != nil {
			return week, err
		}
		if weekday >= 0 && weekday < len(week) {
			week[weekday] = day
		}
	}
	return week, rows.Err()
}

func (r *Repo) Tables(ctx context.Context, restaurantID int64) ([]Table, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, label, capacity, active
FROM dining_tables
WHERE restaurant_id=$1
ORDER BY capacity, id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.Label, &t.Capacity, &t.Active); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// EngineTables maps the inventory to the availability engine's view.
func EngineTables(tables []Table) []availability.Table {
	out := make([]availability.Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Engine())
	}
	return out
}
