package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/bookings"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/restaurants"
	"github.com/spf13/cobra"
)

// newAvailabilityCmd computes a slot table offline, running the same engine
// the API serves.
func newAvailabilityCmd() *cobra.Command {
	var restaurantID int64
	var dateStr string
	var guests int

	c := &cobra.Command{
		Use:   "availability",
		Short: "Print the slot table for a restaurant, date and party size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return err
			}
			defer d.Close()

			restRepo := restaurants.NewRepo(d)
			bookingRepo := bookings.NewRepo(d)

			rest, err := restRepo.Get(ctx, restaurantID)
			if err != nil {
				return err
			}
			hours, err := restRepo.Hours(ctx, restaurantID)
			if err != nil {
				return err
			}
			tables, err := restRepo.Tables(ctx, restaurantID)
			if err != nil {
				return err
			}
			existing, err := bookingRepo.ListByDate(ctx, restaurantID, date)
			if err != nil {
				return err
			}

			loads := make([]availability.Booking, 0, len(existing))
			for _, b := range existing {
				loads = append(loads, b.Load())
			}

			loc := rest.Location()
			localDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
			slots, err := availability.GenerateSlots(localDate, guests, hours, loads,
				restaurants.EngineTables(tables), availability.Config{
					SlotInterval:        time.Duration(cfg.SlotIntervalMinutes) * time.Minute,
					ServiceDuration:     time.Duration(cfg.ServiceDurationMinutes) * time.Minute,
					DefaultSlotCapacity: cfg.DefaultSlotCapacity,
				}, time.Now().In(loc))
			if err != nil {
				return err
			}

			if len(slots) == 0 {
				fmt.Fprintf(os.Stdout, "%s is closed on %s\n", rest.Name, dateStr)
				return nil
			}
			for _, s := range slots {
				mark := " "
				if s.Available {
					mark = "*"
				}
				fmt.Fprintf(os.Stdout, "%s %s remaining=%d\n", mark, s.Time, s.Remaining)
			}
			return nil
		},
	}

	c.Flags().Int64Var(&restaurantID, "restaurant-id", 0, "restaurant id")
	c.Flags().StringVar(&dateStr, "date", "", "date YYYY-MM-DD")
	c.Flags().IntVar(&guests, "guests", 2, "party size")
	_ = c.MarkFlagRequired("restaurant-id")
	_ = c.MarkFlagRequired("date")
	return c
}
