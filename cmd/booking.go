package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/example/tablebook/internal/bookings"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/spf13/cobra"
)

func newBookingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking",
		Short: "Inspect bookings (non-UI)",
	}
	cmd.AddCommand(newBookingListCmd())
	return cmd
}

func newBookingListCmd() *cobra.Command {
	var restaurantID int64
	var dateStr string

	c := &cobra.Command{
		Use:   "list",
		Short: "List bookings for a restaurant and date",
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

			repo := bookings.NewRepo(d)
			list, err := repo.ListByDate(ctx, restaurantID, date)
			if err != nil {
				return err
			}
			for _, b := range list {
				deposit := ""
				if b.DepositRequired {
					deposit = fmt.Sprintf(" deposit=%.2f", b.DepositAmount)
				}
				fmt.Fprintf(os.Stdout, "id=%s time=%s guests=%d status=%s name=%q%s\n",
					b.ID, b.Time, b.Guests, b.Status, b.CustomerName, deposit)
			}
			return nil
		},
	}

	c.Flags().Int64Var(&restaurantID, "restaurant-id", 0, "restaurant id")
	c.Flags().StringVar(&dateStr, "date", "", "date YYYY-MM-DD")
	_ = c.MarkFlagRequired("restaurant-id")
	_ = c.MarkFlagRequired("date")
	return c
}
