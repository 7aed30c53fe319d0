package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/tablebook/internal/auth"
	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/bookings"
	"github.com/example/tablebook/internal/cache"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/migrate"
	"github.com/example/tablebook/internal/restaurants"
	"github.com/example/tablebook/internal/scheduler"
	"github.com/example/tablebook/internal/suggest"
	"github.com/example/tablebook/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the booking API + lifecycle sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			authStore := auth.NewStore(d, cfg.CookieHashKey, cfg.CookieBlockKey)
			bookingRepo := bookings.NewRepo(d)
			restaurantRepo := restaurants.NewRepo(d)

			c, err := cache.Open(cfg.RedisURL, cfg.CacheTTL)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			var suggester suggest.Suggester = suggest.WithFallback{}
			if cfg.SuggestURL != "" {
				suggester = suggest.WithFallback{Primary: suggest.NewClient(cfg.SuggestURL)}
				log.Printf("suggest: external service enabled url=%s", cfg.SuggestURL)
			}

			// lifecycle sweeper
			sweeper := &scheduler.Sweeper{
				Repo:        bookingRepo,
				Interval:    cfg.SweepInterval,
				HoldTTL:     cfg.HoldTTL,
				NoShowGrace: cfg.NoShowGrace,
				BatchSize:   cfg.SweepBatchSize,
			}
			go func() { _ = sweeper.Run(ctx) }()

			srv := &web.Server{
				Auth:        authStore,
				Bookings:    bookingRepo,
				Restaurants: restaurantRepo,
				Cache:       c,
				Suggest:     suggester,
				Engine: availability.Config{
					SlotInterval:        time.Duration(cfg.SlotIntervalMinutes) * time.Minute,
					ServiceDuration:     time.Duration(cfg.ServiceDurationMinutes) * time.Minute,
					DefaultSlotCapacity: cfg.DefaultSlotCapacity,
				},
				RateLimit: rate.Limit(cfg.RateLimitPerSecond),
				RateBurst: cfg.RateLimitBurst,
			}
			return web.Start(ctx, cfg.ListenAddr, srv.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
