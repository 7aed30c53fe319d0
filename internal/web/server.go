// Package web serves the JSON API: availability, deposit risk, bookings and
// table-plan optimization. Handlers validate input, call the repos and the
// pure availability engine, and serialize plain structs; they hold no state
// of their own.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/tablebook/internal/auth"
	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/bookings"
	"github.com/example/tablebook/internal/cache"
	"github.com/example/tablebook/internal/restaurants"
	"github.com/example/tablebook/internal/suggest"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// BookingStore is the slice of the bookings repo the handlers use.
type BookingStore interface {
	Create(ctx context.Context, b bookings.Booking) (bookings.Booking, error)
	GetByID(ctx context.Context, id string) (bookings.Booking, error)
	ListByDate(ctx context.Context, restaurantID int64, date time.Time) ([]bookings.Booking, error)
	SetStatus(ctx context.Context, id string, status bookings.Status) error
}

// RestaurantStore supplies the engine's read-only inputs.
type RestaurantStore interface {
	Get(ctx context.Context, id int64) (restaurants.Restaurant, error)
	Hours(ctx context.Context, restaurantID int64) (availability.WeekHours, error)
	Tables(ctx context.Context, restaurantID int64) ([]restaurants.Table, error)
}

type Server struct {
	Auth        *auth.Store
	Bookings    BookingStore
	Restaurants RestaurantStore
	Cache       *cache.Cache
	Suggest     suggest.Suggester

	Engine availability.Config

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time

	RateLimit rate.Limit
	RateBurst int
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/deposit-risk", s.handleDepositRisk)
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/", s.handleBookingAction)
	mux.Handle("/api/tables/optimize", s.Auth.RequireAdmin(http.HandlerFunc(s.handleOptimize)))

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)

	var h http.Handler = mux
	h = cors.AllowAll().Handler(h)
	if s.RateLimit > 0 {
		h = rateLimit(rate.NewLimiter(s.RateLimit, s.RateBurst), h)
	}
	return logging(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Start serves h until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	fmt.Printf("listening on %s\n", addr)
	return srv.ListenAndServe()
}
