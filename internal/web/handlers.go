package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/bookings"
	"github.com/example/tablebook/internal/cache"
	"github.com/example/tablebook/internal/restaurants"
)

const (
	dateLayout = "2006-01-02"
	maxGuests  = 20
)

type availabilityResponse struct {
	RestaurantID int64               `json:"restaurant_id"`
	Date         string              `json:"date"`
	Guests       int                 `json:"guests"`
	Slots        []availability.Slot `json:"slots"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	restaurantID, err := strconv.ParseInt(q.Get("restaurant_id"), 10, 64)
	if err != nil || restaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "restaurant_id must be a positive integer")
		return
	}
	dateStr := q.Get("date")
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	guests, err := strconv.Atoi(q.Get("guests"))
	if err != nil || guests < 1 || guests > maxGuests {
		writeError(w, http.StatusBadRequest, "invalid_request", "guests must be 1-20")
		return
	}

	key := cache.AvailabilityKey(restaurantID, dateStr, guests)
	if b, ok := s.Cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	slots, err := s.computeSlots(r.Context(), restaurantID, date, guests)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	resp := availabilityResponse{
		RestaurantID: restaurantID,
		Date:         dateStr,
		Guests:       guests,
		Slots:        slots,
	}
	if b, err := json.Marshal(resp); err == nil {
		s.Cache.Set(r.Context(), key, b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// computeSlots loads the engine inputs for one restaurant/date and runs the
// slot generator in the restaurant's timezone.
func (s *Server) computeSlots(ctx context.Context, restaurantID int64, date time.Time, guests int) ([]availability.Slot, error) {
	rest, err := s.Restaurants.Get(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	hours, err := s.Restaurants.Hours(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	tables, err := s.Restaurants.Tables(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Bookings.ListByDate(ctx, restaurantID, date)
	if err != nil {
		return nil, err
	}

	loads := make([]availability.Booking, 0, len(existing))
	for _, b := range existing {
		loads = append(loads, b.Load())
	}

	loc := rest.Location()
	localDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return availability.GenerateSlots(localDate, guests, hours, loads,
		restaurants.EngineTables(tables), s.Engine, s.now().In(loc))
}

func (s *Server) handleDepositRisk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	date, err := time.Parse(dateLayout, q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	guests, err := strconv.Atoi(q.Get("guests"))
	if err != nil || guests < 1 || guests > maxGuests {
		writeError(w, http.StatusBadRequest, "invalid_request", "guests must be 1-20")
		return
	}

	risk, err := availability.AssessDepositRisk(date, q.Get("time"), guests)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, risk)
}

type createBookingRequest struct {
	RestaurantID  int64  `json:"restaurant_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Guests        int    `json:"guests"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type bookingResponse struct {
	ID              string  `json:"id"`
	RestaurantID    int64   `json:"restaurant_id"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Guests          int     `json:"guests"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone,omitempty"`
	Status          string  `json:"status"`
	DepositRequired bool    `json:"deposit_required"`
	DepositAmount   float64 `json:"deposit_amount"`
}

func toBookingResponse(b bookings.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		RestaurantID:    b.RestaurantID,
		Date:            b.Date.Format(dateLayout),
		Time:            b.Time,
		Guests:          b.Guests,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		Status:          string(b.Status),
		DepositRequired: b.DepositRequired,
		DepositAmount:   b.DepositAmount,
	}
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBooking(w, r)
	case http.MethodGet:
		s.listBookings(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)

	if req.RestaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "restaurant_id must be a positive integer")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}
	if req.Guests < 1 || req.Guests > maxGuests {
		writeError(w, http.StatusBadRequest, "invalid_request", "guests must be 1-20")
		return
	}
	if req.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_name is required")
		return
	}

	slots, err := s.computeSlots(r.Context(), req.RestaurantID, date, req.Guests)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	slot, ok := availability.SlotFor(slots, req.Time)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "time is not a bookable slot")
		return
	}
	if !slot.Available {
		writeError(w, http.StatusConflict, "slot_unavailable", "requested slot cannot seat this party")
		return
	}

	risk, err := availability.AssessDepositRisk(date, req.Time, req.Guests)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	b := bookings.Booking{
		RestaurantID:    req.RestaurantID,
		Date:            date,
		Time:            slot.Time,
		Guests:          req.Guests,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DepositRequired: risk.Required,
		DepositAmount:   risk.Amount,
	}
	if err := b.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := s.Bookings.Create(r.Context(), b)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(created))
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.Auth.SessionFrom(r); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "staff session required")
		return
	}

	q := r.URL.Query()
	restaurantID, err := strconv.ParseInt(q.Get("restaurant_id"), 10, 64)
	if err != nil || restaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "restaurant_id must be a positive integer")
		return
	}
	date, err := time.Parse(dateLayout, q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	list, err := s.Bookings.ListByDate(r.Context(), restaurantID, date)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBookingAction routes POST /api/bookings/{id}/{action}.
func (s *Server) handleBookingAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := s.Auth.SessionFrom(r); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "staff session required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown booking action")
		return
	}
	id := parts[0]

	var action bookings.Action
	switch parts[1] {
	case "confirm":
		action = bookings.ActionConfirm
	case "cancel":
		action = bookings.ActionCancel
	case "complete":
		action = bookings.ActionComplete
	case "no-show":
		action = bookings.ActionNoShow
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown booking action")
		return
	}

	b, err := s.Bookings.GetByID(r.Context(), id)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	next, err := bookings.Apply(action, b.Status)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	if err := s.Bookings.SetStatus(r.Context(), id, next); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	b.Status = next
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

type optimizeRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	Date         string `json:"date"`
}

type optimizeResponse struct {
	RestaurantID int64             `json:"restaurant_id"`
	Date         string            `json:"date"`
	Source       string            `json:"source"`
	Plan         availability.Plan `json:"plan"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req optimizeRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if req.RestaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "restaurant_id must be a positive integer")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	if _, err := s.Restaurants.Get(r.Context(), req.RestaurantID); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	tables, err := s.Restaurants.Tables(r.Context(), req.RestaurantID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	list, err := s.Bookings.ListByDate(r.Context(), req.RestaurantID, date)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	var plannable []availability.PlanBooking
	for _, b := range list {
		if !b.Status.CountsAgainstCapacity() {
			continue
		}
		plannable = append(plannable, availability.PlanBooking{ID: b.ID, Time: b.Time, Guests: b.Guests})
	}

	suggester := s.Suggest
	if suggester == nil {
		plan := availability.OptimizeTables(plannable, restaurants.EngineTables(tables))
		writeJSON(w, http.StatusOK, optimizeResponse{
			RestaurantID: req.RestaurantID, Date: req.Date, Source: "greedy", Plan: plan,
		})
		return
	}

	plan, err := suggester.Suggest(r.Context(), plannable, restaurants.EngineTables(tables))
	if err != nil {
		// suggesters wrap their own fallback; an error here is terminal
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, optimizeResponse{
		RestaurantID: req.RestaurantID, Date: req.Date, Source: suggester.Name(), Plan: plan,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	sess, err := s.Auth.Authenticate(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid username/password")
		return
	}
	if err := s.Auth.SetSession(w, r, sess); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "session encode failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": sess.UserID, "admin": sess.Admin})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.Auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
