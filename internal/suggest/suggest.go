// Package suggest asks an external optimization service for a table plan,
// falling back to the deterministic greedy engine when no service is
// configured or the call fails. The greedy plan is the reference behavior;
// the external result is advisory only.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/tablebook/internal/availability"
)

// Suggester proposes a seating plan for one service date.
type Suggester interface {
	Name() string
	Suggest(ctx context.Context, bookings []availability.PlanBooking, tables []availability.Table) (availability.Plan, error)
}

// Greedy is the always-available fallback wrapping the pure engine.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Suggest(_ context.Context, bookings []availability.PlanBooking, tables []availability.Table) (availability.Plan, error) {
	return availability.OptimizeTables(bookings, tables), nil
}

// Client calls an external HTTP optimization service.
type Client struct {
	hc      *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 3 * time.Second},
		baseURL: baseURL,
	}
}

func (c *Client) Name() string { return "external" }

type suggestRequest struct {
	Bookings []availability.PlanBooking `json:"bookings"`
	Tables   []suggestTable             `json:"tables"`
}

type suggestTable struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
}

func (c *Client) Suggest(ctx context.Context, bookings []availability.PlanBooking, tables []availability.Table) (availability.Plan, error) {
	payload := suggestRequest{Bookings: bookings}
	for _, t := range tables {
		if !t.Active {
			continue
		}
		payload.Tables = append(payload.Tables, suggestTable{ID: t.ID, Capacity: t.Capacity})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return availability.Plan{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/optimize", bytes.NewReader(body))
	if err != nil {
		return availability.Plan{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return availability.Plan{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return availability.Plan{}, err
	}
	if resp.StatusCode >= 400 {
		var r struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &r)
		if r.Message != "" {
			return availability.Plan{}, fmt.Errorf("suggest failed: %s (status=%d)", r.Message, resp.StatusCode)
		}
		return availability.Plan{}, fmt.Errorf("suggest failed (status=%d)", resp.StatusCode)
	}

	var plan availability.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return availability.Plan{}, fmt.Errorf("suggest decode: %w", err)
	}
	return plan, nil
}

// WithFallback wraps a primary suggester so callers always get a plan: any
// primary error silently yields the greedy result.
type WithFallback struct {
	Primary Suggester
}

func (w WithFallback) Name() string {
	if w.Primary == nil {
		return "greedy"
	}
	return w.Primary.Name() + "+greedy"
}

func (w WithFallback) Suggest(ctx context.Context, bookings []availability.PlanBooking, tables []availability.Table) (availability.Plan, error) {
	if w.Primary != nil {
		if plan, err := w.Primary.Suggest(ctx, bookings, tables); err == nil {
			return plan, nil
		}
	}
	return Greedy{}.Suggest(ctx, bookings, tables)
}
