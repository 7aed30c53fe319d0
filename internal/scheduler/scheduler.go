// Package scheduler runs the booking lifecycle sweeps: expiring pending
// holds that were never confirmed and flagging confirmed bookings whose
// slot passed without the party arriving.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// BookingSweeper is the slice of the bookings repo the sweeper drives.
type BookingSweeper interface {
	ExpireStaleHolds(ctx context.Context, cutoff time.Time, limit int) (int64, error)
	MarkNoShows(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

type Sweeper struct {
	Repo     BookingSweeper
	Interval time.Duration

	// HoldTTL is how long a pending booking may wait for confirmation.
	HoldTTL time.Duration
	// NoShowGrace is how long after the slot time a confirmed party may
	// still arrive before being flagged.
	NoShowGrace time.Duration
	BatchSize   int

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time

	wg sync.WaitGroup
}

func (s *Sweeper) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	// kick immediately
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sweep(ctx)
	}()
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	batch := s.BatchSize
	if batch <= 0 {
		batch = 100
	}

	if s.HoldTTL > 0 {
		n, err := s.Repo.ExpireStaleHolds(ctx, now.Add(-s.HoldTTL), batch)
		if err != nil {
			log.Printf("sweeper: expire holds failed: %v", err)
		} else if n > 0 {
			log.Printf("sweeper: expired_holds=%d", n)
		}
	}

	if s.NoShowGrace > 0 {
		n, err := s.Repo.MarkNoShows(ctx, now.Add(-s.NoShowGrace), batch)
		if err != nil {
			log.Printf("sweeper: no-show sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("sweeper: no_shows=%d", n)
		}
	}
}
