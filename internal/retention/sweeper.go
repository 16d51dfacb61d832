// Package retention deletes archived alert logs once they outlive the
// configured retention period.
package retention

import (
	"context"
	"log"
	"time"

	"github.com/red-maple-labs/proxherald/internal/logstore"
	"github.com/red-maple-labs/proxherald/internal/metrics"
)

// DefaultInterval is the time between sweep cycles.
const DefaultInterval = 24 * time.Hour

// Store is the subset of the log store the sweeper needs.
type Store interface {
	List() ([]logstore.Entry, error)
	Delete(id string) error
}

// Sweeper periodically removes log entries older than the retention
// threshold. A retention of 0 days disables deletion entirely.
type Sweeper struct {
	store    Store
	days     int
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a sweeper with the default 24h interval.
func NewSweeper(store Store, retentionDays int) *Sweeper {
	return &Sweeper{
		store:    store,
		days:     retentionDays,
		interval: DefaultInterval,
		now:      time.Now,
	}
}

// Run sweeps once immediately, then on a fixed interval until ctx is
// canceled. Sweep faults are logged and never stop the loop.
func (s *Sweeper) Run(ctx context.Context) error {
	s.sweepAndLog()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("retention sweeper stopped")
			return nil
		case <-ticker.C:
			s.sweepAndLog()
		}
	}
}

// Sweep runs one cycle and returns the number of entries deleted.
// Individual delete failures are logged and skipped; one unremovable
// file must not abort the sweep.
func (s *Sweeper) Sweep() (int, error) {
	if s.days == 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-time.Duration(s.days) * 24 * time.Hour)

	entries, err := s.store.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, entry := range entries {
		if !entry.ModTime.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(entry.ID); err != nil {
			log.Printf("retention: delete entry %s: %v", entry.ID, err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

func (s *Sweeper) sweepAndLog() {
	deleted, err := s.Sweep()
	metrics.RetentionSweepsTotal.Inc()
	if err != nil {
		log.Printf("retention: sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		metrics.RetentionDeletionsTotal.Add(float64(deleted))
		log.Printf("retention: deleted %d expired log entries", deleted)
	}
}
