// internal/identity/scheduler.go
package identity

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler triggers a full identity refresh on a fixed period. It shares the
// RefreshAll code path with the on-demand admin trigger. No retry or backoff
// inside an interval: a failed cycle just waits for the next tick.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      *zap.SugaredLogger
}

func NewScheduler(svc *Service, interval time.Duration, log *zap.SugaredLogger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{svc: svc, interval: interval, log: log}
}

// Run blocks until ctx is cancelled. Meant to be started on its own goroutine
// at process start.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Infow("identity sync scheduler started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("identity sync scheduler stopped")
			return
		case <-ticker.C:
			s.svc.RefreshAll(ctx)
		}
	}
}
