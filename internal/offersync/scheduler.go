package offersync

import (
	"context"
	"time"

	"product-aggregator/prometheus"

	"go.uber.org/zap"
)

// Scheduler drives the recurring offer refresh. It is an owned instance with
// an explicit start/stop lifecycle: constructed at startup, Start begins
// ticking, Stop awaits in-flight tick completion. A single goroutine runs
// all ticks, so ticks never overlap; an overrunning tick delays the next.
type Scheduler struct {
	interval time.Duration
	syncer   *Syncer
	log      *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(interval time.Duration, syncer *Syncer, log *zap.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		syncer:   syncer,
		log:      log,
	}
}

// Start begins ticking. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.log.Info("Refresh scheduler started", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop shuts the scheduler down and blocks until the in-flight tick, if any,
// has finished. Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.log.Info("Refresh scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	prometheus.RefreshTicksTotal.Inc()
	start := time.Now()

	s.syncer.RefreshAll(ctx)

	s.log.Debug("Refresh tick finished", zap.Duration("elapsed", time.Since(start)))
}
