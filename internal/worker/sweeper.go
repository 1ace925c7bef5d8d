// Package worker runs the background TTL sweep over conversation
// memory (§4.F, §5).
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/noor-rag/noor-core/internal/core/services"
)

// Sweeper periodically deletes conversation-memory messages older
// than MaxAge, grounded on the teacher's Scheduler ticker/Start/Stop
// shape but without the distributed-lock coordination the teacher
// needs for its multi-instance task scheduling - a single sweep
// running twice in the same interval is harmless here, since Delete
// is idempotent per point.
type Sweeper struct {
	memory   *services.Memory
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// SweeperConfig configures a Sweeper.
type SweeperConfig struct {
	Memory   *services.Memory
	Interval time.Duration // how often to sweep (default: 1h)
	MaxAge   time.Duration // message age past which it is deleted
	Logger   *slog.Logger
}

func NewSweeper(cfg SweeperConfig) *Sweeper {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		memory:   cfg.Memory,
		interval: interval,
		maxAge:   cfg.MaxAge,
		logger:   logger,
	}
}

// Start begins the sweep loop. It runs until Stop is called or ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("memory sweeper starting", "interval", s.interval, "max_age", s.maxAge)
	go s.run(ctx)
}

// Stop gracefully stops the sweep loop and waits for the in-flight
// sweep, if any, to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.logger.Info("memory sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	deleted, err := s.memory.Sweep(ctx, s.maxAge)
	if err != nil {
		s.logger.Error("memory sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("memory sweep complete", "deleted", deleted)
	}
}
