// Package sampler provides a coalescing publisher for high-frequency
// values: only the most recent value survives between flushes.
package sampler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Sampler keeps the latest offered value and hands it to the flush callback
// at most once per interval, rate limited. Useful for progress streams that
// update far faster than anyone wants to read them.
type Sampler[T any] struct {
	flushCallback func(context.Context, T)
	flushInterval time.Duration
	rl            ratelimit.Limiter
	logger        *zap.Logger

	mu      sync.Mutex
	latest  T
	pending bool

	wg   sync.WaitGroup
	stop chan struct{}
}

// New constructs a Sampler flushing at most rps times per second.
func New[T any](logger *zap.Logger, flushCallback func(context.Context, T), flushInterval time.Duration, rps int) *Sampler[T] {
	if rps <= 0 {
		rps = 1
	}
	return &Sampler[T]{
		logger:        logger,
		flushCallback: flushCallback,
		flushInterval: flushInterval,
		rl:            ratelimit.New(rps),
		stop:          make(chan struct{}),
	}
}

// Start begins the background flushing loop.
func (s *Sampler[T]) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop flushes any pending value and stops the background loop.
func (s *Sampler[T]) Stop() {
	close(s.stop)
	s.wg.Wait()
}

// Offer replaces the pending value. It never blocks.
func (s *Sampler[T]) Offer(v T) {
	s.mu.Lock()
	s.latest = v
	s.pending = true
	s.mu.Unlock()
}

func (s *Sampler[T]) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	flush := func() {
		s.mu.Lock()
		if !s.pending {
			s.mu.Unlock()
			return
		}
		v := s.latest
		s.pending = false
		s.mu.Unlock()

		s.rl.Take()
		s.flushCallback(ctx, v)
		s.logger.Debug("sample flushed")
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case <-s.stop:
			flush()
			return

		case <-ticker.C:
			flush()
		}
	}
}
