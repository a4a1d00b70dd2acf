// Package pow runs the proof-of-work nonce search and the digest/target
// comparison it is built on.
package pow

import (
	"context"
	"fmt"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/powforge7000-engine/internal/clock"
	"github.com/goodnatureofminers/powforge7000-engine/internal/compact"
	"github.com/goodnatureofminers/powforge7000-engine/internal/hashing"
	"github.com/goodnatureofminers/powforge7000-engine/internal/header"
	"github.com/goodnatureofminers/powforge7000-engine/internal/hexutil"
	"github.com/goodnatureofminers/powforge7000-engine/internal/metrics"
	"github.com/goodnatureofminers/powforge7000-engine/internal/model"
)

//go:generate mockgen -source=search.go -destination=mocks_test.go -package=pow

// ErrSearchActive is returned when Run is called on a session that has
// already started. A session runs exactly once.
var ErrSearchActive = fmt.Errorf("search already started")

// State is the search lifecycle. Found, Exhausted and Cancelled are
// terminal.
type State int32

const (
	StateIdle State = iota
	StateSearching
	StateFound
	StateExhausted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Hasher computes digests for the search loop. Satisfied by
// *hashing.Engine.
type Hasher interface {
	Compute(ctx context.Context, algorithm hashing.Algorithm, data []byte) (hashing.Digest, error)
}

// Stats is the per-session attempt accumulator. Values handed out are
// copies.
type Stats struct {
	HashesComputed uint64
	StartTime      time.Time
	Elapsed        time.Duration
	HashRate       float64
}

// Snapshot is one progress report. Snapshots arrive in strictly increasing
// nonce order; the terminal snapshot is delivered last, after which the
// events channel closes.
type Snapshot struct {
	State State
	Nonce uint32
	Stats Stats
}

// Result is the outcome of a finished search.
type Result struct {
	Success bool
	State   State
	Nonce   uint32
	Digest  hashing.Digest
	Stats   Stats
}

// Config describes one search session.
type Config struct {
	// Header is the template to search; the session owns it and mutates
	// only the nonce.
	Header model.BlockHeader
	// MaxAttempts bounds the nonce space walked. Zero or negative exhausts
	// immediately without computing a hash.
	MaxAttempts int64
	// Algorithm defaults to DoubleSHA256.
	Algorithm hashing.Algorithm
	// BatchSize is the number of attempts between cooperative suspension
	// points. Defaults to 100.
	BatchSize int
	// ProgressInterval is the minimum wall-clock gap between intermediate
	// snapshots. Defaults to 50ms.
	ProgressInterval time.Duration
	// Hasher defaults to hashing.NewEngine().
	Hasher Hasher
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Clock defaults to the system clock.
	Clock clock.Clock
	// Metrics, when set, records attempts, hash rate and outcomes.
	Metrics *metrics.Miner
}

const (
	defaultBatchSize        = 100
	defaultProgressInterval = 50 * time.Millisecond
	eventBuffer             = 16
)

// Search is a single-use nonce-search session. Construct with NewSearch,
// start with Run, watch progress via Events or Stats. Running two searches
// through one session is rejected; create a session per search.
type Search struct {
	cfg    Config
	target *big.Int

	state  atomic.Int32
	events chan Snapshot

	mu        sync.Mutex
	stats     Stats
	lastNonce uint32
}

// NewSearch prepares a session for the given configuration. The target is
// precomputed from the header's compact bits.
func NewSearch(cfg Config) *Search {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}
	if cfg.Hasher == nil {
		cfg.Hasher = hashing.NewEngine()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}

	return &Search{
		cfg:    cfg,
		target: compact.DecodeBig(cfg.Header.Bits),
		events: make(chan Snapshot, eventBuffer),
	}
}

// Events returns the progress stream. It closes after the terminal
// snapshot. Intermediate snapshots may be dropped when the consumer lags;
// the terminal one never is.
func (s *Search) Events() <-chan Snapshot {
	return s.events
}

// State reports the current lifecycle state.
func (s *Search) State() State {
	return State(s.state.Load())
}

// Stats returns an immutable copy of the live accumulator.
func (s *Search) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run walks the nonce space from zero until a digest meets the target, the
// attempt bound is exhausted, or the context is cancelled. Cancellation is
// cooperative: an in-flight batch completes before the signal is observed.
func (s *Search) Run(ctx context.Context) (Result, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateSearching)) {
		return Result{}, ErrSearchActive
	}

	started := s.cfg.Clock.Now()
	s.mu.Lock()
	s.stats = Stats{StartTime: started}
	s.mu.Unlock()

	hdr := s.cfg.Header
	targetHex := compact.Decode(hdr.Bits)
	s.cfg.Logger.Info("search started",
		zap.String("algorithm", s.cfg.Algorithm.String()),
		zap.String("bits", hdr.Bits.String()),
		zap.String("target", targetHex),
		zap.Int64("max_attempts", s.cfg.MaxAttempts))

	var (
		nonce       uint32
		attempts    int64
		lastDigest  hashing.Digest
		lastReport  = started
		digestValue = new(big.Int)
	)

	finish := func(state State, err error) (Result, error) {
		s.state.Store(int32(state))
		stats := s.refreshStats(attempts, started)
		s.emitFinal(Snapshot{State: state, Nonce: s.lastAttempted(), Stats: stats})
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.ObserveSearch(state.String(), started)
			s.cfg.Metrics.ObserveHashRate(stats.HashRate)
		}
		s.cfg.Logger.Info("search finished",
			zap.String("state", state.String()),
			zap.Uint32("nonce", s.lastAttempted()),
			zap.Uint64("hashes", stats.HashesComputed),
			zap.Float64("hash_rate", stats.HashRate))
		return Result{
			Success: state == StateFound,
			State:   state,
			Nonce:   s.lastAttempted(),
			Digest:  lastDigest,
			Stats:   stats,
		}, err
	}

	if s.cfg.MaxAttempts <= 0 {
		return finish(StateExhausted, nil)
	}

	for attempts < s.cfg.MaxAttempts {
		batch := int64(s.cfg.BatchSize)
		if remaining := s.cfg.MaxAttempts - attempts; batch > remaining {
			batch = remaining
		}

		for i := int64(0); i < batch; i++ {
			hdr.Nonce = nonce
			digest, err := s.cfg.Hasher.Compute(ctx, s.cfg.Algorithm, header.Serialize(hdr))
			if err != nil {
				return finish(StateCancelled, fmt.Errorf("compute digest for nonce %d: %w", nonce, err))
			}
			attempts++
			lastDigest = digest
			s.noteAttempt(nonce, attempts)

			// Display order: reversed raw bytes read big-endian.
			digestValue.SetBytes(hexutil.ReverseBytes(digest.Raw))
			if digestValue.Cmp(s.target) <= 0 {
				return finish(StateFound, nil)
			}
			nonce++
		}

		if s.cfg.Metrics != nil {
			s.cfg.Metrics.ObserveAttempts(int(batch))
		}

		select {
		case <-ctx.Done():
			return finish(StateCancelled, nil)
		default:
		}

		now := s.cfg.Clock.Now()
		// The terminal snapshot covers the last batch; only emit here while
		// more attempts are coming, keeping snapshot nonces strictly
		// increasing.
		if attempts < s.cfg.MaxAttempts && now.Sub(lastReport) >= s.cfg.ProgressInterval {
			lastReport = now
			stats := s.refreshStats(attempts, started)
			s.emit(Snapshot{State: StateSearching, Nonce: s.lastAttempted(), Stats: stats})
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.ObserveHashRate(stats.HashRate)
			}
		}

		// Yield so a cooperative scheduler can interleave other work.
		runtime.Gosched()
	}

	return finish(StateExhausted, nil)
}

func (s *Search) noteAttempt(nonce uint32, attempts int64) {
	s.mu.Lock()
	s.lastNonce = nonce
	s.stats.HashesComputed = uint64(attempts)
	s.mu.Unlock()
}

func (s *Search) lastAttempted() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNonce
}

func (s *Search) refreshStats(attempts int64, started time.Time) Stats {
	elapsed := s.cfg.Clock.Now().Sub(started)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(attempts) / elapsed.Seconds()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.HashesComputed = uint64(attempts)
	s.stats.Elapsed = elapsed
	s.stats.HashRate = rate
	return s.stats
}

// emit delivers an intermediate snapshot without ever blocking the search.
func (s *Search) emit(snap Snapshot) {
	select {
	case s.events <- snap:
	default:
	}
}

// emitFinal guarantees delivery of the terminal snapshot: with a single
// producer, evicting one buffered intermediate always leaves room.
func (s *Search) emitFinal(snap Snapshot) {
	select {
	case s.events <- snap:
	default:
		select {
		case <-s.events:
		default:
		}
		s.events <- snap
	}
	close(s.events)
}
