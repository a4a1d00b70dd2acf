// Package hashing dispatches a closed set of named hash algorithms and
// reports digest bytes with timing metadata.
package hashing

import (
	"context"
	"crypto/sha512"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/powforge7000-engine/internal/clock"
	"github.com/goodnatureofminers/powforge7000-engine/internal/hexutil"
	"github.com/goodnatureofminers/powforge7000-engine/internal/kdf"
	"github.com/goodnatureofminers/powforge7000-engine/internal/metrics"
)

// ErrInvalidAlgorithm is returned for an unknown algorithm selector. It is
// raised before any work happens.
var ErrInvalidAlgorithm = fmt.Errorf("invalid hash algorithm")

// Algorithm is the closed set of supported hash algorithms.
type Algorithm int

const (
	// SHA256 is a single SHA-256 pass.
	SHA256 Algorithm = iota
	// DoubleSHA256 is sha256(sha256(data)), the proof-of-work digest.
	DoubleSHA256
	// SHA512 is a single SHA-512 pass.
	SHA512
	// MemoryHard is the scrypt-style memory-hard derivation.
	MemoryHard
)

// Algorithms lists every supported algorithm, for CLI help and exhaustive
// tests.
func Algorithms() []Algorithm {
	return []Algorithm{SHA256, DoubleSHA256, SHA512, MemoryHard}
}

// Parse maps a textual selector to an Algorithm.
func Parse(name string) (Algorithm, error) {
	switch name {
	case "sha256":
		return SHA256, nil
	case "sha256d", "double-sha256":
		return DoubleSHA256, nil
	case "sha512":
		return SHA512, nil
	case "memory-hard", "scrypt":
		return MemoryHard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, name)
}

func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case DoubleSHA256:
		return "sha256d"
	case SHA512:
		return "sha512"
	case MemoryHard:
		return "memory-hard"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// OutputBits returns the digest width in bits.
func (a Algorithm) OutputBits() int {
	if a == SHA512 {
		return 512
	}
	return 256
}

// IsMemoryHard reports whether the algorithm requires large working memory.
func (a Algorithm) IsMemoryHard() bool { return a == MemoryHard }

// Digest is a computed hash: raw output bytes plus timing metadata. The
// display rendering reverses the raw bytes, the bitcoin convention for
// showing and comparing proof-of-work digests.
type Digest struct {
	Algorithm Algorithm
	Raw       []byte
	Elapsed   time.Duration
}

// RawHex renders the digest bytes in computation order.
func (d Digest) RawHex() string { return hexutil.Encode(d.Raw) }

// DisplayHex renders the byte-reversed digest, the form compared against
// targets.
func (d Digest) DisplayHex() string { return hexutil.Encode(hexutil.ReverseBytes(d.Raw)) }

// Engine computes digests for the closed algorithm set.
type Engine struct {
	kdfParams kdf.Params
	clk       clock.Clock
}

// Option tweaks an Engine.
type Option func(*Engine)

// WithKDFParams overrides the memory-hard derivation parameters.
func WithKDFParams(p kdf.Params) Option {
	return func(e *Engine) { e.kdfParams = p }
}

// WithClock overrides the timing source, for tests.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clk = c }
}

// NewEngine builds an engine with default memory-hard parameters.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		kdfParams: kdf.DefaultParams(),
		clk:       clock.System{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the selected algorithm over data. The digest is complete
// when Compute returns; there is no partial-result path. The context bounds
// the memory-hard derivation, the fixed-cost algorithms finish regardless.
func (e *Engine) Compute(ctx context.Context, algorithm Algorithm, data []byte) (Digest, error) {
	started := e.clk.Now()

	var raw []byte
	switch algorithm {
	case SHA256:
		raw = chainhash.HashB(data)
	case DoubleSHA256:
		raw = chainhash.DoubleHashB(data)
	case SHA512:
		sum := sha512.Sum512(data)
		raw = sum[:]
	case MemoryHard:
		kdfStarted := time.Now()
		derived, err := kdf.Key(ctx, data, e.kdfParams)
		metrics.ObserveKDF(err, kdfStarted)
		if err != nil {
			return Digest{}, fmt.Errorf("memory-hard digest: %w", err)
		}
		raw = derived
	default:
		return Digest{}, fmt.Errorf("%w: %d", ErrInvalidAlgorithm, int(algorithm))
	}

	return Digest{
		Algorithm: algorithm,
		Raw:       raw,
		Elapsed:   e.clk.Now().Sub(started),
	}, nil
}
