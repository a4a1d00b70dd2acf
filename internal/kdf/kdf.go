// Package kdf implements a memory-hard key derivation function in the
// scrypt construction: a PBKDF2 expansion, per-lane ROMix/BlockMix chaining
// over a Salsa20/8 permutation, and a PBKDF2 finalization.
//
// The point of the construction is to force O(N*r) working memory per lane,
// making brute-force hardware acceleration expensive relative to a plain
// hash. The derivation is fully deterministic.
package kdf

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/goodnatureofminers/powforge7000-engine/pkg/workerpool"
)

// ErrInvalidParameter is returned for parameter sets the construction
// cannot run with.
var ErrInvalidParameter = fmt.Errorf("invalid kdf parameter")

// DefaultSalt feeds the PBKDF2 expansion when Params.Salt is unset. The
// derivation only needs a fixed salt; it carries no secret.
var DefaultSalt = []byte("powforge7000/kdf/v1")

// Params configures a derivation.
type Params struct {
	// N is the CPU/memory cost. It must be a power of two greater than one;
	// the mix phase masks with N-1 instead of taking a modulus.
	N int
	// R is the block size multiplier; each lane works on 128*R-byte blocks.
	R int
	// P is the parallelism: the number of independent ROMix lanes.
	P int
	// KeyLen is the derived key length in bytes.
	KeyLen int
	// Salt overrides DefaultSalt when non-empty.
	Salt []byte
}

// DefaultParams are interactive-scale parameters: 1 MiB of scratch memory
// and a 32-byte key.
func DefaultParams() Params {
	return Params{N: 1024, R: 8, P: 1, KeyLen: 32}
}

func (p Params) validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("%w: N must be a power of two greater than one, got %d", ErrInvalidParameter, p.N)
	}
	if p.R <= 0 || p.P <= 0 {
		return fmt.Errorf("%w: r and p must be positive, got r=%d p=%d", ErrInvalidParameter, p.R, p.P)
	}
	if uint64(p.R)*uint64(p.P) >= 1<<30 {
		return fmt.Errorf("%w: r*p too large", ErrInvalidParameter)
	}
	if p.KeyLen <= 0 {
		return fmt.Errorf("%w: key length must be positive, got %d", ErrInvalidParameter, p.KeyLen)
	}
	return nil
}

// Key derives a KeyLen-byte key from message. Identical inputs always
// produce identical output. The context bounds the memory-hard mixing;
// lanes observe cancellation between blocks.
func Key(ctx context.Context, message []byte, params Params) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	salt := params.Salt
	if len(salt) == 0 {
		salt = DefaultSalt
	}

	laneBytes := 128 * params.R
	expanded := pbkdf2.Key(message, salt, 1, params.P*laneBytes, sha256.New)

	mixLane := func(ctx context.Context, lane int) error {
		return roMix(ctx, expanded[lane*laneBytes:(lane+1)*laneBytes], params.N, params.R)
	}

	if params.P == 1 {
		if err := mixLane(ctx, 0); err != nil {
			return nil, err
		}
	} else {
		if err := workerpool.ProcessN(ctx, params.P, params.P, mixLane); err != nil {
			return nil, err
		}
	}

	return pbkdf2.Key(message, expanded, 1, params.KeyLen, sha256.New), nil
}

// roMix runs the fill and mix phases over one lane in place. The fill phase
// records N successive BlockMix states in the scratch table V; the mix phase
// revisits table entries chosen by the low bits of the state's last
// little-endian word, which is what forces the table to stay resident.
func roMix(ctx context.Context, lane []byte, n, r int) error {
	words := 32 * r
	state := make([]uint32, words)
	for i := range state {
		state[i] = binary.LittleEndian.Uint32(lane[4*i:])
	}

	v := make([]uint32, n*words)
	scratch := make([]uint32, words)

	const cancelCheckMask = 0xff
	for i := 0; i < n; i++ {
		if i&cancelCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		copy(v[i*words:], state)
		blockMix(state, scratch, r)
	}

	mask := uint32(n - 1)
	for i := 0; i < n; i++ {
		if i&cancelCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		j := int(state[words-1] & mask)
		entry := v[j*words : (j+1)*words]
		for k := range state {
			state[k] ^= entry[k]
		}
		blockMix(state, scratch, r)
	}

	for i, w := range state {
		binary.LittleEndian.PutUint32(lane[4*i:], w)
	}
	return nil
}

// blockMix chains the 2r 64-byte sub-blocks of state through the Salsa20/8
// permutation: a running accumulator seeded from the last sub-block absorbs
// each sub-block by XOR, is permuted, and the successive accumulator values
// are written back even-indexed first, then odd-indexed. The interleave
// makes every output byte depend on the whole input. scratch must hold
// 32*r words and is clobbered.
func blockMix(state, scratch []uint32, r int) {
	var x [16]uint32
	copy(x[:], state[(2*r-1)*16:])

	for i := 0; i < 2*r; i++ {
		for k := 0; k < 16; k++ {
			x[k] ^= state[i*16+k]
		}
		salsa8(&x)
		copy(scratch[i*16:], x[:])
	}

	for i := 0; i < r; i++ {
		copy(state[i*16:], scratch[(2*i)*16:(2*i+1)*16])
		copy(state[(r+i)*16:], scratch[(2*i+1)*16:(2*i+2)*16])
	}
}
