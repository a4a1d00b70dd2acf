// Package difficulty derives difficulty metrics from compact target bits.
package difficulty

import (
	"fmt"
	"math"
	"math/big"

	"github.com/goodnatureofminers/powforge7000-engine/internal/compact"
	"github.com/goodnatureofminers/powforge7000-engine/internal/model"
)

// MaxTargetBits is the compact form of the easiest allowed target,
// difficulty 1 by definition.
const MaxTargetBits compact.Bits = 0x1d00ffff

// ErrInvalidParameter is returned for a non-positive or non-finite
// difficulty input.
var ErrInvalidParameter = fmt.Errorf("invalid parameter")

// ratioScale keeps ~6 significant digits through the integer division.
var ratioScale = big.NewInt(1_000_000)

var maxTarget = compact.DecodeBig(MaxTargetBits)

// MaxTarget returns a copy of the difficulty-1 target.
func MaxTarget() *big.Int {
	return new(big.Int).Set(maxTarget)
}

// FromBits computes difficulty as maxTarget/target with arbitrary-precision
// integers, scaled so roughly six significant digits survive the division.
// A zero target yields positive infinity.
func FromBits(bits compact.Bits) float64 {
	target := compact.DecodeBig(bits)
	if target.Sign() == 0 {
		return math.Inf(1)
	}

	scaled := new(big.Int).Mul(maxTarget, ratioScale)
	scaled.Quo(scaled, target)

	ratio, _ := new(big.Float).SetInt(scaled).Float64()
	return ratio / 1e6
}

// ToBits re-encodes a difficulty into the closest representable compact
// bits. The implied target is clamped to the maximum target, so any
// difficulty at or below 1 maps back to MaxTargetBits.
func ToBits(diff float64) (compact.Bits, error) {
	if math.IsNaN(diff) || math.IsInf(diff, 0) || diff <= 0 {
		return 0, fmt.Errorf("%w: difficulty %v", ErrInvalidParameter, diff)
	}

	scaled := new(big.Float).SetFloat64(diff)
	scaled.Mul(scaled, big.NewFloat(1e6))
	scaled.Add(scaled, big.NewFloat(0.5))
	scaledInt, _ := scaled.Int(nil)
	if scaledInt.Sign() <= 0 {
		// Difficulty so small the scaled ratio rounds to zero; the implied
		// target is beyond the representable range, clamp.
		return MaxTargetBits, nil
	}

	target := new(big.Int).Mul(maxTarget, ratioScale)
	target.Quo(target, scaledInt)
	if target.Cmp(maxTarget) > 0 {
		target.Set(maxTarget)
	}

	return compact.EncodeBig(target), nil
}

// ExpectedHashes estimates the attempts needed for one qualifying digest.
// The 2^32 factor is the ratio between the 256-bit hash space and the scale
// of the maximum target.
func ExpectedHashes(bits compact.Bits) float64 {
	return FromBits(bits) * math.Pow(2, 32)
}

// Probability is the per-attempt success chance, the inverse of
// ExpectedHashes.
func Probability(bits compact.Bits) float64 {
	expected := ExpectedHashes(bits)
	if math.IsInf(expected, 1) {
		return 0
	}
	return 1 / expected
}

// Info assembles the full read-only projection for a compact bits value.
func Info(bits compact.Bits) model.DifficultyInfo {
	return model.DifficultyInfo{
		Bits:           bits,
		Target:         compact.Decode(bits),
		Difficulty:     FromBits(bits),
		ExpectedHashes: ExpectedHashes(bits),
		Probability:    Probability(bits),
	}
}
