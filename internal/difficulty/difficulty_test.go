package difficulty

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodnatureofminers/powforge7000-engine/internal/compact"
)

func TestFromBits(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 1.0, FromBits(MaxTargetBits), 1e-6)

	// Known historic mainnet difficulty for bits 0x1b0404cb.
	require.InDelta(t, 16307.420938, FromBits(0x1b0404cb), 1e-3)

	// A zero target has infinite difficulty, both for a zero coefficient and
	// for a sign-flagged coefficient.
	require.True(t, math.IsInf(FromBits(0x01000000), 1))
	require.True(t, math.IsInf(FromBits(0x1d800000), 1))
}

func TestToBits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		diff float64
		want compact.Bits
	}{
		{name: "difficulty one", diff: 1.0, want: MaxTargetBits},
		{name: "historic difficulty", diff: 16307.420938, want: 0x1b0404cb},
		{name: "below one clamps to max target", diff: 0.5, want: MaxTargetBits},
		{name: "tiny difficulty clamps to max target", diff: 1e-12, want: MaxTargetBits},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBits(tt.diff)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToBitsRejectsInvalid(t *testing.T) {
	t.Parallel()

	for _, diff := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ToBits(diff)
		require.ErrorIs(t, err, ErrInvalidParameter, "difficulty %v", diff)
	}
}

func TestToBitsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, bits := range []compact.Bits{MaxTargetBits, 0x1b0404cb, 0x1c2abcde} {
		got, err := ToBits(FromBits(bits))
		require.NoError(t, err)
		require.Equal(t, bits, got)
	}
}

func TestExpectedHashesAndProbability(t *testing.T) {
	t.Parallel()

	require.InDelta(t, math.Pow(2, 32), ExpectedHashes(MaxTargetBits), 1e3)
	require.InDelta(t, 1/math.Pow(2, 32), Probability(MaxTargetBits), 1e-12)

	// Impossible target: infinite work, zero chance.
	require.True(t, math.IsInf(ExpectedHashes(0x01000000), 1))
	require.Zero(t, Probability(0x01000000))
}

func TestInfo(t *testing.T) {
	t.Parallel()

	info := Info(MaxTargetBits)
	require.Equal(t, MaxTargetBits, info.Bits)
	require.Len(t, info.Target, compact.TargetHexLen)
	require.True(t, strings.HasPrefix(info.Target, "00000000ffff"))
	require.InDelta(t, 1.0, info.Difficulty, 1e-6)
	require.InDelta(t, math.Pow(2, 32), info.ExpectedHashes, 1e3)
	require.Greater(t, info.Probability, 0.0)
}
