package pow

import (
	"errors"
	"strings"
	"testing"

	"github.com/goodnatureofminers/powforge7000-engine/internal/hexutil"
)

func TestHashMeetsTarget(t *testing.T) {
	t.Parallel()

	target := "00000000ffff0000000000000000000000000000000000000000000000000000"

	tests := []struct {
		name   string
		digest string
		want   bool
	}{
		{name: "below target", digest: strings.Repeat("0", 64), want: true},
		{name: "equal to target", digest: target, want: true},
		{
			name:   "one above target",
			digest: "00000000ffff0000000000000000000000000000000000000000000000000001",
			want:   false,
		},
		{name: "far above target", digest: strings.Repeat("f", 64), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := HashMeetsTarget(tt.digest, target)
			if err != nil {
				t.Fatalf("HashMeetsTarget error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("HashMeetsTarget(%s) = %v, want %v", tt.digest, got, tt.want)
			}
		})
	}
}

func TestHashMeetsTargetRejectsMalformedHex(t *testing.T) {
	t.Parallel()

	if _, err := HashMeetsTarget("xyz0", "00ff"); !errors.Is(err, hexutil.ErrInvalidEncoding) {
		t.Fatalf("error = %v, want ErrInvalidEncoding", err)
	}
	if _, err := HashMeetsTarget("00ff", "abc"); !errors.Is(err, hexutil.ErrInvalidEncoding) {
		t.Fatalf("error = %v, want ErrInvalidEncoding", err)
	}
}

func TestCountLeadingZeroBits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{in: "", want: 0},
		{in: "f000", want: 0},
		{in: "8000", want: 0},
		{in: "7000", want: 1},
		{in: "4000", want: 1},
		{in: "3000", want: 2},
		{in: "2000", want: 2},
		{in: "1000", want: 3},
		{in: "0800", want: 4},
		{in: "0100", want: 7},
		{in: "0000", want: 16},
		{in: "00000000ffff", want: 32},
	}

	for _, tt := range tests {
		if got := CountLeadingZeroBits(tt.in); got != tt.want {
			t.Fatalf("CountLeadingZeroBits(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
