package pow

import (
	"fmt"
	"math/big"

	"github.com/goodnatureofminers/powforge7000-engine/internal/hexutil"
)

// HashMeetsTarget reports whether the digest qualifies: true iff the
// big-endian integer value of digestHex is at or below that of targetHex.
// Both strings are read in display order, the same convention used
// everywhere else in the engine.
func HashMeetsTarget(digestHex, targetHex string) (bool, error) {
	digest, err := parseHexInt(digestHex)
	if err != nil {
		return false, fmt.Errorf("digest: %w", err)
	}
	target, err := parseHexInt(targetHex)
	if err != nil {
		return false, fmt.Errorf("target: %w", err)
	}
	return digest.Cmp(target) <= 0, nil
}

func parseHexInt(s string) (*big.Int, error) {
	normalized, err := hexutil.Normalize(s)
	if err != nil {
		return nil, err
	}
	if normalized == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(normalized, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", hexutil.ErrInvalidEncoding, s)
	}
	return v, nil
}

// CountLeadingZeroBits counts the zero bits before the first set bit of a
// big-endian hex string: four per leading zero nibble, plus up to three for
// the first non-zero nibble. Diagnostic only; the success test is
// HashMeetsTarget.
func CountLeadingZeroBits(hexStr string) int {
	bits := 0
	for i := 0; i < len(hexStr); i++ {
		v := nibbleValue(hexStr[i])
		if v < 0 {
			break
		}
		if v == 0 {
			bits += 4
			continue
		}
		switch {
		case v >= 8:
		case v >= 4:
			bits++
		case v >= 2:
			bits += 2
		default:
			bits += 3
		}
		break
	}
	return bits
}

func nibbleValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
