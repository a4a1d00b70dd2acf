// Package compact implements the packed 4-byte "bits" representation of a
// 256-bit proof-of-work target and its conversions.
//
// Bit layout of the compact form: byte 3 is the exponent (a byte count),
// bit 23 is a sign flag, bits 0-22 hold the coefficient. A set sign flag is
// invalid for proof of work and forces the coefficient to zero on decode.
package compact

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/powforge7000-engine/internal/hexutil"
)

const (
	signBit   = 0x00800000
	coeffMask = 0x007fffff

	// TargetHexLen is the canonical width of a target: 32 bytes, 64 hex chars.
	TargetHexLen = 64
)

// maxTarget256 is 2^256 - 1, the clamp value for overflowing placements.
var maxTarget256 = new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), 256),
	big.NewInt(1),
)

// Bits is the compact 32-bit encoding of a target.
type Bits uint32

// Exponent returns the placement byte count stored in the top byte.
func (b Bits) Exponent() uint8 { return uint8(b >> 24) }

// Coefficient returns the 23-bit coefficient. It is zero when the sign flag
// is set, matching the decode semantics.
func (b Bits) Coefficient() uint32 {
	if b&signBit != 0 {
		return 0
	}
	return uint32(b) & coeffMask
}

// SignBit reports whether the (invalid for proof of work) sign flag is set.
func (b Bits) SignBit() bool { return b&signBit != 0 }

// String renders the canonical textual form: "0x" plus 8 zero-padded
// lowercase hex digits.
func (b Bits) String() string { return fmt.Sprintf("0x%08x", uint32(b)) }

// Parse reads a compact value from hex text, with or without a 0x prefix.
func Parse(s string) (Bits, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(s), "0x")
	parsed, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bits %q", hexutil.ErrInvalidEncoding, s)
	}
	return Bits(parsed), nil
}

// DecodeBig expands a compact value into the 256-bit target it denotes.
// Placements that do not fit in 256 bits clamp to 2^256-1 rather than fail.
func DecodeBig(b Bits) *big.Int {
	exponent := uint(b.Exponent())
	coefficient := b.Coefficient()

	if exponent <= 3 {
		return new(big.Int).SetUint64(uint64(coefficient >> (8 * (3 - exponent))))
	}

	target := new(big.Int).SetUint64(uint64(coefficient))
	target.Lsh(target, 8*(exponent-3))
	if target.Cmp(maxTarget256) > 0 {
		return new(big.Int).Set(maxTarget256)
	}
	return target
}

// Decode expands a compact value into its canonical 64-character lowercase
// hex target. The width is enforced as a postcondition.
func Decode(b Bits) string {
	s := fmt.Sprintf("%064x", DecodeBig(b))
	if len(s) > TargetHexLen {
		s = s[len(s)-TargetHexLen:]
	}
	return s
}

// EncodeBig compresses a target into compact form. Only the top three
// significant bytes survive, so the conversion is lossy: decode(encode(t))
// reproduces t exactly only when t already fits that shape. A coefficient
// with its top bit set is shifted down one byte, bumping the exponent, so
// that a re-decode never sees the sign flag.
func EncodeBig(target *big.Int) Bits {
	bytes := target.Bytes()
	if len(bytes) == 0 {
		// All-zero target encodes as a single zero byte.
		bytes = []byte{0}
	}

	size := uint32(len(bytes))
	var coefficient uint32
	if size <= 3 {
		for _, v := range bytes {
			coefficient = coefficient<<8 | uint32(v)
		}
		coefficient <<= 8 * (3 - size)
	} else {
		coefficient = uint32(bytes[0])<<16 | uint32(bytes[1])<<8 | uint32(bytes[2])
	}

	if coefficient&signBit != 0 {
		coefficient >>= 8
		size++
	}

	return Bits(size<<24 | coefficient)
}

// Encode compresses a hex target into compact form.
func Encode(targetHex string) (Bits, error) {
	normalized, err := hexutil.Normalize(targetHex)
	if err != nil {
		return 0, fmt.Errorf("encode target: %w", err)
	}
	if normalized == "" {
		return EncodeBig(new(big.Int)), nil
	}
	target, ok := new(big.Int).SetString(normalized, 16)
	if !ok {
		return 0, fmt.Errorf("%w: target %q", hexutil.ErrInvalidEncoding, targetHex)
	}
	return EncodeBig(target), nil
}
