// Package hexutil provides hex/byte conversions used across the engine.
//
// Hex convention: lowercase, two characters per byte, no separators.
package hexutil

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ErrInvalidEncoding is returned for hex input with an odd length or
// characters outside [0-9a-fA-F].
var ErrInvalidEncoding = fmt.Errorf("invalid hex encoding")

// Decode converts a hex string into raw bytes.
func Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidEncoding, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	return b, nil
}

// Encode renders raw bytes as lowercase hex.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeLenient converts a hex string into raw bytes without failing.
// Digit pairs decode normally, pairs containing a non-hex character decode
// to zero and an odd trailing nibble is dropped. Used where a fixed-width
// output must be produced for arbitrary input.
func DecodeLenient(s string) []byte {
	out := make([]byte, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		hi, okHi := nibble(s[i])
		lo, okLo := nibble(s[i+1])
		if okHi && okLo {
			out[i/2] = hi<<4 | lo
		}
	}
	return out
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ReverseBytes returns a reversed copy of b. The input is not modified.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// ReverseHex reverses the byte order of a hex string, e.g. "aabbcc" to
// "ccbbaa". This is the conversion between bitcoin's internal and display
// byte orders.
func ReverseHex(s string) (string, error) {
	b, err := Decode(s)
	if err != nil {
		return "", err
	}
	return Encode(ReverseBytes(b)), nil
}

// IsHex reports whether s consists solely of hex digits and has even length.
func IsHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if _, ok := nibble(s[i]); !ok {
			return false
		}
	}
	return true
}

// Normalize lowercases a hex string after validating it.
func Normalize(s string) (string, error) {
	if !IsHex(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
	}
	return strings.ToLower(s), nil
}
