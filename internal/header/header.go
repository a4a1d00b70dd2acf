// Package header serializes block headers into the fixed 80-byte wire
// layout.
//
// The layout is load-bearing for cross-implementation comparison: version,
// previous block hash, merkle root, timestamp, bits, nonce, in that order,
// all integers little-endian. Hash fields shorter than 32 bytes are
// zero-padded, longer ones truncated, so the output width never varies.
package header

import (
	"encoding/binary"

	"github.com/goodnatureofminers/powforge7000-engine/internal/hexutil"
	"github.com/goodnatureofminers/powforge7000-engine/internal/model"
)

// Size is the serialized header width in bytes.
const Size = 80

const hashFieldSize = 32

// Serialize renders a header into its exact 80-byte form.
func Serialize(h model.BlockHeader) []byte {
	out := make([]byte, Size)

	binary.LittleEndian.PutUint32(out[0:4], h.Version)
	copyHashField(out[4:36], h.PreviousBlockHash)
	copyHashField(out[36:68], h.MerkleRoot)
	binary.LittleEndian.PutUint32(out[68:72], h.Timestamp)
	binary.LittleEndian.PutUint32(out[72:76], uint32(h.Bits))
	binary.LittleEndian.PutUint32(out[76:80], h.Nonce)

	return out
}

func copyHashField(dst []byte, hexField string) {
	raw := hexutil.DecodeLenient(hexField)
	if len(raw) > hashFieldSize {
		raw = raw[:hashFieldSize]
	}
	copy(dst, raw)
}
