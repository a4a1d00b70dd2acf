// Package model holds the shared data types of the proof-of-work engine.
package model

import (
	"github.com/goodnatureofminers/powforge7000-engine/internal/compact"
)

// BlockHeader is the template a search mutates while looking for a
// qualifying digest. Nonce is the only field a search changes; a header is
// owned by exactly one in-flight search.
type BlockHeader struct {
	Version           uint32
	PreviousBlockHash string
	MerkleRoot        string
	Timestamp         uint32
	Bits              compact.Bits
	Nonce             uint32
}

// DifficultyInfo is a read-only projection of everything derived from a
// compact bits value. It is recomputed on demand and never cached.
type DifficultyInfo struct {
	Bits           compact.Bits
	Target         string
	Difficulty     float64
	ExpectedHashes float64
	Probability    float64
}
