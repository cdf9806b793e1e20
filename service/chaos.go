package service

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"github.com/simratima/VidStegX/models"
)

// chaosParameter is the logistic map control parameter. Values near 4 keep
// the map in its chaotic regime; 3.99 matches the embedding format, so it
// must not change without breaking every existing stego video.
const chaosParameter = 3.99

// DeriveSeed collapses a textual key into a 32-bit seed: SHA-256 of the
// UTF-8 bytes, read as eight little-endian uint32 words XOR-folded together.
func DeriveSeed(key string) (int32, error) {
	if strings.TrimSpace(key) == "" {
		return 0, models.ErrEmptyKey
	}

	digest := sha256.Sum256([]byte(key))
	var folded uint32
	for i := 0; i < len(digest); i += 4 {
		folded ^= binary.LittleEndian.Uint32(digest[i : i+4])
	}
	return int32(folded), nil
}

// ChaoticSequence is a deterministic stream of values in (0,1) produced by
// iterating the logistic map from a key-derived starting point. Two
// sequences built from the same key emit identical streams, and Reset
// replays the stream from the beginning; extraction depends on both.
type ChaoticSequence struct {
	x  float64
	x0 float64
}

// NewChaoticSequence builds a sequence from a textual key.
func NewChaoticSequence(key string) (*ChaoticSequence, error) {
	seed, err := DeriveSeed(key)
	if err != nil {
		return nil, err
	}

	abs := int64(seed)
	if abs < 0 {
		abs = -abs
	}
	// Starting point in [0.0001, 0.9999]; the map's fixed points 0 and 1
	// are unreachable from there.
	x0 := float64(abs%9999+1) / 10000.0

	return &ChaoticSequence{x: x0, x0: x0}, nil
}

// Next advances the map one step and returns the new value.
func (s *ChaoticSequence) Next() float64 {
	s.x = chaosParameter * s.x * (1 - s.x)
	return s.x
}

// NextIndex advances once and projects the value into [0, n). The same index
// may recur across calls; callers tolerate re-selection.
func (s *ChaoticSequence) NextIndex(n int) int {
	return int(s.Next()*float64(n)) % n
}

// Reset restores the sequence to its initial state, after which it emits the
// same stream as a freshly constructed sequence for the same key.
func (s *ChaoticSequence) Reset() {
	s.x = s.x0
}
