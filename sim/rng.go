// Package sim implements the cellular-automaton tick (C5): per-chunk
// scheduling, simulate_cell (solid piling, liquid settling, gas rise/fall
// and sliding), gas dispersion and the staleness refresher.
package sim

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// RNG is the single process-wide pseudorandom source (§5). It is explicitly
// seeded and reseeded at the start of every tick from (worldSeed,
// frameIndex), so a replay of the same seed and frame sequence is
// deterministic regardless of what happened in between.
type RNG struct {
	r *rand.Rand
}

// NewRNG builds a generator reseeded from worldSeed and frame.
func NewRNG(worldSeed int64, frame int64) *RNG {
	s1, s2 := seedMix(worldSeed, frame)
	return &RNG{r: rand.New(rand.NewPCG(s1, s2))}
}

// seedMix hashes (worldSeed, frame) into two 64-bit seeds using xxhash, the
// same hashing library the teacher uses for chunk-coordinate keys, so the
// whole codebase leans on one hash primitive for both purposes.
func seedMix(worldSeed, frame int64) (uint64, uint64) {
	var buf [17]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(worldSeed))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(frame))
	buf[16] = 0
	s1 := xxhash.Sum64(buf[:16])
	buf[16] = 1
	s2 := xxhash.Sum64(buf[:17])
	return s1, s2
}

// Uint8 returns a uniform byte, used by the gas random gate (4.3.1).
func (g *RNG) Uint8() uint8 { return uint8(g.r.IntN(256)) }

// IntN returns a uniform int in [0, n).
func (g *RNG) IntN(n int) int { return g.r.IntN(n) }

// Shuffle permutes a slice of length n in place.
func (g *RNG) Shuffle(n int, swap func(i, j int)) { g.r.Shuffle(n, swap) }
