package world

import (
	"log/slog"

	"github.com/vev-sand/grainworld/geom"
)

// Boundaries describes the optional world boundary polygon (4.5). A nil
// bound on a side means that side is unbounded. Left/Bottom are inclusive
// lower bounds; Right/Top are exclusive upper bounds, matching the spec's
// `x >= left`, `x < right`, `y >= bottom`, `y < top` test.
type Boundaries struct {
	Top, Bottom, Left, Right *int32
}

// Contains reports whether p respects every configured bound.
func (b Boundaries) Contains(p geom.Vector2I) bool {
	if b.Left != nil && p.X < *b.Left {
		return false
	}
	if b.Right != nil && p.X >= *b.Right {
		return false
	}
	if b.Bottom != nil && p.Y < *b.Bottom {
		return false
	}
	if b.Top != nil && p.Y >= *b.Top {
		return false
	}
	return true
}

// Config holds the tunable parameters recognized by the core (§6
// Configuration). The zero value is usable; sensible defaults are applied
// by WithDefaults, mirroring the teacher's redstone.Config.withDefaults.
type Config struct {
	// Boundaries optionally clamps the simulated world (4.5).
	Boundaries Boundaries
	// Seed feeds the process-wide PRNG (§5); see sim.RNG.
	Seed int64
	// MaxTargetDensity caps density transfer overshoot (4.3.1).
	MaxTargetDensity uint8
	// StableThreshold is the gas dispersion quiescence spread cutoff (4.3.2).
	StableThreshold uint8
	// RefreshInterval and RefreshModulus drive the staleness refresher
	// (4.3.3): one chunk out of RefreshModulus is forced fully dirty every
	// RefreshInterval ticks.
	RefreshInterval int
	RefreshModulus  int
	// Log receives structured diagnostics. Defaults to slog.Default().
	Log *slog.Logger
}

// WithDefaults returns a copy of c with zero fields replaced by sensible
// defaults, the way redstone.Config.withDefaults does for the teacher's
// execution subsystem.
func (c Config) WithDefaults() Config {
	if c.MaxTargetDensity == 0 {
		c.MaxTargetDensity = 25
	}
	if c.StableThreshold == 0 {
		c.StableThreshold = 3
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 1
	}
	if c.RefreshModulus <= 0 {
		c.RefreshModulus = 100
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return c
}
