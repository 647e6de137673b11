package sim

import (
	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
	"github.com/vev-sand/grainworld/world"
)

// Simulation drives the per-frame cellular-automaton tick (C5) over a
// World: it owns the frame counter, the reseeded-per-tick RNG and the
// staleness-refresher cursor. It holds no texel state of its own; all
// terrain state lives in the World it was built with.
type Simulation struct {
	w     *world.World
	reg   *material.Registry
	frame int64

	refreshCursor int
}

// NewSimulation builds a driver over w, reading its material registry once
// up front since the registry is frozen for the process lifetime (C2).
func NewSimulation(w *world.World) *Simulation {
	return &Simulation{w: w, reg: w.Registry()}
}

// Frame returns the index of the last completed tick (0 before Step is ever
// called).
func (s *Simulation) Frame() int64 { return s.frame }

// Step advances the simulation by exactly one tick (4.3): it reseeds the
// RNG, applies the staleness refresher, then visits every dirty chunk in
// deterministic Morton order, clearing each chunk's dirty rect and then
// running simulate_cell and gas dispersion over the rect it had.
func (s *Simulation) Step() {
	s.frame++
	cfg := s.w.Config()
	rng := NewRNG(cfg.Seed, s.frame)
	tickTag := uint8((s.frame % 255) + 1)

	s.runStalenessRefresher(cfg)

	coords := s.w.ChunkCoords()
	mortonOrder(coords)

	xDesc := s.frame%2 == 1
	yDesc := (s.frame/2)%2 == 1

	for _, pos := range coords {
		c := s.w.Chunk(pos)
		if c == nil {
			continue
		}
		rect, dirty := c.DirtyRect()
		if !dirty {
			continue
		}
		base := pos.Scale(world.ChunkSizeW)

		// Clear first (4.3 step 2a) so writes made while walking rect
		// re-dirty the chunk for the next tick.
		s.w.MarkClean(pos)

		for _, local := range scanOrder(rect, xDesc, yDesc) {
			simulateCell(s.w, s.reg, rng, base.Add(local), s.frame, tickTag)
		}
		disperseGases(s.w, s.reg, rng, pos, rect, s.frame)
	}
}

// scanOrder enumerates every chunk-local point inside rect, walking X and Y
// in the direction requested, implementing the 4-way (quadrant) scan-order
// alternation of 4.3 that keeps sideways slides from developing a
// persistent directional bias.
func scanOrder(rect geom.ChunkRect, xDesc, yDesc bool) []geom.Vector2I {
	w := int(rect.Max.X-rect.Min.X) + 1
	h := int(rect.Max.Y-rect.Min.Y) + 1
	out := make([]geom.Vector2I, 0, w*h)

	ys := make([]int32, 0, h)
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		ys = append(ys, y)
	}
	if yDesc {
		reverseI32(ys)
	}
	xs := make([]int32, 0, w)
	for x := rect.Min.X; x <= rect.Max.X; x++ {
		xs = append(xs, x)
	}
	if xDesc {
		reverseI32(xs)
	}

	for _, y := range ys {
		for _, x := range xs {
			out = append(out, geom.Vector2I{X: x, Y: y})
		}
	}
	return out
}

func reverseI32(s []int32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// runStalenessRefresher forces one chunk per RefreshInterval ticks fully
// dirty (4.3.3), rotating through loaded chunks in Morton order even if
// their dirty rects would otherwise have gone quiet. The cursor wraps at
// RefreshModulus, so while at most RefreshModulus chunks are loaded every
// chunk gets a full re-scan within RefreshModulus*RefreshInterval ticks;
// chunks at Morton positions RefreshModulus and beyond are never selected.
// This repairs cells that
// could move but were skipped because nothing nearby wrote to them this
// tick (e.g. a liquid whose downstream neighbor only just unloaded).
func (s *Simulation) runStalenessRefresher(cfg world.Config) {
	if s.frame%int64(cfg.RefreshInterval) != 0 {
		return
	}
	coords := s.w.ChunkCoords()
	if len(coords) == 0 {
		return
	}
	mortonOrder(coords)
	idx := s.refreshCursor % len(coords)
	s.refreshCursor = (s.refreshCursor + 1) % cfg.RefreshModulus

	c := s.w.Chunk(coords[idx])
	if c != nil {
		c.MarkAllDirty()
	}
}
