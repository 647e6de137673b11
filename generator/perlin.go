// Package generator implements the pluggable seed-based chunk generator
// (C9): layered Perlin noise decides, per global coordinate, whether a
// texel starts out solid, liquid, gas-filled or empty.
package generator

import (
	"sync/atomic"

	"github.com/aquilax/go-perlin"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/world"
)

const (
	alpha   = 2.0
	beta    = 2.0
	octaves = int32(4)

	terrainFreq = 0.05
	bandFreq    = terrainFreq * 0.3
	gasFreq     = terrainFreq * 0.7
)

// Perlin is a two-phase generator, grounded on the teacher's
// pmgen.Generator: New builds the noise fields independent of any world,
// and Bind attaches it to one afterwards. GenerateChunk panics if called
// before Bind, the same fail-fast posture the teacher applies to a
// generator used before its world is wired up.
type Perlin struct {
	terrain *perlin.Perlin
	band    *perlin.Perlin
	gas     *perlin.Perlin

	solidID, liquidID, gasID uint8

	w atomic.Pointer[world.World]
}

// New builds a Perlin generator seeded from seed. solidID, liquidID and
// gasID select which registered materials the noise bands fill in with;
// the registry itself is owned by the world this generator is later bound
// to, not by the generator.
func New(seed int64, solidID, liquidID, gasID uint8) *Perlin {
	return &Perlin{
		terrain: perlin.NewPerlin(alpha, beta, octaves, seed),
		band:    perlin.NewPerlin(alpha, beta, octaves, seed+1),
		gas:     perlin.NewPerlin(alpha, beta, octaves, seed+2),
		solidID: solidID,
		liquidID: liquidID,
		gasID:   gasID,
	}
}

// Bind attaches w as the target of future GenerateChunk calls. Safe to
// call more than once; the most recent bind wins.
func (g *Perlin) Bind(w *world.World) { g.w.Store(w) }

// GenerateChunk implements world.Generator: it fills every texel of the
// chunk at pos by sampling the noise fields at that texel's global
// coordinate.
func (g *Perlin) GenerateChunk(pos geom.Vector2I) {
	w := g.w.Load()
	if w == nil {
		panic("generator: GenerateChunk called before Bind")
	}
	base := pos.Scale(world.ChunkSizeW)
	for y := int32(0); y < world.ChunkSizeH; y++ {
		for x := int32(0); x < world.ChunkSizeW; x++ {
			global := base.Add(geom.Vector2I{X: x, Y: y})
			id, density := g.sample(global)
			if id == 0 {
				continue
			}
			w.SetTexel(global, world.Texel{ID: id, Density: density}, nil)
		}
	}
}

// sample decides the material and density at a single global coordinate:
// a high terrain value (modulated by a slower-moving band field, carving
// occasional pockets) is solid, a mid-range value is liquid, and within
// the open region above, an independent gas field occasionally fills in a
// pocket of drifting gas at a density derived from the same sample.
func (g *Perlin) sample(p geom.Vector2I) (id uint8, density uint8) {
	fx, fy := float64(p.X)*terrainFreq, float64(p.Y)*terrainFreq
	h := g.terrain.Noise2D(fx, fy)
	band := g.band.Noise2D(fx*bandFreq/terrainFreq, fy*bandFreq/terrainFreq)

	switch {
	case h > 0.25+0.1*band:
		return g.solidID, 0
	case h > -0.1:
		return g.liquidID, 0
	default:
		gas := g.gas.Noise2D(fx*gasFreq/terrainFreq, fy*gasFreq/terrainFreq)
		if gas > 0.3 {
			return g.gasID, uint8((gas + 1) / 2 * 25)
		}
		return 0, 0
	}
}
