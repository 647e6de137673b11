// Package world implements the chunked texel store (C3, C4): the Chunk
// type with its dirty-rect and neighbor-mask bookkeeping, and the World
// type mapping chunk coordinates to chunks, draining simulation events and
// enforcing configured boundaries.
package world

import (
	"fmt"
	"image/color"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
)

// ChunkSizeW and ChunkSizeH are the fixed chunk dimensions (C3). The source
// material explored both 32 and 64 across iterations; this implementation
// fixes 32 as the one constant power-of-two size.
const (
	ChunkSizeW int32 = 32
	ChunkSizeH int32 = 32
)

const chunkArea = int(ChunkSizeW * ChunkSizeH)

// Texel is a single cell in the terrain grid (the "sand pixel").
type Texel struct {
	// ID is the material id; 0 means empty.
	ID uint8
	// Density is meaningful only for gas materials.
	Density uint8
	// NeighbourMask has one bit per cardinal neighbor, in geom.Cardinal
	// order (UP=bit0, RIGHT=bit1, DOWN=bit2, LEFT=bit3), set when that
	// neighbor currently has collision.
	NeighbourMask uint8
	// LastSimulation stores the tick tag, (frame mod 255)+1, of the tick in
	// which the simulator last wrote this cell; 0 means never.
	LastSimulation uint8
}

// HasNeighbourCollision reports whether the cardinal neighbor at
// geom.Cardinal[i] currently has collision, per the cached mask.
func (t Texel) HasNeighbourCollision(i int) bool {
	return t.NeighbourMask&(1<<uint(i)) != 0
}

// Chunk is a fixed ChunkSizeW x ChunkSizeH array of texels plus dirty-rect
// bookkeeping (C3). A chunk exclusively owns its texels; no reference to
// them escapes across tick boundaries.
type Chunk struct {
	texels [chunkArea]Texel
	dirty  *geom.ChunkRect
}

// NewChunk returns an all-empty chunk with no dirty rect.
func NewChunk() *Chunk {
	return &Chunk{}
}

func localIndex(local geom.Vector2I) int {
	if local.X < 0 || local.X >= ChunkSizeW || local.Y < 0 || local.Y >= ChunkSizeH {
		// CoordinateOutOfRange: a broken invariant, not a recoverable
		// runtime condition (SPEC_FULL.md §7).
		panic(fmt.Sprintf("world: local coordinate %+v out of chunk bounds [0,%d)x[0,%d)", local, ChunkSizeW, ChunkSizeH))
	}
	return int(local.Y)*int(ChunkSizeW) + int(local.X)
}

// Get returns the texel at the given chunk-local coordinate.
func (c *Chunk) Get(local geom.Vector2I) Texel {
	return c.texels[localIndex(local)]
}

// set writes t at local without touching the dirty rect or neighbor
// bookkeeping; callers (World) are responsible for those.
func (c *Chunk) set(local geom.Vector2I, t Texel) {
	c.texels[localIndex(local)] = t
}

// setMaskBit sets or clears bit i of the neighbor mask at local in place,
// used by World when a neighboring write flips collision class.
func (c *Chunk) setMaskBit(local geom.Vector2I, bit int, set bool) {
	idx := localIndex(local)
	if set {
		c.texels[idx].NeighbourMask |= 1 << uint(bit)
	} else {
		c.texels[idx].NeighbourMask &^= 1 << uint(bit)
	}
}

// MarkDirty unions local into the chunk's dirty rect (I2).
func (c *Chunk) MarkDirty(local geom.Vector2I) {
	if c.dirty == nil {
		r := geom.NewChunkRect(local)
		c.dirty = &r
	} else {
		r := c.dirty.IncludePoint(local)
		c.dirty = &r
	}
}

// MarkAllDirty marks the whole chunk dirty, using the inclusive-max
// convention resolved for Open Question 1.
func (c *Chunk) MarkAllDirty() {
	r := geom.Full(ChunkSizeW)
	c.dirty = &r
}

// DirtyRect returns the chunk's current dirty rect, if any.
func (c *Chunk) DirtyRect() (geom.ChunkRect, bool) {
	if c.dirty == nil {
		return geom.ChunkRect{}, false
	}
	return *c.dirty, true
}

// MarkClean clears the dirty rect and returns the rect that was cleared.
// The simulator calls this at the start of processing a chunk (4.3 step 2a)
// so that a write during this tick's simulation re-dirties it for the next
// tick rather than being lost.
func (c *Chunk) MarkClean() (geom.ChunkRect, bool) {
	r, ok := c.DirtyRect()
	c.dirty = nil
	return r, ok
}

// TextureRGBA renders the chunk to a row-major RGBA buffer, origin
// top-left, y-flipped relative to the chunk's own bottom-up coordinate
// system (6: Terrain-to-host API).
func (c *Chunk) TextureRGBA(reg *material.Registry) []byte {
	out := make([]byte, chunkArea*4)
	for outY := int32(0); outY < ChunkSizeH; outY++ {
		localY := ChunkSizeH - 1 - outY
		for x := int32(0); x < ChunkSizeW; x++ {
			t := c.Get(geom.Vector2I{X: x, Y: localY})
			var col color.RGBA
			if t.ID != material.Empty {
				col = reg.Lookup(t.ID).Color
			}
			i := (int(outY)*int(ChunkSizeW) + int(x)) * 4
			out[i+0] = col.R
			out[i+1] = col.G
			out[i+2] = col.B
			out[i+3] = col.A
		}
	}
	return out
}
