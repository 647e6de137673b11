package world

import "github.com/vev-sand/grainworld/geom"

// Generator produces the initial texel fill for a chunk the first time it
// is loaded (C9). Implementations are bound to a World ahead of time and
// write texels themselves via SetTexel; GenerateChunk only receives the
// coordinate to fill, mirroring the teacher's pmgen.Generator.GenerateChunk
// shape.
type Generator interface {
	GenerateChunk(pos geom.Vector2I)
}

// LoadChunk returns the chunk at pos, creating an empty chunk and running
// gen over it first if it has never been loaded. Calling it again for an
// already-loaded chunk is a cheap no-op lookup.
func (w *World) LoadChunk(pos geom.Vector2I, gen Generator) *Chunk {
	if c, ok := w.chunks[pos]; ok {
		return c
	}
	w.AddChunk(pos, NewChunk())
	gen.GenerateChunk(pos)
	return w.chunks[pos]
}
