package world

import (
	"github.com/brentp/intintmap"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
)

// Metrics is a small read-only observability surface, grounded on the
// teacher's World.LoadedChunkCount/World.TPS() pair — useful ambient
// reporting for a host embedding this engine, even though the spec itself
// doesn't require it.
type Metrics struct {
	LoadedChunks  int
	EventsDrained uint64
}

// World maps chunk coordinates to Chunks, owns the event queue and the
// boundary policy (C4).
type World struct {
	id   uuid.UUID
	reg  *material.Registry
	conf Config

	chunks map[geom.Vector2I]*Chunk
	// order mirrors the keys of chunks but in a stable append order, used by
	// the staleness refresher (4.3.3) and anywhere else that wants a cheap,
	// deterministic slice to index into rather than ranging over a map.
	order []geom.Vector2I
	// orderIndex is a packed-coordinate -> slice-index map over order. It
	// is kept up to date by AddChunk and RemoveChunk; nothing reads it (the
	// staleness refresher selects from a Morton-sorted ChunkCoords snapshot).
	orderIndex *intintmap.Map

	events []TerrainEvent

	eventsEmitted uint64
}

// New constructs an empty world with the given frozen material registry and
// configuration.
func New(reg *material.Registry, conf Config) *World {
	return &World{
		id:         uuid.New(),
		reg:        reg,
		conf:       conf.WithDefaults(),
		chunks:     make(map[geom.Vector2I]*Chunk),
		orderIndex: intintmap.New(64, 0.6),
	}
}

// ID returns the stable identifier assigned to this world instance, used to
// correlate log lines across a process lifetime.
func (w *World) ID() uuid.UUID { return w.id }

// Registry returns the frozen material registry this world was built with.
func (w *World) Registry() *material.Registry { return w.reg }

// Config returns the resolved configuration.
func (w *World) Config() Config { return w.conf }

// Metrics reports a snapshot of world-level counters.
func (w *World) Metrics() Metrics {
	return Metrics{LoadedChunks: len(w.chunks), EventsDrained: w.eventsEmitted}
}

// packCoord combines a chunk coordinate into a single int64 key for the
// intintmap-backed order index, via the same coordinate-hashing idiom used
// to mix PRNG seeds in sim.
func packCoord(c geom.Vector2I) int64 {
	return int64(xxhash.Sum64(coordBytes(c)))
}

func coordBytes(c geom.Vector2I) []byte {
	var b [8]byte
	b[0] = byte(c.X)
	b[1] = byte(c.X >> 8)
	b[2] = byte(c.X >> 16)
	b[3] = byte(c.X >> 24)
	b[4] = byte(c.Y)
	b[5] = byte(c.Y >> 8)
	b[6] = byte(c.Y >> 16)
	b[7] = byte(c.Y >> 24)
	return b[:]
}

// ChunkCoord returns the chunk coordinate owning the given global texel
// position, using math-floor division (4.1).
func ChunkCoord(global geom.Vector2I) geom.Vector2I {
	return global.FloorDivScalar(ChunkSizeW)
}

// LocalCoord returns the chunk-local coordinate of the given global texel
// position, using math-floor modulo (4.1).
func LocalCoord(global geom.Vector2I) geom.Vector2I {
	return global.FloorModScalar(ChunkSizeW)
}

// InBounds reports whether global respects every configured boundary (4.5).
func (w *World) InBounds(global geom.Vector2I) bool {
	return w.conf.Boundaries.Contains(global)
}

// Chunk returns the chunk at the given chunk coordinate, or nil if absent.
func (w *World) Chunk(pos geom.Vector2I) *Chunk {
	return w.chunks[pos]
}

// ChunkCoords returns a snapshot of every loaded chunk coordinate. Per 4.1,
// chunk_iter does not guarantee a stable order; callers needing determinism
// get it here because World.order is itself append-stable, but they should
// not rely on that beyond "stable for the lifetime of this slice".
func (w *World) ChunkCoords() []geom.Vector2I {
	out := make([]geom.Vector2I, len(w.order))
	copy(out, w.order)
	return out
}

// AddChunk installs an already-built chunk at pos, emitting ChunkAdded and
// refreshing neighbor masks at the seam with any already-loaded neighbors.
// If a chunk already exists at pos it is replaced outright.
func (w *World) AddChunk(pos geom.Vector2I, c *Chunk) {
	if c == nil {
		c = NewChunk()
	}
	_, existed := w.chunks[pos]
	w.chunks[pos] = c
	if !existed {
		w.orderIndex.Put(packCoord(pos), int64(len(w.order)))
		w.order = append(w.order, pos)
	}
	w.initMasks(pos, c)
	w.emit(TerrainEvent{Kind: ChunkAdded, Chunk: pos})
}

// RemoveChunk discards the chunk at pos, if any, emitting ChunkRemoved. Per
// the ordering guarantee in §5, this is the last event ever emitted for
// that chunk.
func (w *World) RemoveChunk(pos geom.Vector2I) {
	if _, ok := w.chunks[pos]; !ok {
		return
	}
	delete(w.chunks, pos)
	for i, p := range w.order {
		if p == pos {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.orderIndex = rebuildOrderIndex(w.order)
	w.emit(TerrainEvent{Kind: ChunkRemoved, Chunk: pos})
}

func rebuildOrderIndex(order []geom.Vector2I) *intintmap.Map {
	idx := intintmap.New(int64(max(16, len(order))), 0.6)
	for i, p := range order {
		idx.Put(packCoord(p), int64(i))
	}
	return idx
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (w *World) chunkOrCreate(pos geom.Vector2I) *Chunk {
	if c, ok := w.chunks[pos]; ok {
		return c
	}
	c := NewChunk()
	w.AddChunk(pos, c)
	return c
}

// GetTexel returns the texel at global. ok is false only when the
// coordinate is in-bounds but its owning chunk is not loaded
// (MissingChunkOnRead, §7). Out-of-bounds coordinates always succeed,
// returning a sentinel texel whose id is material.OutOfBoundsID (4.5, I5).
func (w *World) GetTexel(global geom.Vector2I) (Texel, bool) {
	if !w.InBounds(global) {
		return Texel{ID: material.OutOfBoundsID}, true
	}
	c, ok := w.chunks[ChunkCoord(global)]
	if !ok {
		return Texel{}, false
	}
	return c.Get(LocalCoord(global)), true
}

// BehaviorAt resolves the material behavior at global, folding together
// out-of-bounds, missing-chunk and known-material lookups into one pure
// call, exactly the shape simulate_cell wants.
func (w *World) BehaviorAt(global geom.Vector2I) material.Behavior {
	t, _ := w.GetTexel(global)
	return w.reg.Lookup(t.ID)
}

// MarkDirty unions global into its owning chunk's dirty rect, creating the
// chunk if necessary. Writes outside world boundaries are no-ops.
func (w *World) MarkDirty(global geom.Vector2I) {
	if !w.InBounds(global) {
		return
	}
	c := w.chunkOrCreate(ChunkCoord(global))
	c.MarkDirty(LocalCoord(global))
}

// SetTexel writes newTexel at global (4.1). It returns false (a no-op) when
// global is outside the world boundaries or the write would not change the
// stored id or density (the tie-break rule). When tickTag is non-nil it is
// stamped into the destination's LastSimulation field.
func (w *World) SetTexel(global geom.Vector2I, newTexel Texel, tickTag *uint8) bool {
	if !w.InBounds(global) {
		return false
	}
	pos := ChunkCoord(global)
	c := w.chunkOrCreate(pos)
	local := LocalCoord(global)
	old := c.Get(local)
	if old.ID == newTexel.ID && old.Density == newTexel.Density {
		return false
	}

	oldCollides := w.reg.HasCollision(old.ID)
	newCollides := w.reg.HasCollision(newTexel.ID)

	newTexel.NeighbourMask = old.NeighbourMask
	if tickTag != nil {
		newTexel.LastSimulation = *tickTag
	} else {
		newTexel.LastSimulation = old.LastSimulation
	}
	c.set(local, newTexel)
	c.MarkDirty(local)

	if oldCollides != newCollides {
		w.propagateCollisionChange(global, newCollides)
	}
	w.dirtyNeighbours(global)
	return true
}

// Swap exchanges the texels at a and b, both receiving tickTag if given
// (4.1). It is implemented as two SetTexel calls exchanging payloads.
func (w *World) Swap(a, b geom.Vector2I, tickTag *uint8) {
	ta, _ := w.GetTexel(a)
	tb, _ := w.GetTexel(b)
	w.SetTexel(a, tb, tickTag)
	w.SetTexel(b, ta, tickTag)
}

// propagateCollisionChange updates the matching neighbor-mask bit on each
// of the four cardinal neighbors of global, per 4.1: "the reverse offset
// indexes the opposite bit".
func (w *World) propagateCollisionChange(global geom.Vector2I, collides bool) {
	for i, off := range geom.Cardinal {
		neighbourGlobal := global.Add(off)
		if !w.InBounds(neighbourGlobal) {
			continue
		}
		npos := ChunkCoord(neighbourGlobal)
		nc, ok := w.chunks[npos]
		if !ok {
			continue
		}
		opposite := (i + 2) % 4
		local := LocalCoord(neighbourGlobal)
		nc.setMaskBit(local, opposite, collides)
		nc.MarkDirty(local)
	}
}

// dirtyNeighbours marks the four cardinal neighbors of global dirty (4.3.4),
// independent of whether their collision class changed, so cascading
// effects at chunk borders and material boundaries stay alive.
func (w *World) dirtyNeighbours(global geom.Vector2I) {
	for _, off := range geom.Cardinal {
		w.MarkDirty(global.Add(off))
	}
}

// collidesAt reports the collision state used to compute a freshly created
// chunk's neighbor masks; it goes through GetTexel so out-of-bounds and
// missing-chunk positions resolve the same way collision checks do
// everywhere else.
func (w *World) collidesAt(global geom.Vector2I) bool {
	t, _ := w.GetTexel(global)
	return w.reg.HasCollision(t.ID)
}

// initMasks computes the correct neighbor mask for every texel of a newly
// added chunk (covering out-of-bounds and not-yet-loaded neighbors), then
// refreshes the border cells of any already-loaded adjacent chunks so I1
// holds across chunk-creation order.
func (w *World) initMasks(pos geom.Vector2I, c *Chunk) {
	base := pos.Scale(ChunkSizeW)
	for y := int32(0); y < ChunkSizeH; y++ {
		for x := int32(0); x < ChunkSizeW; x++ {
			local := geom.Vector2I{X: x, Y: y}
			global := base.Add(local)
			var mask uint8
			for i, off := range geom.Cardinal {
				if w.collidesAt(global.Add(off)) {
					mask |= 1 << uint(i)
				}
			}
			t := c.Get(local)
			t.NeighbourMask = mask
			c.set(local, t)
		}
	}
	w.refreshBorderNeighbours(pos, c)
}

// refreshBorderNeighbours nudges the mask bit of already-loaded neighbor
// chunks that border pos, for every border cell whose collision state is
// true, so a chunk that appears after its neighbor was loaded doesn't leave
// that neighbor's border texels with a stale "no neighbor" mask bit.
func (w *World) refreshBorderNeighbours(pos geom.Vector2I, c *Chunk) {
	base := pos.Scale(ChunkSizeW)
	edges := []struct {
		fixed  int32
		isX    bool
		offset geom.Vector2I
	}{
		{fixed: 0, isX: true, offset: geom.Left},
		{fixed: ChunkSizeW - 1, isX: true, offset: geom.Right},
		{fixed: 0, isX: false, offset: geom.Down},
		{fixed: ChunkSizeH - 1, isX: false, offset: geom.Up},
	}
	for _, e := range edges {
		if e.isX {
			for y := int32(0); y < ChunkSizeH; y++ {
				local := geom.Vector2I{X: e.fixed, Y: y}
				global := base.Add(local)
				if w.reg.HasCollision(c.Get(local).ID) {
					w.propagateCollisionChange(global, true)
				}
			}
		} else {
			for x := int32(0); x < ChunkSizeW; x++ {
				local := geom.Vector2I{X: x, Y: e.fixed}
				global := base.Add(local)
				if w.reg.HasCollision(c.Get(local).ID) {
					w.propagateCollisionChange(global, true)
				}
			}
		}
	}
}

// MarkClean is exposed so the simulator (which owns tick sequencing) can
// clear a chunk's dirty rect and emit the matching TexelsUpdated event in
// one step (4.3 step 2a, 4.6).
func (w *World) MarkClean(pos geom.Vector2I) {
	c, ok := w.chunks[pos]
	if !ok {
		return
	}
	rect, had := c.MarkClean()
	if !had {
		return
	}
	w.emit(TerrainEvent{Kind: TexelsUpdated, Chunk: pos, Rect: rect})
	w.eventsEmitted++
}
