package world

import (
	"testing"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
)

func testRegistry() *material.Registry {
	return material.NewRegistry(
		material.Behavior{ID: 1, Name: "stone", Form: material.Solid, HasCollision: true},
		material.Behavior{ID: 2, Name: "steam", Form: material.Gas, HasCollision: false},
	)
}

func TestChunkCoordMathFloorsNegatives(t *testing.T) {
	got := ChunkCoord(geom.Vector2I{X: -1, Y: -33})
	if got != (geom.Vector2I{X: -1, Y: -2}) {
		t.Fatalf("ChunkCoord(-1,-33) = %+v", got)
	}
	local := LocalCoord(geom.Vector2I{X: -1, Y: -33})
	if local != (geom.Vector2I{X: 31, Y: 31}) {
		t.Fatalf("LocalCoord(-1,-33) = %+v", local)
	}
}

func TestSetTexelCreatesChunkAndDirties(t *testing.T) {
	w := New(testRegistry(), Config{})
	ok := w.SetTexel(geom.Vector2I{X: 3, Y: 3}, Texel{ID: 1}, nil)
	if !ok {
		t.Fatalf("expected SetTexel to report a change")
	}
	got, present := w.GetTexel(geom.Vector2I{X: 3, Y: 3})
	if !present || got.ID != 1 {
		t.Fatalf("unexpected read-back: %+v present=%v", got, present)
	}
	c := w.Chunk(geom.Vector2I{})
	if c == nil {
		t.Fatalf("expected chunk (0,0) to exist")
	}
	if _, dirty := c.DirtyRect(); !dirty {
		t.Fatalf("expected chunk to be dirty after write")
	}
}

func TestSetTexelSameIDAndDensityIsNoOp(t *testing.T) {
	w := New(testRegistry(), Config{})
	w.SetTexel(geom.Vector2I{X: 0, Y: 0}, Texel{ID: 1}, nil)
	w.DrainEvents()
	changed := w.SetTexel(geom.Vector2I{X: 0, Y: 0}, Texel{ID: 1}, nil)
	if changed {
		t.Fatalf("expected no-op write to report no change")
	}
}

func TestOutOfBoundsWritesAreDropped(t *testing.T) {
	right := int32(10)
	w := New(testRegistry(), Config{Boundaries: Boundaries{Right: &right}})
	changed := w.SetTexel(geom.Vector2I{X: 50, Y: 0}, Texel{ID: 1}, nil)
	if changed {
		t.Fatalf("expected out-of-bounds write to be a no-op")
	}
	tex, ok := w.GetTexel(geom.Vector2I{X: 50, Y: 0})
	if !ok || tex.ID != material.OutOfBoundsID {
		t.Fatalf("expected out-of-bounds sentinel read, got %+v ok=%v", tex, ok)
	}
}

func TestNeighbourMaskUpdatesAcrossWrite(t *testing.T) {
	w := New(testRegistry(), Config{})
	// Place a solid cell, then check the neighbor above it sees the mask bit.
	w.SetTexel(geom.Vector2I{X: 5, Y: 5}, Texel{ID: 1}, nil)
	above, ok := w.GetTexel(geom.Vector2I{X: 5, Y: 6})
	if !ok {
		t.Fatalf("expected chunk to exist")
	}
	// geom.Cardinal[2] is Down, so the cell above has its DOWN bit (index 2) set
	// when the neighbor below it collides.
	if !above.HasNeighbourCollision(2) {
		t.Fatalf("expected neighbor above to have DOWN collision bit set, mask=%08b", above.NeighbourMask)
	}

	// Removing the collision should clear the bit again.
	w.SetTexel(geom.Vector2I{X: 5, Y: 5}, Texel{ID: 0}, nil)
	above, _ = w.GetTexel(geom.Vector2I{X: 5, Y: 6})
	if above.HasNeighbourCollision(2) {
		t.Fatalf("expected DOWN collision bit cleared after removing the solid cell")
	}
}

func TestWriteDirtiesCardinalNeighbours(t *testing.T) {
	w := New(testRegistry(), Config{})
	w.SetTexel(geom.Vector2I{X: 5, Y: 5}, Texel{ID: 1}, nil)
	for _, off := range geom.Cardinal {
		p := geom.Vector2I{X: 5, Y: 5}.Add(off)
		c := w.Chunk(ChunkCoord(p))
		if c == nil {
			t.Fatalf("expected neighbor chunk to exist at %+v", p)
		}
		if _, dirty := c.DirtyRect(); !dirty {
			t.Fatalf("expected neighbor at %+v to be dirtied", p)
		}
	}
}

func TestAddRemoveChunkEmitsEventsInOrder(t *testing.T) {
	w := New(testRegistry(), Config{})
	pos := geom.Vector2I{X: 2, Y: 2}
	w.AddChunk(pos, NewChunk())
	w.SetTexel(pos.Scale(ChunkSizeW), Texel{ID: 1}, nil)
	w.MarkClean(pos)
	w.RemoveChunk(pos)

	events := w.DrainEvents()
	if len(events) < 3 {
		t.Fatalf("expected at least 3 events, got %d", len(events))
	}
	if events[0].Kind != ChunkAdded {
		t.Fatalf("expected first event to be ChunkAdded, got %v", events[0].Kind)
	}
	if events[len(events)-1].Kind != ChunkRemoved {
		t.Fatalf("expected last event to be ChunkRemoved, got %v", events[len(events)-1].Kind)
	}
}

func TestOutOfBoundsBehavesAsImmovableWall(t *testing.T) {
	w := New(testRegistry(), Config{})
	b := w.BehaviorAt(geom.Vector2I{X: 1 << 30, Y: 0})
	// Without any configured boundary, nothing is out-of-bounds; this just
	// verifies BehaviorAt falls back to empty for an unloaded chunk.
	if b.HasCollision {
		t.Fatalf("expected unloaded chunk to read as empty, not collide")
	}

	top := int32(5)
	w2 := New(testRegistry(), Config{Boundaries: Boundaries{Top: &top}})
	ob := w2.BehaviorAt(geom.Vector2I{X: 0, Y: 100})
	if !ob.HasCollision || !ob.Gravity.None() {
		t.Fatalf("expected out-of-bounds behavior to be solid and immovable, got %+v", ob)
	}
}
