package world

import (
	"testing"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
)

func TestChunkMarkDirtyUnion(t *testing.T) {
	c := NewChunk()
	c.MarkDirty(geom.Vector2I{X: 5, Y: 5})
	c.MarkDirty(geom.Vector2I{X: 1, Y: 9})
	rect, ok := c.DirtyRect()
	if !ok {
		t.Fatalf("expected dirty rect")
	}
	if rect.Min != (geom.Vector2I{X: 1, Y: 5}) || rect.Max != (geom.Vector2I{X: 5, Y: 9}) {
		t.Fatalf("unexpected union rect: %+v", rect)
	}
}

func TestChunkMarkCleanClearsAndReturnsRect(t *testing.T) {
	c := NewChunk()
	c.MarkDirty(geom.Vector2I{X: 2, Y: 2})
	rect, ok := c.MarkClean()
	if !ok || rect.Min != (geom.Vector2I{X: 2, Y: 2}) {
		t.Fatalf("unexpected MarkClean result: %+v %v", rect, ok)
	}
	if _, ok := c.DirtyRect(); ok {
		t.Fatalf("expected no dirty rect after MarkClean")
	}
}

func TestLocalIndexPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range local coordinate")
		}
	}()
	c := NewChunk()
	c.Get(geom.Vector2I{X: 100, Y: 0})
}

func TestTextureRGBAYFlip(t *testing.T) {
	red := material.Behavior{ID: 5, Form: material.Solid, HasCollision: true}
	red.Color.R = 255
	red.Color.A = 255
	reg := material.NewRegistry(red)

	c := NewChunk()
	// bottom-left local cell (0,0) should end up in the bottom row of the
	// texture, i.e. the last output row.
	c.set(geom.Vector2I{X: 0, Y: 0}, Texel{ID: 5})
	buf := c.TextureRGBA(reg)

	lastRowStart := (int(ChunkSizeH)-1)*int(ChunkSizeW)*4 + 0
	if buf[lastRowStart+0] != 255 || buf[lastRowStart+3] != 255 {
		t.Fatalf("expected red opaque pixel at bottom-left of texture, got %v", buf[lastRowStart:lastRowStart+4])
	}
	if buf[0] != 0 {
		t.Fatalf("expected top-left pixel transparent, got %v", buf[0:4])
	}
}
