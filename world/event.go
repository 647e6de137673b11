package world

import "github.com/vev-sand/grainworld/geom"

// EventKind distinguishes the three event shapes the world fans out (C7).
type EventKind uint8

const (
	ChunkAdded EventKind = iota
	ChunkRemoved
	TexelsUpdated
)

func (k EventKind) String() string {
	switch k {
	case ChunkAdded:
		return "ChunkAdded"
	case ChunkRemoved:
		return "ChunkRemoved"
	case TexelsUpdated:
		return "TexelsUpdated"
	default:
		return "Unknown"
	}
}

// TerrainEvent is one entry in the world's event queue (4.6). Rect is only
// meaningful for TexelsUpdated and is the chunk-local inclusive dirty rect
// that was cleaned this tick.
type TerrainEvent struct {
	Kind  EventKind
	Chunk geom.Vector2I
	Rect  geom.ChunkRect
}

// DrainEvents returns and clears the queued events, in production order.
// Consumers are responsible for idempotence; the queue itself never
// deduplicates (4.6).
func (w *World) DrainEvents() []TerrainEvent {
	if len(w.events) == 0 {
		return nil
	}
	out := w.events
	w.events = nil
	return out
}

func (w *World) emit(ev TerrainEvent) {
	w.events = append(w.events, ev)
}
