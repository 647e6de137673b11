package geom

// ChunkRect is an inclusive axis-aligned integer rectangle, used both as a
// chunk's dirty-rect bookkeeping and as the bounds passed on a
// TexelsUpdated event.
type ChunkRect struct {
	Min, Max Vector2I
}

// NewChunkRect returns the rect covering exactly the single point p.
func NewChunkRect(p Vector2I) ChunkRect {
	return ChunkRect{Min: p, Max: p}
}

// IncludePoint widens r to cover p, per Open Question 1: the resolved
// convention is an inclusive max, so a rect covering a single point at the
// origin is {Min: {0,0}, Max: {0,0}}, not {Max: {1,1}}.
func (r ChunkRect) IncludePoint(p Vector2I) ChunkRect {
	out := r
	if p.X < out.Min.X {
		out.Min.X = p.X
	}
	if p.Y < out.Min.Y {
		out.Min.Y = p.Y
	}
	if p.X > out.Max.X {
		out.Max.X = p.X
	}
	if p.Y > out.Max.Y {
		out.Max.Y = p.Y
	}
	return out
}

// Union returns the smallest rect covering both r and o.
func (r ChunkRect) Union(o ChunkRect) ChunkRect {
	return r.IncludePoint(o.Min).IncludePoint(o.Max)
}

// Contains reports whether p lies within the inclusive bounds of r.
func (r ChunkRect) Contains(p Vector2I) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Width returns the inclusive width of r, i.e. Max.X-Min.X+1.
func (r ChunkRect) Width() int32 { return r.Max.X - r.Min.X + 1 }

// Height returns the inclusive height of r, i.e. Max.Y-Min.Y+1.
func (r ChunkRect) Height() int32 { return r.Max.Y - r.Min.Y + 1 }

// Full returns the inclusive rect covering the full size x size chunk, per
// Open Question 1's resolved convention (inclusive max of size-1).
func Full(size int32) ChunkRect {
	return ChunkRect{Min: Vector2I{0, 0}, Max: Vector2I{size - 1, size - 1}}
}
