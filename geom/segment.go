package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment2I is a directed unit (or longer) segment between two integer
// points, emitted by the contour extractor's case table.
type Segment2I struct {
	From, To Vector2I
}

// Angle returns the direction of the segment in radians. The direction
// vector is carried as an mgl64.Vec2 so the contour assembler's
// collinear-run compaction (4.4) shares its vector type with the rest of the
// float-coordinate pipeline (Island points).
func (s Segment2I) Angle() float64 {
	d := mgl64.Vec2{float64(s.To.X - s.From.X), float64(s.To.Y - s.From.Y)}
	return math.Atan2(d.Y(), d.X())
}

// Vec2 returns v as an mgl64.Vec2, used when emitting
// chunk-local float coordinates for a physics-ready polyline.
func (v Vector2I) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{float64(v.X), float64(v.Y)}
}

// Add translates both endpoints of s by offset.
func (s Segment2I) Add(offset Vector2I) Segment2I {
	return Segment2I{From: s.From.Add(offset), To: s.To.Add(offset)}
}
