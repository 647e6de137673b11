package contour

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
	"github.com/vev-sand/grainworld/world"
)

// collinearThreshold is the maximum angle difference, in radians, between
// two consecutive edges for the assembler to treat them as one straight run
// and drop the shared vertex (4.4 collinear-segment compaction).
const collinearThreshold = 0.1

// minIslandSegments discards degenerate islands left with fewer than this
// many points once compaction has run. A single isolated texel compacts to
// a four-corner square and is kept.
const minIslandSegments = 4

// Island is one closed polyline boundary of a chunk's collision occupancy,
// in chunk-local float coordinates ready to hand to a rigid-body physics
// engine as a collider shape.
type Island struct {
	Points []mgl64.Vec2
}

// Extract walks every colliding texel of c and assembles its boundary
// edges into closed Islands (C6). Each texel contributes up to four
// boundary segments via its cached NeighbourMask (marching.go); segments
// are stitched head-to-tail and collinear runs are compacted.
func Extract(c *world.Chunk, reg *material.Registry) []Island {
	edges := collectEdges(c, reg)
	loops := stitch(edges)

	out := make([]Island, 0, len(loops))
	for _, loop := range loops {
		compacted := compact(loop)
		if len(compacted) < minIslandSegments {
			continue
		}
		pts := make([]mgl64.Vec2, len(compacted))
		for i, p := range compacted {
			pts[i] = p.Vec2()
		}
		out = append(out, Island{Points: pts})
	}
	return out
}

func collectEdges(c *world.Chunk, reg *material.Registry) []geom.Segment2I {
	var edges []geom.Segment2I
	for y := int32(0); y < world.ChunkSizeH; y++ {
		for x := int32(0); x < world.ChunkSizeW; x++ {
			t := c.Get(geom.Vector2I{X: x, Y: y})
			if !reg.HasCollision(t.ID) {
				continue
			}
			edges = append(edges, cellEdges(x, y, t.NeighbourMask)...)
		}
	}
	return edges
}

// stitch chains oriented unit edges into closed loops by matching each
// edge's To point to the From point of the next edge. Cell edges are
// produced with consistent counter-clockwise winding (marching.go), so a
// simple single-pass "first unvisited edge starting here" walk suffices for
// every boundary that doesn't touch itself at a single diagonal point.
func stitch(edges []geom.Segment2I) [][]geom.Vector2I {
	byFrom := make(map[geom.Vector2I][]int)
	for i, e := range edges {
		byFrom[e.From] = append(byFrom[e.From], i)
	}
	used := make([]bool, len(edges))

	var loops [][]geom.Vector2I
	for i := range edges {
		if used[i] {
			continue
		}
		start := edges[i].From
		var loop []geom.Vector2I
		cur := i
		for {
			used[cur] = true
			loop = append(loop, edges[cur].From)
			next := nextEdge(byFrom, used, edges[cur].To)
			if next < 0 {
				break
			}
			cur = next
			if edges[cur].From == start {
				break
			}
		}
		loops = append(loops, loop)
	}
	return loops
}

func nextEdge(byFrom map[geom.Vector2I][]int, used []bool, from geom.Vector2I) int {
	for _, idx := range byFrom[from] {
		if !used[idx] {
			return idx
		}
	}
	return -1
}

// compact drops vertices whose two adjacent edges are collinear within
// collinearThreshold, so a long straight run of unit edges becomes one
// segment instead of one per texel.
func compact(loop []geom.Vector2I) []geom.Vector2I {
	n := len(loop)
	if n < 3 {
		return loop
	}
	out := make([]geom.Vector2I, 0, n)
	for i := 0; i < n; i++ {
		prev := loop[(i-1+n)%n]
		cur := loop[i]
		next := loop[(i+1)%n]
		in := geom.Segment2I{From: prev, To: cur}.Angle()
		outAngle := geom.Segment2I{From: cur, To: next}.Angle()
		if angleDiff(in, outAngle) <= collinearThreshold {
			continue
		}
		out = append(out, cur)
	}
	if len(out) == 0 {
		return loop
	}
	return out
}

func angleDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
