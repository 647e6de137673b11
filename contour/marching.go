// Package contour implements the marching-squares contour extractor (C6):
// turning a chunk's collision occupancy into closed polyline islands a
// rigid-body physics engine can consume directly.
package contour

import (
	"fmt"

	"github.com/vev-sand/grainworld/geom"
)

// Edge direction indices into a case table entry, matching the bit order of
// world.Texel.NeighbourMask (UP=bit0, RIGHT=bit1, DOWN=bit2, LEFT=bit3).
const (
	edgeUp = iota
	edgeRight
	edgeDown
	edgeLeft
)

// caseTable has one entry per 4-bit neighbor-collision mask (16 cases,
// 2^4). Entry i lists which of the four unit-cell edges are boundary edges
// for a colliding cell whose neighbor mask is i: an edge is a boundary only
// where the corresponding neighbor does NOT collide, i.e. bit i is clear.
// cellEdges orients the present edges DOWN -> RIGHT -> UP -> LEFT around
// the cell, counter-clockwise, so emitted segments chain head-to-tail into a
// closed, positively-oriented loop.
var caseTable [16][4]bool

func init() {
	for mask := 0; mask < 16; mask++ {
		caseTable[mask] = [4]bool{
			edgeUp:    mask&(1<<edgeUp) == 0,
			edgeRight: mask&(1<<edgeRight) == 0,
			edgeDown:  mask&(1<<edgeDown) == 0,
			edgeLeft:  mask&(1<<edgeLeft) == 0,
		}
	}
	// MalformedCaseTable guard (SPEC_FULL.md §7): the fully-isolated cell
	// must emit all four edges and the fully-surrounded cell must emit none.
	if caseTable[0] != [4]bool{true, true, true, true} {
		panic("contour: malformed case table, case 0 must emit all four edges")
	}
	if caseTable[15] != [4]bool{false, false, false, false} {
		panic("contour: malformed case table, case 15 must emit no edges")
	}
}

// cellEdges returns the boundary segments for a colliding cell at local
// coordinate (x,y) (its lower-left corner), given its cached neighbor mask,
// oriented so the solid region's interior is always to the segment's left
// (counter-clockwise winding around the outside, clockwise around holes).
func cellEdges(x, y int32, mask uint8) []geom.Segment2I {
	bl := geom.Vector2I{X: x, Y: y}
	br := geom.Vector2I{X: x + 1, Y: y}
	tr := geom.Vector2I{X: x + 1, Y: y + 1}
	tl := geom.Vector2I{X: x, Y: y + 1}

	c := caseTable[mask]
	var out []geom.Segment2I
	if c[edgeDown] {
		out = append(out, geom.Segment2I{From: bl, To: br})
	}
	if c[edgeRight] {
		out = append(out, geom.Segment2I{From: br, To: tr})
	}
	if c[edgeUp] {
		out = append(out, geom.Segment2I{From: tr, To: tl})
	}
	if c[edgeLeft] {
		out = append(out, geom.Segment2I{From: tl, To: bl})
	}
	return out
}

// debugCase renders a mask as a compact string for diagnostics. Nothing in
// the package calls it.
func debugCase(mask uint8) string {
	return fmt.Sprintf("up=%v right=%v down=%v left=%v",
		mask&1 != 0, mask&2 != 0, mask&4 != 0, mask&8 != 0)
}
