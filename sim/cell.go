package sim

import (
	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
	"github.com/vev-sand/grainworld/world"
)

// simulateCell applies one step of 4.3.1 (simulate_cell) to the texel at
// global: fall, vertical density transfer, then sideways slide with
// alternating scan order. It returns whether the cell changed anything;
// Step ignores the result.
func simulateCell(w *world.World, reg *material.Registry, rng *RNG, global geom.Vector2I, frame int64, tickTag uint8) bool {
	texel, ok := w.GetTexel(global)
	if !ok || texel.ID == material.Empty {
		return false
	}
	// A cell already tagged this tick already took its one move (I3).
	if texel.LastSimulation == tickTag {
		return false
	}

	behavior := reg.Lookup(texel.ID)
	if behavior.Gravity.None() {
		return false
	}

	if behavior.Form == material.Gas {
		if !(behavior.Gravity.Strength > rng.Uint8()) {
			return false
		}
	}

	dir := geom.Down
	if behavior.Gravity.Dir == material.GravityUp {
		dir = geom.Up
	}

	below := global.Add(dir)
	belowBehavior := w.BehaviorAt(below)
	if canDisplace(behavior, belowBehavior) {
		w.Swap(global, below, &tickTag)
		return true
	}
	if tryTransferDensity(w, global, below, behavior, tickTag) {
		return true
	}

	order := slideOrder(global.Y, frame)
	for _, d := range order {
		var slideTo geom.Vector2I
		if behavior.Form == material.Solid {
			slideTo = global.Add(dir).Add(d)
		} else {
			slideTo = global.Add(d)
		}
		slideBehavior := w.BehaviorAt(slideTo)
		if canDisplace(behavior, slideBehavior) {
			w.Swap(global, slideTo, &tickTag)
			return true
		}
		if tryTransferDensity(w, global, slideTo, behavior, tickTag) {
			return true
		}
	}
	return false
}

// slideOrder picks the [RIGHT, LEFT] scan order for row y on the given
// frame, alternating per row and per frame pair to avoid a persistent
// left/right bias (4.3.1, anti-bias requirement).
func slideOrder(y int32, frame int64) [2]geom.Vector2I {
	order := [2]geom.Vector2I{geom.Right, geom.Left}
	rowParity := ((y % 2) + 2) % 2
	framePhase := (frame / 73) % 2
	if framePhase == int64(rowParity) {
		order[0], order[1] = order[1], order[0]
	}
	return order
}

// canDisplace implements the 4.3.1 displacement contest: empty (or an
// unregistered id, which behaves as empty per 4.2) is always displaceable;
// a Solid target is never displaceable; among Liquid/Gas targets, matching
// gravity directions go to the stronger strength, opposing directions let
// the mover through, and a gravity-less non-solid target is always
// displaceable.
func canDisplace(from, to material.Behavior) bool {
	if isDisplaceableEmpty(to) {
		return true
	}
	if to.Form == material.Solid {
		return false
	}
	if !from.Gravity.None() && !to.Gravity.None() {
		if from.Gravity.Dir == to.Gravity.Dir {
			return from.Gravity.Strength > to.Gravity.Strength
		}
		return true
	}
	if to.Gravity.None() {
		return true
	}
	return false
}

func isDisplaceableEmpty(b material.Behavior) bool {
	return !b.HasCollision && b.Gravity.None()
}

// tryTransferDensity moves gas density from the cell at from into the cell
// at to when both hold the same gas id, up to
// min(strength, from.density, 255-to.density, MaxTargetDensity) (4.3.1). It
// reports whether any density actually moved.
func tryTransferDensity(w *world.World, from, to geom.Vector2I, fromBehavior material.Behavior, tickTag uint8) bool {
	if fromBehavior.Form != material.Gas {
		return false
	}
	fromTexel, ok := w.GetTexel(from)
	if !ok {
		return false
	}
	toTexel, ok := w.GetTexel(to)
	if !ok || toTexel.ID != fromBehavior.ID {
		return false
	}

	amount := int(fromBehavior.Gravity.Strength)
	if int(fromTexel.Density) < amount {
		amount = int(fromTexel.Density)
	}
	if headroom := 255 - int(toTexel.Density); headroom < amount {
		amount = headroom
	}
	maxTarget := w.Config().MaxTargetDensity
	if int(maxTarget) < amount {
		amount = int(maxTarget)
	}
	if amount <= 0 {
		return false
	}

	newFrom := fromTexel
	newFrom.Density -= uint8(amount)
	if newFrom.Density == 0 {
		newFrom = world.Texel{NeighbourMask: fromTexel.NeighbourMask}
	}
	newTo := toTexel
	newTo.Density += uint8(amount)

	w.SetTexel(from, newFrom, &tickTag)
	w.SetTexel(to, newTo, &tickTag)
	return true
}
