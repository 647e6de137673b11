package sim

import (
	"sort"

	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
	"github.com/vev-sand/grainworld/world"
)

// disperseGases implements 4.3.2: every gas cell in a chunk's dirty rect
// equalizes density with its 2x2 window partners, in randomized window
// order so no corner of the chunk is systematically favored. On even
// frames the window grid is offset by (-1,-1) so the boundary between
// windows itself shifts from tick to tick (otherwise a wall of cells
// straddling a fixed window seam would never equalize against each other).
func disperseGases(w *world.World, reg *material.Registry, rng *RNG, pos geom.Vector2I, rect geom.ChunkRect, frame int64) {
	var offset int32
	if frame%2 == 0 {
		offset = -1
	}

	base := pos.Scale(world.ChunkSizeW)
	minWX := floorDivI32(rect.Min.X+offset, 2)
	maxWX := floorDivI32(rect.Max.X+offset, 2)
	minWY := floorDivI32(rect.Min.Y+offset, 2)
	maxWY := floorDivI32(rect.Max.Y+offset, 2)

	type window struct{ wx, wy int32 }
	var windows []window
	for wy := minWY; wy <= maxWY; wy++ {
		for wx := minWX; wx <= maxWX; wx++ {
			windows = append(windows, window{wx, wy})
		}
	}
	rng.Shuffle(len(windows), func(i, j int) { windows[i], windows[j] = windows[j], windows[i] })

	for _, win := range windows {
		corners := [4]geom.Vector2I{
			{X: win.wx*2 - offset, Y: win.wy*2 - offset},
			{X: win.wx*2 - offset + 1, Y: win.wy*2 - offset},
			{X: win.wx*2 - offset, Y: win.wy*2 - offset + 1},
			{X: win.wx*2 - offset + 1, Y: win.wy*2 - offset + 1},
		}
		equalizeWindow(w, reg, rng, base, corners)
	}
}

// gasTotal accumulates the per-id bookkeeping 4.3.2 asks for: the summed
// density of every cell holding that id in the window, how many cells hold
// it, and the min/max spread used for the stability check.
type gasTotal struct {
	id       uint8
	sum      int
	occupied int
	min, max uint8
}

// equalizeWindow implements 4.3.2 for one 2x2 window. Cells that are empty
// or whose material is a Gas are the valid redistribution slots; Solid and
// Liquid cells in the window are left untouched and don't count toward the
// window's capacity. Every distinct gas id present is tallied and packed
// independently, so a window straddling two different gases equalizes both
// rather than bailing out on the first mismatch.
func equalizeWindow(w *world.World, reg *material.Registry, rng *RNG, base geom.Vector2I, corners [4]geom.Vector2I) {
	cfg := w.Config()

	var valid []geom.Vector2I
	totals := make(map[uint8]*gasTotal)
	var order []uint8
	for _, c := range corners {
		global := base.Add(c)
		t, ok := w.GetTexel(global)
		if !ok {
			continue
		}
		if t.ID != material.Empty {
			b := reg.Lookup(t.ID)
			if b.Form != material.Gas {
				continue // solids and liquids are not valid dispersion slots
			}
		}
		valid = append(valid, global)
		if t.ID == material.Empty {
			continue
		}
		gt, seen := totals[t.ID]
		if !seen {
			gt = &gasTotal{id: t.ID, min: t.Density, max: t.Density}
			totals[t.ID] = gt
			order = append(order, t.ID)
		}
		gt.sum += int(t.Density)
		gt.occupied++
		if t.Density < gt.min {
			gt.min = t.Density
		}
		if t.Density > gt.max {
			gt.max = t.Density
		}
	}
	if len(order) == 0 || len(valid) < 2 {
		return
	}

	// priority order: highest total density first, ties broken by id for
	// determinism.
	sort.Slice(order, func(i, j int) bool {
		a, b := totals[order[i]], totals[order[j]]
		if a.sum != b.sum {
			return a.sum > b.sum
		}
		return a.id < b.id
	})

	slots := make(map[uint8]int, len(order))
	sumNeeded := 0
	stable := true
	for _, id := range order {
		gt := totals[id]
		n := gt.sum/(255+1) + 1
		slots[id] = n
		sumNeeded += n
		if int(gt.max-gt.min) > int(cfg.StableThreshold) || gt.occupied > n {
			stable = false
		}
	}
	if stable {
		return
	}

	// distribute remaining free slots round-robin, in priority order.
	free := len(valid) - sumNeeded
	for i := 0; free > 0; i++ {
		id := order[i%len(order)]
		slots[id]++
		free--
	}
	// if the minimum requirement somehow exceeds the available slots (not
	// expected given density/cell bounds, but kept safe), shrink the
	// lowest-priority ids first.
	for i := len(order) - 1; i >= 0 && overAllocated(slots, len(valid)); i-- {
		id := order[i]
		if slots[id] > 1 {
			slots[id]--
		}
	}

	type assignment struct {
		id      uint8
		density uint8
	}
	var values []assignment
	for _, id := range order {
		remaining := totals[id].sum
		for s := 0; s < slots[id]; s++ {
			amt := remaining
			if amt > 255 {
				amt = 255
			}
			remaining -= amt
			values = append(values, assignment{id: id, density: uint8(amt)})
		}
	}
	for len(values) < len(valid) {
		values = append(values, assignment{})
	}
	values = values[:len(valid)]

	rng.Shuffle(len(valid), func(i, j int) { valid[i], valid[j] = valid[j], valid[i] })

	for i, global := range valid {
		v := values[i]
		if v.density == 0 {
			w.SetTexel(global, world.Texel{}, nil)
			continue
		}
		w.SetTexel(global, world.Texel{ID: v.id, Density: v.density}, nil)
	}
}

func overAllocated(slots map[uint8]int, capacity int) bool {
	sum := 0
	for _, n := range slots {
		sum += n
	}
	return sum > capacity
}

// floorDivI32 is the math-floor integer division used to map a dirty-rect
// bound into 2x2 window coordinates, matching geom's chunk-coordinate
// convention for negative offsets.
func floorDivI32(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
