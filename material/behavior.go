// Package material holds the process-wide, frozen material behavior table
// (C2): color, form, gravity, collision and toughness per material id.
package material

import "image/color"

// Form governs which simulation rules simulate_cell applies to a texel
// carrying a material of that form.
type Form uint8

const (
	// Solid materials pile under gravity and never accept density transfer.
	Solid Form = iota
	// Liquid materials settle flat and flow sideways when blocked.
	Liquid
	// Gas materials disperse, transfer density and move probabilistically.
	Gas
)

func (f Form) String() string {
	switch f {
	case Solid:
		return "Solid"
	case Liquid:
		return "Liquid"
	case Gas:
		return "Gas"
	default:
		return "Unknown"
	}
}

// GravityDir is the direction a material's gravity pulls it.
type GravityDir uint8

const (
	// NoGravity means the material never falls or rises on its own.
	NoGravity GravityDir = iota
	GravityDown
	GravityUp
)

// Gravity pairs a direction with a strength in [0, 255]. Strength is used
// both as the displacement-contest tiebreaker (4.3.1) and, for gases, as the
// probability numerator of the random gate.
type Gravity struct {
	Dir      GravityDir
	Strength uint8
}

// None reports whether this material has no gravity at all.
func (g Gravity) None() bool { return g.Dir == NoGravity }

// Behavior is the immutable per-id behavior record (C2). Zero value
// describes an inert, non-colliding, gravity-less material — the same
// behavior as an empty cell, which is intentional: unknown ids fall back to
// this by construction (4.2).
type Behavior struct {
	ID           uint8
	Name         string
	Color        color.RGBA
	Form         Form
	HasCollision bool
	Gravity      Gravity
	// Toughness is nil for materials with no collision toughness concept
	// (pure decoration, gases). It is otherwise a resistance value consumed
	// by the (external) rigid-body engine, not by this package.
	Toughness *float32
}

// IsEmpty reports whether this behavior describes the reserved empty
// material (id 0): no collision, no gravity, fully transparent.
func (b Behavior) IsEmpty() bool { return b.ID == 0 }
