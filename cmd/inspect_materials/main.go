// Command inspect_materials dumps a registry's material table, grounded on
// the teacher's cmd/inspect_palette decode-and-dump idiom.
package main

import (
	"fmt"

	"github.com/vev-sand/grainworld/material"
)

func main() {
	reg := defaultRegistry()
	for _, b := range reg.All() {
		fmt.Printf("%3d  %-12s form=%-6s collision=%-5v gravity=%s\n",
			b.ID, b.Name, b.Form, b.HasCollision, gravityString(b))
	}
}

func gravityString(b material.Behavior) string {
	if b.Gravity.None() {
		return "none"
	}
	dir := "down"
	if b.Gravity.Dir == material.GravityUp {
		dir = "up"
	}
	return fmt.Sprintf("%s(%d)", dir, b.Gravity.Strength)
}

// defaultRegistry is the small built-in material set the sandbox demo and
// this inspector both use; a real deployment would build its own registry
// from a data file instead.
func defaultRegistry() *material.Registry {
	return material.NewRegistry(
		material.Behavior{ID: 1, Name: "sand", Form: material.Solid, HasCollision: true,
			Gravity: material.Gravity{Dir: material.GravityDown, Strength: 255}},
		material.Behavior{ID: 2, Name: "stone", Form: material.Solid, HasCollision: true},
		material.Behavior{ID: 3, Name: "water", Form: material.Liquid,
			Gravity: material.Gravity{Dir: material.GravityDown, Strength: 200}},
		material.Behavior{ID: 4, Name: "steam", Form: material.Gas,
			Gravity: material.Gravity{Dir: material.GravityUp, Strength: 180}},
	)
}
