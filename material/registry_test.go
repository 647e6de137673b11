package material

import "testing"

func sand() Behavior {
	return Behavior{
		ID:           11,
		Name:         "sand",
		Form:         Solid,
		HasCollision: true,
		Gravity:      Gravity{Dir: GravityDown, Strength: 100},
	}
}

func TestUnknownIDBehavesAsEmpty(t *testing.T) {
	r := NewRegistry(sand())
	b := r.Lookup(200)
	if b.HasCollision || !b.Gravity.None() {
		t.Fatalf("expected unknown id to behave as empty, got %+v", b)
	}
	if !r.IsEmpty(0) {
		t.Fatalf("id 0 must always be empty")
	}
}

func TestLookupKnownMaterial(t *testing.T) {
	r := NewRegistry(sand())
	b := r.Lookup(11)
	if b.Name != "sand" || b.Form != Solid || !b.HasCollision {
		t.Fatalf("unexpected lookup result: %+v", b)
	}
	if r.GravityOf(11).Strength != 100 {
		t.Fatalf("expected gravity strength 100, got %d", r.GravityOf(11).Strength)
	}
}

func TestOutOfBoundsIsSolidAndImmovable(t *testing.T) {
	r := NewRegistry(sand())
	ob := r.Lookup(OutOfBoundsID)
	if !ob.HasCollision || !ob.Gravity.None() || ob.Form != Solid {
		t.Fatalf("expected out-of-bounds sentinel to be solid, collides, immovable; got %+v", ob)
	}
}

func TestNewRegistryPanicsOnOutOfBoundsID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when registering reserved id %d", OutOfBoundsID)
		}
	}()
	NewRegistry(Behavior{ID: OutOfBoundsID, Name: "bogus"})
}

func TestNewRegistryPanicsOnDuplicateID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate id")
		}
	}()
	NewRegistry(sand(), sand())
}

func TestNewRegistryPanicsOnReservedEmptyID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on id 0")
		}
	}()
	NewRegistry(Behavior{ID: 0, Name: "bogus"})
}
