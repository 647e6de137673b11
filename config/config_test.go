package config

import (
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.toml")
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.RefreshModulus != 100 || f.MaxTargetDensity != 25 {
		t.Fatalf("expected defaults to be written, got %+v", f)
	}

	f2, err := Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if f2 != f {
		t.Fatalf("expected reloading the just-created file to round-trip, got %+v vs %+v", f2, f)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "world.toml")
	top := int32(64)
	f := Default()
	f.Seed = 99
	f.Boundaries.Top = &top

	if err := Save(path, f); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Seed != 99 {
		t.Fatalf("expected seed to round-trip, got %d", got.Seed)
	}
	if got.Boundaries.Top == nil || *got.Boundaries.Top != 64 {
		t.Fatalf("expected boundary pointer to round-trip, got %+v", got.Boundaries.Top)
	}
}

func TestToWorldConfigRoundTrip(t *testing.T) {
	f := Default()
	f.Seed = 7
	cfg := f.ToWorldConfig()
	back := FromWorldConfig(cfg)
	if back.Seed != 7 {
		t.Fatalf("expected seed to survive the world.Config round trip, got %d", back.Seed)
	}
}
