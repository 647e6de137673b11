// Package config persists the engine's tuning parameters (not simulated
// terrain state, which remains a non-goal) to a TOML file, grounded on the
// teacher's UserConfig/DefaultConfig pair and its Whitelist load/save idiom.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/vev-sand/grainworld/world"
)

// File is the on-disk shape of world.toml: a flat, serialisable mirror of
// world.Config, with the optional boundary fields represented as pointers
// so an absent key in the file means "unbounded" rather than zero.
type File struct {
	Seed             int64
	MaxTargetDensity uint8
	StableThreshold  uint8
	RefreshInterval  int
	RefreshModulus   int
	Boundaries       struct {
		Top, Bottom, Left, Right *int32
	}
}

// Default returns a File populated the same way world.Config.WithDefaults
// would, so a freshly written world.toml documents every tunable even
// before an operator edits it.
func Default() File {
	return File{
		Seed:             0,
		MaxTargetDensity: 25,
		StableThreshold:  3,
		RefreshInterval:  1,
		RefreshModulus:   100,
	}
}

// ToWorldConfig converts a File into a world.Config, leaving Log nil so
// world.Config.WithDefaults fills it with slog.Default().
func (f File) ToWorldConfig() world.Config {
	return world.Config{
		Boundaries: world.Boundaries{
			Top:    f.Boundaries.Top,
			Bottom: f.Boundaries.Bottom,
			Left:   f.Boundaries.Left,
			Right:  f.Boundaries.Right,
		},
		Seed:             f.Seed,
		MaxTargetDensity: f.MaxTargetDensity,
		StableThreshold:  f.StableThreshold,
		RefreshInterval:  f.RefreshInterval,
		RefreshModulus:   f.RefreshModulus,
	}
}

// FromWorldConfig captures the tunable fields of c into a File, ready to
// Save.
func FromWorldConfig(c world.Config) File {
	f := Default()
	f.Seed = c.Seed
	f.MaxTargetDensity = c.MaxTargetDensity
	f.StableThreshold = c.StableThreshold
	f.RefreshInterval = c.RefreshInterval
	f.RefreshModulus = c.RefreshModulus
	f.Boundaries.Top = c.Boundaries.Top
	f.Boundaries.Bottom = c.Boundaries.Bottom
	f.Boundaries.Left = c.Boundaries.Left
	f.Boundaries.Right = c.Boundaries.Right
	return f
}

// Load reads the TOML file at path into a File. If the file does not exist
// yet, it is created with Default() values and that default is returned,
// mirroring LoadWhitelist's create-on-first-run behavior.
func Load(path string) (File, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f := Default()
			return f, Save(path, f)
		}
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	f := Default()
	if len(contents) != 0 {
		if err := toml.Unmarshal(contents, &f); err != nil {
			return File{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	return f, nil
}

// Save writes f to path as TOML, creating its parent directory if needed.
func Save(path string, f File) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("config: create directory for %s: %w", path, err)
		}
	}
	encoded, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
