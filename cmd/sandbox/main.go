// Command sandbox is a headless demo binary wiring the chunked texel
// store, the simulation tick, the contour extractor, the Perlin generator
// and the operator console together, grounded on the teacher's top-level
// server wiring conventions (TOML config, slog logging, a console bound to
// the running instance).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/vev-sand/grainworld/config"
	"github.com/vev-sand/grainworld/console"
	"github.com/vev-sand/grainworld/contour"
	"github.com/vev-sand/grainworld/generator"
	"github.com/vev-sand/grainworld/geom"
	"github.com/vev-sand/grainworld/material"
	"github.com/vev-sand/grainworld/sim"
	"github.com/vev-sand/grainworld/world"
)

const (
	solidID   uint8 = 1
	stoneID   uint8 = 2
	liquidID  uint8 = 3
	gasID     uint8 = 4
	preloadRadius = 2
)

func main() {
	configPath := flag.String("config", "world.toml", "path to the TOML tuning file")
	flag.Parse()

	log := slog.Default()

	file, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}

	reg := buildRegistry()
	cfg := file.ToWorldConfig()
	cfg.Log = log
	w := world.New(reg, cfg)
	log.Info("world created", "id", w.ID(), "seed", cfg.Seed)

	gen := generator.New(cfg.Seed, solidID, liquidID, gasID)
	gen.Bind(w)
	for y := -preloadRadius; y <= preloadRadius; y++ {
		for x := -preloadRadius; x <= preloadRadius; x++ {
			w.LoadChunk(geom.Vector2I{X: int32(x), Y: int32(y)}, gen)
		}
	}

	simulation := sim.NewSimulation(w)
	cache := contour.NewCache()
	scheduler := sim.NewScheduler()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go runEventDrain(ctx, w, reg, cache, scheduler, log)

	c := console.New(w, simulation, log)
	c.Run(ctx)
}

// runEventDrain periodically drains TerrainEvents and refreshes the
// contour cache and chunk textures for anything the tick touched,
// simulating the EventDrain -> CollisionSync -> SpriteSync pipeline stages
// described for an embedding host. ChunkRemoved is handled inline;
// TexelsUpdated chunks are pure reads of an already-finished tick, so they
// fan out across scheduler's bounded worker pool instead of running one at
// a time.
func runEventDrain(ctx context.Context, w *world.World, reg *material.Registry, cache *contour.Cache, scheduler *sim.Scheduler, log *slog.Logger) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			events := w.DrainEvents()
			var touched []geom.Vector2I
			rects := make(map[geom.Vector2I]geom.ChunkRect, len(events))
			for _, ev := range events {
				switch ev.Kind {
				case world.ChunkRemoved:
					cache.Forget(ev.Chunk)
				case world.TexelsUpdated:
					touched = append(touched, ev.Chunk)
					rects[ev.Chunk] = ev.Rect
				}
			}
			if len(touched) == 0 {
				continue
			}
			err := scheduler.RunReadOnly(ctx, touched, func(pos geom.Vector2I) error {
				c := w.Chunk(pos)
				if c == nil {
					return nil
				}
				islands := cache.Get(pos, rects[pos], func() []contour.Island {
					return contour.Extract(c, reg)
				})
				_ = c.TextureRGBA(reg)
				log.Debug("chunk updated", "chunk", pos, "islands", len(islands))
				return nil
			})
			if err != nil {
				log.Error("parallel contour pass", "err", err)
			}
		}
	}
}

func buildRegistry() *material.Registry {
	return material.NewRegistry(
		material.Behavior{ID: solidID, Name: "sand", Form: material.Solid, HasCollision: true,
			Gravity: material.Gravity{Dir: material.GravityDown, Strength: 255}},
		material.Behavior{ID: stoneID, Name: "stone", Form: material.Solid, HasCollision: true},
		material.Behavior{ID: liquidID, Name: "water", Form: material.Liquid,
			Gravity: material.Gravity{Dir: material.GravityDown, Strength: 200}},
		material.Behavior{ID: gasID, Name: "steam", Form: material.Gas,
			Gravity: material.Gravity{Dir: material.GravityUp, Strength: 180}},
	)
}
