package sim

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vev-sand/grainworld/geom"
)

// mortonOrder sorts a slice of chunk coordinates by interleaved-bit (Morton)
// code, the deterministic ordering idiom the teacher's redstone scheduler
// uses for its event queue, adapted here to order dirty chunks instead of
// scheduled block updates. Two runs over the same chunk set always visit
// chunks in the same order, independent of map iteration order.
func mortonOrder(coords []geom.Vector2I) {
	sort.Slice(coords, func(i, j int) bool {
		return mortonCode(coords[i]) < mortonCode(coords[j])
	})
}

// mortonCode interleaves the bits of the zig-zag-encoded (sign-folded)
// coordinate components so negative chunk coordinates sort consistently
// with positive ones.
func mortonCode(c geom.Vector2I) uint64 {
	x := zigzag(c.X)
	y := zigzag(c.Y)
	return interleave(x) | (interleave(y) << 1)
}

func zigzag(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func interleave(v uint32) uint64 {
	x := uint64(v)
	x = (x | (x << 16)) & 0x0000FFFF0000FFFF
	x = (x | (x << 8)) & 0x00FF00FF00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F0F0F0F0F
	x = (x | (x << 2)) & 0x3333333333333333
	x = (x | (x << 1)) & 0x5555555555555555
	return x
}

// Scheduler runs the optional post-tick read-only pass (contour extraction
// and texture building, §5) across a bounded worker pool. It never touches
// the mutating simulation step itself, which stays single-threaded per §5;
// callers hand it the set of chunks a tick's TexelsUpdated events named, and
// it fans out pure reads of that already-finished tick's state.
type Scheduler struct {
	limit int
}

// NewScheduler returns a Scheduler bounded by GOMAXPROCS. A limit of 0 (the
// zero value) means unbounded, matched by errgroup's own zero-Limit meaning.
func NewScheduler() *Scheduler {
	return &Scheduler{limit: runtime.GOMAXPROCS(0)}
}

// RunReadOnly runs fn once per coordinate in coords, concurrently, stopping
// at the first error (errgroup.WithContext semantics). fn must not mutate
// World/Chunk state — only read it and write to caller-owned,
// per-coordinate outputs (a contour cache, a texture buffer).
func (s *Scheduler) RunReadOnly(ctx context.Context, coords []geom.Vector2I, fn func(geom.Vector2I) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	for _, c := range coords {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return fn(c)
		})
	}
	return g.Wait()
}
