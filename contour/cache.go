package contour

import (
	"encoding/binary"
	"sync"

	"github.com/segmentio/fasthash/fnv1a"

	"github.com/vev-sand/grainworld/geom"
)

// Cache memoizes Extract results per chunk, keyed by a hash of the chunk's
// dirty rect at the time it was last extracted, so a chunk whose
// TexelsUpdated rect is unchanged since the previous pass is skipped rather
// than re-walking its full 32x32 occupancy. Safe for concurrent use from the
// scheduler's parallel read-only pass (§5).
type Cache struct {
	mu      sync.Mutex
	entries map[geom.Vector2I]cacheEntry
}

type cacheEntry struct {
	key     uint64
	islands []Island
}

// NewCache returns an empty extraction cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[geom.Vector2I]cacheEntry)}
}

// cacheKey fnv1a-hashes a chunk coordinate and its dirty rect into one
// 64-bit key, the cheap fingerprint the cache compares against on the next
// TexelsUpdated for the same chunk.
func cacheKey(pos geom.Vector2I, rect geom.ChunkRect) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(pos.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(pos.Y))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(rect.Min.X))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(rect.Min.Y))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(rect.Max.X))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(rect.Max.Y))
	return fnv1a.HashBytes64(buf[:])
}

// Get returns cached islands for pos if rect matches the fingerprint stored
// on the last call, otherwise calls extract, stores its result and returns
// it fresh.
func (c *Cache) Get(pos geom.Vector2I, rect geom.ChunkRect, extract func() []Island) []Island {
	key := cacheKey(pos, rect)
	c.mu.Lock()
	if e, ok := c.entries[pos]; ok && e.key == key {
		c.mu.Unlock()
		return e.islands
	}
	c.mu.Unlock()

	islands := extract()

	c.mu.Lock()
	c.entries[pos] = cacheEntry{key: key, islands: islands}
	c.mu.Unlock()
	return islands
}

// Forget drops any cached entry for pos, called when a chunk is removed
// from the world so the cache doesn't accumulate unloaded-chunk entries.
func (c *Cache) Forget(pos geom.Vector2I) {
	c.mu.Lock()
	delete(c.entries, pos)
	c.mu.Unlock()
}
