package disclosure

import (
	"sync"

	"github.com/papapumpkin/atlas/internal/model"
)

// cacheKey identifies a filtered result by the input slice's backing array,
// its length and the band. Collections are replaced, never edited in place,
// so a new slice always produces a new key.
type cacheKey[T any] struct {
	first *T
	n     int
	band  Band
}

type cache[T any] struct {
	key cacheKey[T]
	val []T
	ok  bool
}

func (c *cache[T]) get(in []T, b Band, compute func([]T, Band) []T) []T {
	if len(in) == 0 {
		return nil
	}
	key := cacheKey[T]{first: &in[0], n: len(in), band: b}
	if c.ok && c.key == key {
		return c.val
	}
	c.key, c.val, c.ok = key, compute(in, b), true
	return c.val
}

// Memo caches the most recent visible sets so repeated reads at the same band
// over the same collections do not refilter. It is safe for concurrent use.
type Memo struct {
	mu        sync.Mutex
	caps      cache[model.Capability]
	landmarks cache[model.Landmark]
}

// Capabilities is the memoized form of the package-level Capabilities.
func (m *Memo) Capabilities(caps []model.Capability, zoom float64) []model.Capability {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.caps.get(caps, BandForZoom(zoom), capabilitiesIn)
}

// Landmarks is the memoized form of the package-level Landmarks.
func (m *Memo) Landmarks(landmarks []model.Landmark, zoom float64) []model.Landmark {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.landmarks.get(landmarks, BandForZoom(zoom), landmarksIn)
}
