package passes

import (
	"hash/fnv"
	"sync"
)

// cacheKey identifies one (pass name, word stream) pair. The word
// stream itself is hashed rather than kept whole as a map key — a
// SPIR-V module can be tens of thousands of words, and the core may
// call the same pass repeatedly against output that has not changed.
type cacheKey struct {
	name string
	hash uint64
}

// Cache memoizes successful Adapter results keyed on an FNV-1a hash of
// the input word stream, matching spec.md §4.7: "caches results keyed
// on the SPIR-V word vector". A zero Cache is ready to use.
type Cache struct {
	mu      sync.Mutex
	results map[cacheKey]Result
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{results: make(map[cacheKey]Result)}
}

func hashWords(spirvWords []byte) uint64 {
	h := fnv.New64a()
	h.Write(spirvWords)
	return h.Sum64()
}

func (c *Cache) lookup(name string, spirvWords []byte) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results == nil {
		return Result{}, false
	}
	r, ok := c.results[cacheKey{name: name, hash: hashWords(spirvWords)}]
	return r, ok
}

func (c *Cache) store(name string, spirvWords []byte, result Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results == nil {
		c.results = make(map[cacheKey]Result)
	}
	c.results[cacheKey{name: name, hash: hashWords(spirvWords)}] = result
}
