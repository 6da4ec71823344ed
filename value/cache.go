package value

import (
	"encoding/binary"
	"expvar"
	"math"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

var (
	cacheHits    = expvar.NewInt("value/cache_hits")
	cacheMisses  = expvar.NewInt("value/cache_misses")
	cacheHitRate = expvar.NewFloat("value/cache_hit_rate")
)

// Cached memoizes a Function by encoding in an LRU cache.
type Cached struct {
	fn    Function
	cache *lru.Cache
}

// NewCached returns fn wrapped with an LRU cache of the given size.
func NewCached(fn Function, size int) (*Cached, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "create value cache")
	}

	return &Cached{fn: fn, cache: cache}, nil
}

// Value implements Function.
func (c *Cached) Value(encoding []float64) ([]float64, error) {
	key := encodingKey(encoding)
	if cached, ok := c.cache.Get(key); ok {
		cacheHits.Add(1)
		updateHitRate()
		return copyOf(cached.([]float64)), nil
	}

	cacheMisses.Add(1)
	updateHitRate()
	result, err := c.fn.Value(encoding)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, copyOf(result))
	return result, nil
}

// Purge empties the cache. It must be called when the wrapped function
// changes, e.g. after learning.
func (c *Cached) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached encodings.
func (c *Cached) Len() int {
	return c.cache.Len()
}

func updateHitRate() {
	hits, misses := cacheHits.Value(), cacheMisses.Value()
	cacheHitRate.Set(float64(hits) / float64(hits+misses))
}

func encodingKey(encoding []float64) string {
	buf := make([]byte, 8*len(encoding))
	for i, x := range encoding {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(x))
	}

	return string(buf)
}

func copyOf(v []float64) []float64 {
	return append([]float64(nil), v...)
}
