package threadsafe

import "sync"

// Cache memoizes computed values by key. Concurrent GetOrCompute calls on the
// same absent key may run the compute function more than once; the results
// must therefore converge (idempotent computes only).
type Cache[K comparable, V any] struct {
	inner map[K]V
	mux   *sync.Mutex
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		inner: make(map[K]V),
		mux:   &sync.Mutex{},
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	value, ok := c.inner[key]
	return value, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.inner[key] = value
}

func (c *Cache[K, V]) GetOrCompute(key K, compute func() V) V {
	c.mux.Lock()
	if value, ok := c.inner[key]; ok {
		c.mux.Unlock()
		return value
	}
	c.mux.Unlock()

	value := compute()

	c.mux.Lock()
	defer c.mux.Unlock()
	if existing, ok := c.inner[key]; ok {
		return existing
	}
	c.inner[key] = value
	return value
}

func (c *Cache[K, V]) Len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.inner)
}
