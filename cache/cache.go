package cache

import (
	"time"

	"github.com/karlseguin/ccache/v3"
)

// ICache is a generic interface for a cache implementation.
type ICache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T, ttl ...time.Duration)
	Fetch(key string, fetch func() (T, error), ttl ...time.Duration) (T, error)
	Delete(key string)
	Clear()
	Len() int
}

type inMemoryCache[T any] struct {
	cache      *ccache.Cache[T]
	defaultTTL time.Duration
}

// NewInMemoryCache creates an in-memory cache holding at most size items.
func NewInMemoryCache[T any](size int64, defaultTTL time.Duration) ICache[T] {
	return &inMemoryCache[T]{
		cache:      ccache.New(ccache.Configure[T]().MaxSize(size)),
		defaultTTL: defaultTTL,
	}
}

func (c *inMemoryCache[T]) ttl(ttl []time.Duration) time.Duration {
	if len(ttl) > 0 && ttl[0] > 0 {
		return ttl[0]
	}
	return c.defaultTTL
}

// Get retrieves an item from the cache by its key.
func (c *inMemoryCache[T]) Get(key string) (T, bool) {
	item := c.cache.Get(key)
	if item == nil || item.Expired() {
		var zero T
		return zero, false
	}
	return item.Value(), true
}

// Set stores value under key with the default or the given ttl.
func (c *inMemoryCache[T]) Set(key string, value T, ttl ...time.Duration) {
	c.cache.Set(key, value, c.ttl(ttl))
}

// Fetch returns the cached value or stores the result of fetch. Errors are
// not cached.
func (c *inMemoryCache[T]) Fetch(key string, fetch func() (T, error), ttl ...time.Duration) (T, error) {
	item, err := c.cache.Fetch(key, c.ttl(ttl), func() (T, error) {
		return fetch()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return item.Value(), nil
}

// Delete removes an item from the cache by its key.
func (c *inMemoryCache[T]) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all items from the cache.
func (c *inMemoryCache[T]) Clear() {
	c.cache.Clear()
}

// Len returns the number of items currently in the cache.
func (c *inMemoryCache[T]) Len() int {
	return c.cache.ItemCount()
}
