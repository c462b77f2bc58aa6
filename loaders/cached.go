package loaders

import (
	"context"
	"time"

	"github.com/iden3/go-ecdsa-membership/cache"
	"github.com/iden3/go-ecdsa-membership/constants"
	"golang.org/x/sync/singleflight"
)

// CachedLoader keeps loaded artifacts in memory. Concurrent loads of the same
// location share one underlying call.
type CachedLoader struct {
	loader   ArtifactLoader
	cache    cache.ICache[[]byte]
	ttl      time.Duration
	useCache bool
	group    singleflight.Group
}

// NewCachedLoader wraps DefaultLoader with an in-memory cache.
// Use options to customize behavior:
//   - WithLoader to load from somewhere else
//   - WithCache to share a cache between loaders
//   - WithCacheDisabled to always hit the underlying loader
//
// Example:
//
//	loader := NewCachedLoader(WithLoader(FSLoader{Dir: "/path/to/circuits"}))
func NewCachedLoader(opts ...Option) *CachedLoader {
	l := &CachedLoader{
		loader:   DefaultLoader{},
		ttl:      constants.ArtifactCacheTTL,
		useCache: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.useCache && l.cache == nil {
		l.cache = cache.NewInMemoryCache[[]byte](constants.DefaultCacheMaxSize, l.ttl)
	}
	return l
}

// Option defines functional option for configuring CachedLoader
type Option func(*CachedLoader)

// WithLoader sets the loader artifacts are fetched with on a cache miss.
func WithLoader(loader ArtifactLoader) Option {
	return func(l *CachedLoader) {
		l.loader = loader
	}
}

// WithCache sets the cache implementation.
func WithCache(c cache.ICache[[]byte]) Option {
	return func(l *CachedLoader) {
		l.cache = c
	}
}

// WithTTL sets how long artifacts stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(l *CachedLoader) {
		l.ttl = ttl
	}
}

// WithCacheDisabled disables caching of loaded artifacts
func WithCacheDisabled() Option {
	return func(l *CachedLoader) {
		l.useCache = false
		l.cache = nil
	}
}

// Load implements ArtifactLoader. A shared load runs detached from any one
// caller's context, so a caller that gives up only stops waiting and the
// artifact still lands in the cache for the others.
func (l *CachedLoader) Load(ctx context.Context, location string) ([]byte, error) {
	if !l.useCache {
		return l.loader.Load(ctx, location)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b, ok := l.cache.Get(location); ok {
		return b, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := l.group.DoChan(location, func() (interface{}, error) {
		return l.cache.Fetch(location, func() ([]byte, error) {
			return l.loader.Load(detached, location)
		}, l.ttl)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}
