package cache_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iden3/go-ecdsa-membership/cache"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactExpiry(t *testing.T) {
	c := cache.NewInMemoryCache[[]byte](10, 100*time.Millisecond)

	c.Set("membership.circuit", []byte("circuit"))
	c.Set("prover.wasm", []byte("module"), time.Minute)

	b, ok := c.Get("membership.circuit")
	require.True(t, ok)
	assert.Equal(t, []byte("circuit"), b)

	time.Sleep(200 * time.Millisecond)

	_, ok = c.Get("membership.circuit")
	assert.False(t, ok, "default ttl should have expired the circuit")
	b, ok = c.Get("prover.wasm")
	require.True(t, ok, "explicit ttl should outlive the default")
	assert.Equal(t, []byte("module"), b)
}

func TestFetchServesFromCache(t *testing.T) {
	c := cache.NewInMemoryCache[[]byte](10, time.Minute)

	var calls int32
	load := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("circuit"), nil
	}

	for i := 0; i < 3; i++ {
		b, err := c.Fetch("membership.circuit", load)
		require.NoError(t, err)
		assert.Equal(t, []byte("circuit"), b)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRefreshesExpired(t *testing.T) {
	c := cache.NewInMemoryCache[[]byte](10, time.Minute)

	version := 0
	load := func() ([]byte, error) {
		version++
		return []byte{byte(version)}, nil
	}

	b, err := c.Fetch("k", load, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, b)

	time.Sleep(100 * time.Millisecond)

	b, err = c.Fetch("k", load, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, b)
}

func TestFetchErrorIsNotCached(t *testing.T) {
	c := cache.NewInMemoryCache[[]byte](10, time.Minute)

	failure := errors.New("gateway timeout")
	_, err := c.Fetch("k", func() ([]byte, error) { return nil, failure })
	require.ErrorIs(t, err, failure)

	_, ok := c.Get("k")
	assert.False(t, ok)

	b, err := c.Fetch("k", func() ([]byte, error) { return []byte("circuit"), nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("circuit"), b)
}

func TestConcurrentFetch(t *testing.T) {
	c := cache.NewInMemoryCache[[]byte](10, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.Fetch("membership.circuit", func() ([]byte, error) {
				return []byte("circuit"), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, []byte("circuit"), b)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
