package loaders

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockArtifactLoader implements ArtifactLoader for testing
type MockArtifactLoader struct {
	artifacts map[string][]byte
	err       error
	calls     int32
	// release, when set, holds every load until it is closed.
	release chan struct{}
}

func (m *MockArtifactLoader) Load(ctx context.Context, location string) ([]byte, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.release != nil {
		<-m.release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if b, ok := m.artifacts[location]; ok {
		return b, nil
	}
	return nil, ErrArtifactNotFound
}

func TestFSLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "membership.circuit"), []byte("circuit"), 0o600))

	l := FSLoader{Dir: dir}
	b, err := l.Load(context.Background(), "membership.circuit")
	require.NoError(t, err)
	assert.Equal(t, []byte("circuit"), b)

	b, err = FSLoader{}.Load(context.Background(), filepath.Join(dir, "membership.circuit"))
	require.NoError(t, err)
	assert.Equal(t, []byte("circuit"), b)

	_, err = l.Load(context.Background(), "missing.circuit")
	assert.True(t, errors.Is(err, ErrArtifactNotFound))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Load(ctx, "membership.circuit")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDefaultLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.circuit")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o600))

	tests := []struct {
		name     string
		location string
		want     []byte
		wantErr  bool
	}{
		{name: "plain path", location: path, want: []byte("local")},
		{name: "file scheme", location: "file://" + path, want: []byte("local")},
		{name: "unsupported scheme", location: "ftp://example.com/x", wantErr: true},
		{name: "ipfs without gateway", location: "ipfs://QmHash", wantErr: true},
		{name: "empty", location: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := DefaultLoader{}.Load(context.Background(), tt.location)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestCachedLoader(t *testing.T) {
	t.Run("serves repeated loads from cache", func(t *testing.T) {
		mock := &MockArtifactLoader{artifacts: map[string][]byte{"a": []byte("1")}}
		l := NewCachedLoader(WithLoader(mock))

		for i := 0; i < 3; i++ {
			b, err := l.Load(context.Background(), "a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), b)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&mock.calls))
	})

	t.Run("does not cache failures", func(t *testing.T) {
		mock := &MockArtifactLoader{artifacts: map[string][]byte{}}
		l := NewCachedLoader(WithLoader(mock))

		_, err := l.Load(context.Background(), "a")
		assert.True(t, errors.Is(err, ErrArtifactNotFound))

		mock.artifacts["a"] = []byte("1")
		b, err := l.Load(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), b)
	})

	t.Run("without cache", func(t *testing.T) {
		mock := &MockArtifactLoader{artifacts: map[string][]byte{"a": []byte("1")}}
		l := NewCachedLoader(WithLoader(mock), WithCacheDisabled())
		assert.Nil(t, l.cache)

		for i := 0; i < 2; i++ {
			_, err := l.Load(context.Background(), "a")
			require.NoError(t, err)
		}
		assert.Equal(t, int32(2), atomic.LoadInt32(&mock.calls))
	})

	t.Run("cancelled caller does not fail the shared load", func(t *testing.T) {
		mock := &MockArtifactLoader{
			artifacts: map[string][]byte{"a": []byte("1")},
			release:   make(chan struct{}),
		}
		l := NewCachedLoader(WithLoader(mock))

		ctx, cancel := context.WithCancel(context.Background())
		first := make(chan error, 1)
		go func() {
			_, err := l.Load(ctx, "a")
			first <- err
		}()
		require.Eventually(t, func() bool {
			return atomic.LoadInt32(&mock.calls) == 1
		}, time.Second, time.Millisecond)

		second := make(chan []byte, 1)
		go func() {
			b, err := l.Load(context.Background(), "a")
			assert.NoError(t, err)
			second <- b
		}()

		cancel()
		assert.ErrorIs(t, <-first, context.Canceled)

		close(mock.release)
		assert.Equal(t, []byte("1"), <-second)

		b, err := l.Load(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), b)
		assert.Equal(t, int32(1), atomic.LoadInt32(&mock.calls))

		_, err = l.Load(ctx, "a")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrent loads", func(t *testing.T) {
		mock := &MockArtifactLoader{artifacts: map[string][]byte{"a": []byte("1")}}
		l := NewCachedLoader(WithLoader(mock))

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b, err := l.Load(context.Background(), "a")
				assert.NoError(t, err)
				assert.Equal(t, []byte("1"), b)
			}()
		}
		wg.Wait()
		assert.LessOrEqual(t, atomic.LoadInt32(&mock.calls), int32(16))
	})
}
