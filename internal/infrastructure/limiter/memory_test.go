package limiter

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source
type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

func newTestStore(t *testing.T, cfg Config) (*MemoryStore, *fakeClock) {
	t.Helper()
	store := NewMemoryStore(cfg)
	t.Cleanup(store.Close)

	clock := newFakeClock()
	store.now = clock.Now
	return store, clock
}

func TestNewMemoryStore(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		store := NewMemoryStore(Config{})
		defer store.Close()

		assert.Equal(t, 5, store.Requests())
		assert.Equal(t, time.Minute, store.window)
		assert.Equal(t, 10*time.Minute, store.idleTTL)
	})

	t.Run("uses provided budget", func(t *testing.T) {
		store := NewMemoryStore(Config{Requests: 10, Window: time.Second, IdleTTL: time.Hour})
		defer store.Close()

		assert.Equal(t, 10, store.Requests())
		assert.Equal(t, time.Second, store.window)
		assert.Equal(t, time.Hour, store.idleTTL)
	})

	t.Run("idle ttl never shorter than window", func(t *testing.T) {
		store := NewMemoryStore(Config{Window: time.Hour, IdleTTL: time.Minute})
		defer store.Close()

		assert.Equal(t, time.Hour, store.idleTTL)
	})
}

func TestMemoryStore_Allow(t *testing.T) {
	t.Run("sixth request in the same instant is rejected", func(t *testing.T) {
		store, _ := newTestStore(t, Config{Requests: 5, Window: time.Minute})

		for i := 0; i < 5; i++ {
			allowed, _ := store.Allow("10.0.0.1")
			require.True(t, allowed, "request %d", i+1)
		}

		allowed, retryAfter := store.Allow("10.0.0.1")
		assert.False(t, allowed)
		assert.Equal(t, time.Minute, retryAfter)
	})

	t.Run("requests spread inside the window stay limited", func(t *testing.T) {
		store, clock := newTestStore(t, Config{Requests: 5, Window: time.Minute})
		t0 := clock.Now()

		for i := 0; i < 5; i++ {
			allowed, _ := store.Allow("10.0.0.2")
			require.True(t, allowed, "request %d", i+1)
		}

		for _, offset := range []time.Duration{13 * time.Second, 30 * time.Second, 49 * time.Second, 59 * time.Second} {
			clock.Set(t0.Add(offset))
			allowed, retryAfter := store.Allow("10.0.0.2")
			assert.False(t, allowed, "request at +%s", offset)
			assert.Equal(t, time.Minute-offset, retryAfter, "retry after at +%s", offset)
		}

		clock.Set(t0.Add(61 * time.Second))
		allowed, _ := store.Allow("10.0.0.2")
		assert.True(t, allowed, "request at +61s")
	})

	t.Run("window rolls with the oldest request", func(t *testing.T) {
		store, clock := newTestStore(t, Config{Requests: 2, Window: time.Minute})
		t0 := clock.Now()

		allowed, _ := store.Allow("10.0.0.3")
		require.True(t, allowed)

		clock.Set(t0.Add(40 * time.Second))
		allowed, _ = store.Allow("10.0.0.3")
		require.True(t, allowed)

		clock.Set(t0.Add(50 * time.Second))
		allowed, retryAfter := store.Allow("10.0.0.3")
		assert.False(t, allowed)
		assert.Equal(t, 10*time.Second, retryAfter)

		// first request has left the window, second has not
		clock.Set(t0.Add(61 * time.Second))
		allowed, _ = store.Allow("10.0.0.3")
		assert.True(t, allowed)

		clock.Set(t0.Add(70 * time.Second))
		allowed, retryAfter = store.Allow("10.0.0.3")
		assert.False(t, allowed)
		assert.Equal(t, 30*time.Second, retryAfter)
	})

	t.Run("rejected requests do not extend the wait", func(t *testing.T) {
		store, clock := newTestStore(t, Config{Requests: 1, Window: time.Minute})
		t0 := clock.Now()

		allowed, _ := store.Allow("10.0.0.4")
		require.True(t, allowed)

		for _, offset := range []time.Duration{10 * time.Second, 20 * time.Second, 50 * time.Second} {
			clock.Set(t0.Add(offset))
			allowed, _ = store.Allow("10.0.0.4")
			require.False(t, allowed)
		}

		clock.Set(t0.Add(time.Minute))
		allowed, _ = store.Allow("10.0.0.4")
		assert.True(t, allowed)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		store, _ := newTestStore(t, Config{Requests: 1, Window: time.Minute})

		allowed, _ := store.Allow("10.0.0.5")
		require.True(t, allowed)
		allowed, _ = store.Allow("10.0.0.5")
		assert.False(t, allowed)

		allowed, _ = store.Allow("10.0.0.6")
		assert.True(t, allowed)
	})
}

func TestMemoryStore_ConcurrentAllow(t *testing.T) {
	store := NewMemoryStore(Config{Requests: 5, Window: time.Minute})
	defer store.Close()

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := store.Allow("192.0.2.1"); allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), admitted.Load())
	assert.Equal(t, 1, store.Size())
}

func TestMemoryStore_EvictIdle(t *testing.T) {
	store, clock := newTestStore(t, Config{IdleTTL: 2 * time.Minute})
	t0 := clock.Now()

	store.Allow("old")
	clock.Set(t0.Add(3 * time.Minute))
	store.Allow("fresh")

	store.evictIdle()

	assert.Equal(t, 1, store.Size())
	store.mutex.Lock()
	_, hasOld := store.data["old"]
	_, hasFresh := store.data["fresh"]
	store.mutex.Unlock()
	assert.False(t, hasOld)
	assert.True(t, hasFresh)
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(Config{})
	store.Close()
	assert.NotPanics(t, store.Close)
}
