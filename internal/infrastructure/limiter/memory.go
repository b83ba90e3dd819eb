package limiter

import (
	"sync"
	"time"

	"github.com/celebco/backend/internal/domain"
)

// clientEntry holds the admission times of a client's requests inside the
// current window, oldest first
type clientEntry struct {
	hits     []time.Time
	lastSeen time.Time
}

// Config holds the per-client budget
type Config struct {
	Requests int           // requests allowed per window
	Window   time.Duration // window length
	IdleTTL  time.Duration // evict clients idle longer than this
}

// MemoryStore is a thread-safe in-memory sliding-window log per client
type MemoryStore struct {
	data     map[string]*clientEntry
	mutex    sync.Mutex
	requests int
	window   time.Duration
	idleTTL  time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

var _ domain.LimiterStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new limiter store. Each client may make at most
// cfg.Requests requests in any cfg.Window long period.
func NewMemoryStore(cfg Config) *MemoryStore {
	requests := cfg.Requests
	if requests <= 0 {
		requests = 5
	}

	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	idleTTL := cfg.IdleTTL
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	// An evicted client must not still hold hits inside the window
	if idleTTL < window {
		idleTTL = window
	}

	store := &MemoryStore{
		data:     make(map[string]*clientEntry),
		requests: requests,
		window:   window,
		idleTTL:  idleTTL,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go store.cleanupIdle()

	return store
}

// Allow records a request for key if fewer than the configured number of
// requests were admitted in the trailing window. Rejected requests are not recorded.
func (s *MemoryStore) Allow(key string) (bool, time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	entry, exists := s.data[key]
	if !exists {
		entry = &clientEntry{hits: make([]time.Time, 0, s.requests)}
		s.data[key] = entry
	}
	entry.lastSeen = now

	// Drop hits that have left the window
	windowStart := now.Add(-s.window)
	expired := 0
	for expired < len(entry.hits) && !entry.hits[expired].After(windowStart) {
		expired++
	}
	entry.hits = entry.hits[expired:]

	if len(entry.hits) >= s.requests {
		return false, entry.hits[0].Add(s.window).Sub(now)
	}

	entry.hits = append(entry.hits, now)
	return true, 0
}

// Requests returns the number of requests allowed per window
func (s *MemoryStore) Requests() int {
	return s.requests
}

// cleanupIdle removes idle clients periodically
func (s *MemoryStore) cleanupIdle() {
	ticker := time.NewTicker(s.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.stop:
			return
		}
	}
}

// evictIdle drops clients not seen within idleTTL
func (s *MemoryStore) evictIdle() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	for key, entry := range s.data {
		if entry.lastSeen.Before(cutoff) {
			delete(s.data, key)
		}
	}
}

// Size returns the number of tracked clients (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.data)
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}
