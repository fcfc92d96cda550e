package flash

import (
	"sync"
	"time"

	"github.com/tradex/exchange-service/internal/metrics"
)

// Registry owns one Store per browser session.
type Registry struct {
	mu              sync.Mutex
	clock           Clock
	defaultDuration time.Duration
	stores          map[string]*Store
}

func NewRegistry(clock Clock, defaultDuration time.Duration) *Registry {
	if clock == nil {
		clock = SystemClock
	}
	return &Registry{
		clock:           clock,
		defaultDuration: defaultDuration,
		stores:          make(map[string]*Store),
	}
}

// Get returns the store for sessionID, creating it on first use. Getting a
// store counts as activity, so Sweep will not close it under the caller.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[sessionID]; ok && s.touch() {
		return s
	}
	s := NewStore(r.clock, r.defaultDuration)
	r.stores[sessionID] = s
	metrics.FlashActiveSessions.Set(float64(len(r.stores)))
	return s
}

// Drop closes and forgets the store for sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	s, ok := r.stores[sessionID]
	delete(r.stores, sessionID)
	metrics.FlashActiveSessions.Set(float64(len(r.stores)))
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Sweep drops stores that are empty, unobserved and untouched for maxIdle.
// It returns the number of stores dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.clock.Now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Store
	for id, s := range r.stores {
		lastUsed, idle := s.idleSince()
		if idle && lastUsed.Before(cutoff) {
			stale = append(stale, s)
			delete(r.stores, id)
		}
	}
	metrics.FlashActiveSessions.Set(float64(len(r.stores)))
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Close tears down every store.
func (r *Registry) Close() {
	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[string]*Store)
	metrics.FlashActiveSessions.Set(0)
	r.mu.Unlock()

	for _, s := range stores {
		s.Close()
	}
}
