package services

import (
	"context"
	"sync"
	"time"
)

// InFlightGuard marks a key as busy so a second transition on the same
// booking is refused while the first is still running.
type InFlightGuard interface {
	// Acquire returns false when the key is already held.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type MemoryInFlightGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	held map[string]time.Time
}

func NewMemoryInFlightGuard(ttl time.Duration) *MemoryInFlightGuard {
	return &MemoryInFlightGuard{ttl: ttl, held: make(map[string]time.Time)}
}

func (g *MemoryInFlightGuard) Acquire(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if until, ok := g.held[key]; ok && now.Before(until) {
		return false, nil
	}
	g.held[key] = now.Add(g.ttl)
	return true, nil
}

func (g *MemoryInFlightGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}
