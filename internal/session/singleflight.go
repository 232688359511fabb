package session

import (
	"context"
	"sync"
	"time"
)

// Locker grants short-lived exclusive locks so only one renewal request per
// session is in flight at a time, across replicas when backed by Redis.
type Locker interface {
	// TryLock acquires key for ttl. Returns false when another holder has it.
	TryLock(ctx context.Context, key string, ttl time.Duration) bool
}

// StatusCache remembers recent positive check-status verdicts so the
// per-request validity check does not hammer the backend.
type StatusCache interface {
	MarkValid(ctx context.Context, key string, ttl time.Duration)
	Valid(ctx context.Context, key string) bool
}

// MemoryLocker is the single-process fallback when Redis is not configured.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

// NewMemoryLocker builds an empty locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]time.Time)}
}

// TryLock acquires key unless an unexpired holder exists.
func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return false
	}
	l.held[key] = now.Add(ttl)
	return true
}

// MemoryStatusCache is the single-process fallback status cache.
type MemoryStatusCache struct {
	mu    sync.Mutex
	valid map[string]time.Time
}

// NewMemoryStatusCache builds an empty cache.
func NewMemoryStatusCache() *MemoryStatusCache {
	return &MemoryStatusCache{valid: make(map[string]time.Time)}
}

// MarkValid records a positive verdict for ttl.
func (c *MemoryStatusCache) MarkValid(_ context.Context, key string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid[key] = time.Now().Add(ttl)
}

// Valid reports whether an unexpired positive verdict exists for key.
func (c *MemoryStatusCache) Valid(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	until, ok := c.valid[key]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(c.valid, key)
		return false
	}
	return true
}
