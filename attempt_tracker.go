package gatekeeper

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// MaxLoginAttempts is the failure count at which an account locks
	MaxLoginAttempts = 5
	// DefaultAttemptTTL is the sliding expiry from the last recorded failure
	DefaultAttemptTTL = 15 * time.Minute
	// DefaultTrackerCapacity bounds the number of tracked usernames
	DefaultTrackerCapacity = 100
)

// LoginAttemptTracker is an in-memory, per-username failure counter with a
// sliding TTL and a fixed capacity. It is local to one process instance:
// there is no cross-node coordination. All mutation happens under a single
// mutex so increments for the same key never race; reads use Peek so that
// eviction order stays least-recently-written, not least-recently-read.
type LoginAttemptTracker struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *attemptEntry]
	limit int
	ttl   time.Duration
	now   func() time.Time
}

type attemptEntry struct {
	count     int
	expiresAt time.Time
}

// TrackerOption customizes tracker construction
type TrackerOption func(*trackerConfig)

type trackerConfig struct {
	capacity int
	limit    int
	ttl      time.Duration
	clock    func() time.Time
}

// WithTrackerCapacity overrides the maximum number of tracked usernames
func WithTrackerCapacity(capacity int) TrackerOption {
	return func(cfg *trackerConfig) {
		if capacity > 0 {
			cfg.capacity = capacity
		}
	}
}

// WithTrackerLimit overrides the failure count that locks an account
func WithTrackerLimit(limit int) TrackerOption {
	return func(cfg *trackerConfig) {
		if limit > 0 {
			cfg.limit = limit
		}
	}
}

// WithTrackerTTL overrides the sliding expiry window
func WithTrackerTTL(ttl time.Duration) TrackerOption {
	return func(cfg *trackerConfig) {
		if ttl > 0 {
			cfg.ttl = ttl
		}
	}
}

// WithTrackerClock injects a custom clock (useful for tests)
func WithTrackerClock(clock func() time.Time) TrackerOption {
	return func(cfg *trackerConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// NewLoginAttemptTracker creates a tracker with a bounded LRU cache
func NewLoginAttemptTracker(opts ...TrackerOption) *LoginAttemptTracker {
	cfg := trackerConfig{
		capacity: DefaultTrackerCapacity,
		limit:    MaxLoginAttempts,
		ttl:      DefaultAttemptTTL,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	cache, err := lru.New[string, *attemptEntry](cfg.capacity)
	if err != nil {
		// lru.New only fails on a non-positive size, which the options guard against
		panic(fmt.Sprintf("GATEKEEPER: attempt tracker configuration: %v", err))
	}

	return &LoginAttemptTracker{
		cache: cache,
		limit: cfg.limit,
		ttl:   cfg.ttl,
		now:   cfg.clock,
	}
}

// RecordFailure increments the failure count for username, starting at 1 for
// an absent or expired entry, and resets the expiry window from now.
func (t *LoginAttemptTracker) RecordFailure(username string) {
	if username == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	count := 1
	if entry, ok := t.cache.Peek(username); ok && t.now().Before(entry.expiresAt) {
		count = entry.count + 1
	}

	t.cache.Add(username, &attemptEntry{
		count:     count,
		expiresAt: t.now().Add(t.ttl),
	})
}

// ClearUser removes the entry unconditionally
func (t *LoginAttemptTracker) ClearUser(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Remove(username)
}

// HasExceededLimit reports whether username has reached the failure limit.
// A missing or expired entry counts as zero.
func (t *LoginAttemptTracker) HasExceededLimit(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.cache.Peek(username)
	if !ok {
		return false
	}

	if !t.now().Before(entry.expiresAt) {
		t.cache.Remove(username)
		return false
	}

	return entry.count >= t.limit
}

// Attempts returns the current failure count for username
func (t *LoginAttemptTracker) Attempts(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.cache.Peek(username)
	if !ok || !t.now().Before(entry.expiresAt) {
		return 0
	}
	return entry.count
}

// Len returns the number of tracked usernames, including not yet swept
// expired entries
func (t *LoginAttemptTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cache.Len()
}

var _ AttemptTracker = (*LoginAttemptTracker)(nil)
