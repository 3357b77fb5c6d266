package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"globalupi/internal/core/ports"
)

// RateLimitStore implements ports.RateLimitStore in process memory.
// Same fixed-window scheme as the Redis store; stale windows are swept on access.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]int64
	expiry  map[string]int64
	now     func() time.Time
}

// NewRateLimitStore creates an empty in-memory rate limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		windows: make(map[string]int64),
		expiry:  make(map[string]int64),
		now:     time.Now,
	}
}

// Allow counts one request against key in the current window.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	windowSecs := int64(window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}
	now := s.now().Unix()
	windowID := now / windowSecs
	resetAt := (windowID + 1) * windowSecs
	k := fmt.Sprintf("%s:%d", key, windowID)

	s.mu.Lock()
	for stale, exp := range s.expiry {
		if exp <= now {
			delete(s.expiry, stale)
			delete(s.windows, stale)
		}
	}
	s.windows[k]++
	s.expiry[k] = resetAt
	count := s.windows[k]
	s.mu.Unlock()

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &ports.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
