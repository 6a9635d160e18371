package launchpad

import (
	"strconv"
	"sync"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

// RateLimitConfig is the tunable part of a RateLimiter.
type RateLimitConfig struct {
	Limit   int
	Window  time.Duration
	Enabled bool
}

// RateLimiter enforces a sliding-window limit per key. Keys are typically
// "<actor>:<operation>". The zero value is not usable; construct with
// NewRateLimiter.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	enabled bool
	events  map[string][]time.Time
	clock   func() time.Time
}

// NewRateLimiter creates a limiter allowing limit events per window.
func NewRateLimiter(limit int, window time.Duration, clock func() time.Time) *RateLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &RateLimiter{
		window:  window,
		limit:   limit,
		enabled: true,
		events:  make(map[string][]time.Time),
		clock:   clock,
	}
}

// Config returns the current limiter settings.
func (r *RateLimiter) Config() RateLimitConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RateLimitConfig{Limit: r.limit, Window: r.window, Enabled: r.enabled}
}

// SetConfig replaces the limiter settings. Recorded events are kept, so
// tightening the limit applies to requests already in the window.
func (r *RateLimiter) SetConfig(cfg RateLimitConfig) error {
	if cfg.Limit <= 0 {
		return apperrors.New(apperrors.CodeRateLimitConfigInvalid, "limit must be positive")
	}
	if cfg.Window <= 0 {
		return apperrors.New(apperrors.CodeRateLimitConfigInvalid, "window must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = cfg.Limit
	r.window = cfg.Window
	r.enabled = cfg.Enabled
	return nil
}

// Allow records one event for key and reports whether it is within the
// limit. Events older than the window are discarded.
func (r *RateLimiter) Allow(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled {
		return nil
	}

	now := r.clock()
	cutoff := now.Add(-r.window)

	kept := r.events[key][:0]
	for _, at := range r.events[key] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) >= r.limit {
		r.events[key] = kept
		return apperrors.WithMetadata(
			apperrors.CodeRateLimited,
			"too many requests, try again later",
			map[string]string{
				"Operation": key,
				"Limit":     strconv.Itoa(r.limit),
			},
		)
	}
	r.events[key] = append(kept, now)
	return nil
}

// Reset clears all recorded events for key.
func (r *RateLimiter) Reset(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, key)
}
