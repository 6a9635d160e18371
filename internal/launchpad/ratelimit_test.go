package launchpad

import (
	"testing"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3, time.Minute, func() time.Time { return now })

	for i := range 3 {
		if err := limiter.Allow("inv-1:invest"); err != nil {
			t.Fatalf("Allow() call %d error = %v", i+1, err)
		}
	}
	if err := limiter.Allow("inv-1:invest"); !apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Fatalf("Allow() over limit = %v, want %v", err, apperrors.CodeRateLimited)
	}

	// Other keys are unaffected.
	if err := limiter.Allow("inv-2:invest"); err != nil {
		t.Fatalf("Allow() other key error = %v", err)
	}

	// Old events slide out of the window.
	now = now.Add(61 * time.Second)
	if err := limiter.Allow("inv-1:invest"); err != nil {
		t.Fatalf("Allow() after window error = %v", err)
	}
}

func TestRateLimiterPartialWindow(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute, func() time.Time { return now })

	if err := limiter.Allow("key"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	now = now.Add(40 * time.Second)
	if err := limiter.Allow("key"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	// First event is still inside the window.
	now = now.Add(10 * time.Second)
	if err := limiter.Allow("key"); !apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Fatalf("Allow() = %v, want rate limited", err)
	}
	// First event slides out; second remains.
	now = now.Add(15 * time.Second)
	if err := limiter.Allow("key"); err != nil {
		t.Fatalf("Allow() after slide error = %v", err)
	}
}

func TestRateLimiterReset(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute, func() time.Time { return now })

	if err := limiter.Allow("key"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	limiter.Reset("key")
	if err := limiter.Allow("key"); err != nil {
		t.Fatalf("Allow() after reset error = %v", err)
	}
}

func TestRateLimiterSetConfig(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(3, time.Minute, func() time.Time { return now })

	if err := limiter.SetConfig(RateLimitConfig{Limit: 1, Window: time.Hour, Enabled: true}); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if err := limiter.Allow("key"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if err := limiter.Allow("key"); !apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Fatalf("Allow() = %v, want rate limited under tightened limit", err)
	}

	cfg := limiter.Config()
	if cfg.Limit != 1 || cfg.Window != time.Hour || !cfg.Enabled {
		t.Fatalf("Config() = %+v, want limit 1 window 1h enabled", cfg)
	}
}

func TestRateLimiterSetConfigRejectsInvalid(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute, nil)
	if err := limiter.SetConfig(RateLimitConfig{Limit: 0, Window: time.Minute, Enabled: true}); !apperrors.IsCode(err, apperrors.CodeRateLimitConfigInvalid) {
		t.Fatalf("SetConfig() zero limit = %v, want config invalid", err)
	}
	if err := limiter.SetConfig(RateLimitConfig{Limit: 1, Window: 0, Enabled: true}); !apperrors.IsCode(err, apperrors.CodeRateLimitConfigInvalid) {
		t.Fatalf("SetConfig() zero window = %v, want config invalid", err)
	}
}

func TestRateLimiterDisabledAllowsEverything(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute, func() time.Time { return now })
	if err := limiter.SetConfig(RateLimitConfig{Limit: 1, Window: time.Minute, Enabled: false}); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	for i := range 5 {
		if err := limiter.Allow("key"); err != nil {
			t.Fatalf("Allow() call %d with limiter disabled = %v", i+1, err)
		}
	}
}
