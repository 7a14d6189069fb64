package config

import (
	"strconv"
	"time"
)

// RateLimitConfig controls the fixed-window limiter applied to the
// auth endpoints.  When Enabled is false or no Redis client is
// available, the limiter becomes a no-op.
type RateLimitConfig struct {
	Enabled bool
	Max     int           // requests allowed per window
	Window  time.Duration // window length
	Prefix  string        // redis key namespace
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig.  Defaults are used when variables are not set.
func LoadRateLimitConfig() RateLimitConfig {
	window, err := time.ParseDuration(getenv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil || window < time.Second {
		window = time.Minute
	}
	max := 60
	if n, errAtoi := strconv.Atoi(getenv("RATE_LIMIT_MAX", "60")); errAtoi == nil && n > 0 {
		max = n
	}
	return RateLimitConfig{
		Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Max:     max,
		Window:  window,
		Prefix:  getenv("RATE_LIMIT_PREFIX", "ratelimit"),
	}
}
