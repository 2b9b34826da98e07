package config

import "time"

type Limits struct {
	MaxAttempts int             `yaml:"max_attempts" validate:"min=1,max=10"`
	RetryDelay  time.Duration   `yaml:"retry_delay" validate:"min=0,max=5m"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	CacheTTL    time.Duration   `yaml:"cache_ttl" validate:"min=0,max=24h"`
}

// RateLimitConfig bounds outbound generation requests. Zero requests per
// minute disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"min=0,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"min=1,max=100"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxAttempts: 3,
		RetryDelay:  8 * time.Second,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			BurstSize:         5,
		},
		CacheTTL: 30 * time.Minute,
	}
}
