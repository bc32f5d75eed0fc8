package utils

import "time"

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 100 * time.Millisecond
	defaultMultiplier   = 2.0
)

// RetryConfig controls exponential backoff. Zero values fall back to the
// defaults above; MaxDelay of zero means unbounded.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func (cfg RetryConfig) normalized() RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = defaultInitialDelay
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = defaultMultiplier
	}
	return cfg
}

// Retry runs fn until it succeeds or MaxAttempts is exhausted, sleeping
// between attempts. The last error is returned on exhaustion.
func Retry(cfg RetryConfig, fn func() error) error {
	cfg = cfg.normalized()

	var err error
	delay := cfg.InitialDelay
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
