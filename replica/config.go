package replica

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("replica: invalid config")

// Config specifies the behavior of the simulated network.
type Config struct {
	// Latency is the mean one-way delivery delay.
	Latency time.Duration `mapstructure:"latency"`
	// LatencyJitter bounds the uniform jitter around Latency.
	LatencyJitter time.Duration `mapstructure:"latency-jitter"`
	// DuplicateRate is the probability that an envelope is delivered twice.
	DuplicateRate float64 `mapstructure:"duplicate-rate"`
	// DedupWindow is the number of envelope ids each replica remembers.
	DedupWindow int `mapstructure:"dedup-window"`
}

// DefaultConfig returns the default network configuration.
func DefaultConfig() Config {
	return Config{
		Latency:       40 * time.Millisecond,
		LatencyJitter: 20 * time.Millisecond,
		DuplicateRate: 0,
		DedupWindow:   1024,
	}
}

// Validate checks that delays are never negative and the rates are probabilities.
func (c Config) Validate() error {
	switch {
	case c.Latency < 0:
		return fmt.Errorf("%w: latency %v", ErrInvalidConfig, c.Latency)
	case c.LatencyJitter < 0 || c.LatencyJitter > c.Latency:
		return fmt.Errorf("%w: latency jitter %v must be within [0, latency %v]",
			ErrInvalidConfig, c.LatencyJitter, c.Latency)
	case c.DuplicateRate < 0 || c.DuplicateRate > 1:
		return fmt.Errorf("%w: duplicate rate %v", ErrInvalidConfig, c.DuplicateRate)
	case c.DedupWindow <= 0:
		return fmt.Errorf("%w: dedup window %d", ErrInvalidConfig, c.DedupWindow)
	}
	return nil
}
