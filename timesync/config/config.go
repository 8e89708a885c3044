package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("timesync: invalid config")

// Config specifies the transport synchronization parameters.
type Config struct {
	// Tolerance is the drift beyond which the transport is corrected.
	Tolerance time.Duration `mapstructure:"tolerance"`
	// Lookahead is how far ahead a smooth seek lands before restarting the transport.
	Lookahead time.Duration `mapstructure:"lookahead"`
	// LoopInterval is the base period of the drift check loop.
	LoopInterval time.Duration `mapstructure:"loop-interval"`
	// LoopJitter bounds the uniform jitter added to each loop period.
	LoopJitter time.Duration `mapstructure:"loop-jitter"`
	// TempoEpsilon is the smallest remote tempo change (BPM) that notifies observers.
	TempoEpsilon float64 `mapstructure:"tempo-epsilon"`
}

// DefaultConfig defines the default timesync configuration.
func DefaultConfig() Config {
	return Config{
		Tolerance:    50 * time.Millisecond,
		Lookahead:    50 * time.Millisecond,
		LoopInterval: 250 * time.Millisecond,
		LoopJitter:   50 * time.Millisecond,
		TempoEpsilon: 0.1,
	}
}

// Validate checks that the loop can never be scheduled with a non-positive
// period and that a smooth seek cannot itself exceed the tolerance.
func (c Config) Validate() error {
	switch {
	case c.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance %v", ErrInvalidConfig, c.Tolerance)
	case c.Lookahead < 0 || c.Lookahead > c.Tolerance:
		return fmt.Errorf("%w: lookahead %v must be within [0, tolerance]", ErrInvalidConfig, c.Lookahead)
	case c.LoopJitter < 0 || c.LoopJitter >= c.LoopInterval:
		return fmt.Errorf("%w: loop jitter %v must be within [0, interval %v)",
			ErrInvalidConfig, c.LoopJitter, c.LoopInterval)
	case c.TempoEpsilon < 0:
		return fmt.Errorf("%w: tempo epsilon %v", ErrInvalidConfig, c.TempoEpsilon)
	}
	return nil
}
