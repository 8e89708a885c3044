package session

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("session: invalid config")

// Config specifies how transport changes made by the user are published.
type Config struct {
	// PublishRate is the sustained number of publishes per second.
	PublishRate float64 `mapstructure:"publish-rate"`
	// PublishBurst is the number of publishes allowed back to back.
	PublishBurst int `mapstructure:"publish-burst"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		PublishRate:  10,
		PublishBurst: 1,
	}
}

// Validate checks that the limiter can admit at least one publish.
func (c Config) Validate() error {
	if c.PublishRate <= 0 || c.PublishBurst <= 0 {
		return fmt.Errorf("%w: publish rate %v burst %d", ErrInvalidConfig, c.PublishRate, c.PublishBurst)
	}
	return nil
}
