// Package config contains the tempomesh configuration definitions.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/tempomesh/go-tempomesh/replica"
	"github.com/tempomesh/go-tempomesh/session"
	tsconfig "github.com/tempomesh/go-tempomesh/timesync/config"
)

// Config defines the top level configuration of tempomesh.
type Config struct {
	BaseConfig `mapstructure:"main"`
	TimeSync   tsconfig.Config  `mapstructure:"timesync"`
	Replica    replica.Config   `mapstructure:"replica"`
	Session    session.Config   `mapstructure:"session"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	LOGGING    LoggerConfig     `mapstructure:"logging"`
}

// BaseConfig defines the options shared by all commands.
type BaseConfig struct {
	ConfigFile string `mapstructure:"config"`
	Preset     string `mapstructure:"preset"`

	CollectMetrics    bool          `mapstructure:"metrics"`
	MetricsPort       int           `mapstructure:"metrics-port"`
	MetricsPush       string        `mapstructure:"metrics-push"`
	MetricsPushPeriod time.Duration `mapstructure:"metrics-push-period"`
}

// SimulationConfig defines the parameters of a simulated session.
type SimulationConfig struct {
	Clients  int           `mapstructure:"clients"`
	Duration time.Duration `mapstructure:"duration"`
	Tempo    float64       `mapstructure:"tempo"`
	// Script is a file with timed commands. Without it the first client starts playing.
	Script string `mapstructure:"script"`
	// Snapshot is the file the final document state is written to, if set.
	Snapshot       string        `mapstructure:"snapshot"`
	ReportInterval time.Duration `mapstructure:"report-interval"`
	// MaxRateSkew bounds how much faster or slower each simulated device runs.
	MaxRateSkew float64 `mapstructure:"max-rate-skew"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseConfig: defaultBaseConfig(),
		TimeSync:   tsconfig.DefaultConfig(),
		Replica:    replica.DefaultConfig(),
		Session:    session.DefaultConfig(),
		Simulation: defaultSimulationConfig(),
		LOGGING:    defaultLoggingConfig(),
	}
}

func defaultBaseConfig() BaseConfig {
	return BaseConfig{
		MetricsPort:       1010,
		MetricsPushPeriod: 60 * time.Second,
	}
}

func defaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Clients:        3,
		Duration:       10 * time.Second,
		Tempo:          120,
		ReportInterval: time.Second,
		MaxRateSkew:    0.002,
	}
}

// Validate checks every section of the configuration.
func (cfg *Config) Validate() error {
	errs := []error{
		cfg.TimeSync.Validate(),
		cfg.Replica.Validate(),
		cfg.Session.Validate(),
		cfg.Simulation.Validate(),
	}
	if cfg.LOGGING.Encoder != ConsoleLogEncoder && cfg.LOGGING.Encoder != JSONLogEncoder {
		errs = append(errs, fmt.Errorf("unknown log encoder %q", cfg.LOGGING.Encoder))
	}
	return errors.Join(errs...)
}

// Validate checks the simulation parameters.
func (s SimulationConfig) Validate() error {
	switch {
	case s.Clients < 1:
		return fmt.Errorf("simulation needs at least one client, got %d", s.Clients)
	case s.Duration <= 0:
		return fmt.Errorf("simulation duration must be positive, got %v", s.Duration)
	case s.Tempo <= 0:
		return fmt.Errorf("simulation tempo must be positive, got %v", s.Tempo)
	case s.ReportInterval <= 0:
		return fmt.Errorf("report interval must be positive, got %v", s.ReportInterval)
	case s.MaxRateSkew < 0 || s.MaxRateSkew >= 1:
		return fmt.Errorf("max rate skew must be within [0, 1), got %v", s.MaxRateSkew)
	}
	return nil
}

// LoadConfig reads the file at fileLocation, if any, over the values already
// in cfg. Durations are written as strings, e.g. "250ms".
func LoadConfig(fileLocation string, cfg *Config) error {
	if fileLocation == "" {
		return nil
	}
	vip := viper.New()
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", fileLocation, err)
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		WithIgnoreUntagged(),
		WithErrorUnused(),
	}
	if err := vip.Unmarshal(cfg, opts...); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// WithIgnoreUntagged skips struct fields without a mapstructure tag.
func WithIgnoreUntagged() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.IgnoreUntaggedFields = true
	}
}

// WithErrorUnused fails on keys in the file that match no field.
func WithErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}
