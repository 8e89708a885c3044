package cmd

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/tempomesh/go-tempomesh/config"
)

func TestAddFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet, &cfg)

	require.NoError(t, flagSet.Parse([]string{
		"-c", "tempomesh.toml",
		"--clients", "5",
		"--latency", "120ms",
		"--loop-interval", "500ms",
		"--publish-rate", "2.5",
		"--log-encoder", "json",
		"--tempo-epsilon", "0.5",
		"--publish-burst", "4",
		"--dedup-window", "256",
	}))
	require.Equal(t, "tempomesh.toml", cfg.ConfigFile)
	require.Equal(t, 5, cfg.Simulation.Clients)
	require.Equal(t, 120*time.Millisecond, cfg.Replica.Latency)
	require.Equal(t, 500*time.Millisecond, cfg.TimeSync.LoopInterval)
	require.Equal(t, 2.5, cfg.Session.PublishRate)
	require.Equal(t, config.JSONLogEncoder, cfg.LOGGING.Encoder)
	require.Equal(t, 0.5, cfg.TimeSync.TempoEpsilon)
	require.Equal(t, 4, cfg.Session.PublishBurst)
	require.Equal(t, 256, cfg.Replica.DedupWindow)
	// untouched values keep their defaults
	require.Equal(t, config.DefaultConfig().Simulation.Duration, cfg.Simulation.Duration)
}
