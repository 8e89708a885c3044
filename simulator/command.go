package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tempomesh/go-tempomesh/cmd"
	"github.com/tempomesh/go-tempomesh/config"
	"github.com/tempomesh/go-tempomesh/config/presets"
	"github.com/tempomesh/go-tempomesh/log"
	"github.com/tempomesh/go-tempomesh/metrics"
	"github.com/tempomesh/go-tempomesh/replica"
	"github.com/tempomesh/go-tempomesh/timeline"
)

// GetCommand returns the root tempomesh command.
func GetCommand() *cobra.Command {
	return newCommand(afero.NewOsFs())
}

func newCommand(fs afero.Fs) *cobra.Command {
	conf := config.DefaultConfig()
	c := &cobra.Command{
		Use:           "tempomesh",
		Short:         "keep the transports of several clients playing in time",
		SilenceErrors: true,
	}
	cmd.AddFlags(c.PersistentFlags(), &conf)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run a session between simulated clients",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := configure(c, &conf); err != nil {
				return err
			}
			return simulate(c, fs, &conf)
		},
	}
	c.AddCommand(simulateCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "print a document snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			snap, err := replica.LoadSnapshot(fs, args[0])
			if err != nil {
				return err
			}
			c.SilenceUsage = true
			return printSnapshot(c, snap, time.Now())
		},
	}
	c.AddCommand(inspectCmd)

	// versionCmd returns the current version of tempomesh.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintln(c.OutOrStdout(), cmd.Version)
		},
	}
	c.AddCommand(versionCmd)

	return c
}

// configure applies the preset, then the config file, then the flags given on the command line.
func configure(c *cobra.Command, conf *config.Config) error {
	changed := map[string]string{}
	c.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := loadConfig(conf, conf.Preset, conf.ConfigFile); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	for name, value := range changed {
		if err := c.Flags().Set(name, value); err != nil {
			return fmt.Errorf("apply flag %s: %w", name, err)
		}
	}
	return nil
}

// loadConfig loads the preset (if provided) and overrides it with values from the config file.
func loadConfig(cfg *config.Config, preset, path string) error {
	if len(preset) > 0 {
		p, err := presets.Get(preset)
		if err != nil {
			return err
		}
		*cfg = p
		cfg.Preset = preset
		cfg.ConfigFile = path
	}
	return config.LoadConfig(path, cfg)
}

func newLogger(name, level, encoder string) (*zap.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%s logger: %w", name, err)
	}
	return log.New(name, lvl, encoder), nil
}

func newLoggers(conf config.LoggerConfig) (Loggers, *zap.Logger, error) {
	var (
		loggers Loggers
		err     error
	)
	for _, l := range []struct {
		logger **zap.Logger
		name   string
		level  string
	}{
		{&loggers.App, "simulator", conf.AppLoggerLevel},
		{&loggers.TimeSync, "timesync", conf.TimeSyncLoggerLevel},
		{&loggers.Replica, "replica", conf.ReplicaLoggerLevel},
		{&loggers.Session, "session", conf.SessionLoggerLevel},
	} {
		if *l.logger, err = newLogger(l.name, l.level, conf.Encoder); err != nil {
			return Loggers{}, nil, err
		}
	}
	metricsLogger, err := newLogger("metrics", conf.MetricsLoggerLevel, conf.Encoder)
	if err != nil {
		return Loggers{}, nil, err
	}
	return loggers, metricsLogger, nil
}

func loadScript(fs afero.Fs, path string) ([]Step, error) {
	if path == "" {
		return DefaultScript(), nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	steps, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return steps, nil
}

func simulate(c *cobra.Command, fs afero.Fs, conf *config.Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	loggers, metricsLogger, err := newLoggers(conf.LOGGING)
	if err != nil {
		return err
	}
	script, err := loadScript(fs, conf.Simulation.Script)
	if err != nil {
		return err
	}
	// Don't print usage on error from this point forward
	c.SilenceUsage = true

	// os.Interrupt for all systems, syscall.SIGTERM is mainly for docker.
	ctx, cancel := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()

	var eg errgroup.Group
	if conf.CollectMetrics {
		srv, err := metrics.NewServer(metricsLogger, fmt.Sprintf(":%d", conf.MetricsPort))
		if err != nil {
			return err
		}
		eg.Go(func() error {
			return srv.Run(metricsCtx)
		})
	}
	if conf.MetricsPush != "" {
		session := uuid.NewString()
		eg.Go(func() error {
			metrics.PushMetrics(metricsCtx, metricsLogger, conf.MetricsPush, nil, conf.MetricsPushPeriod, session)
			return nil
		})
	}

	sim := New(*conf,
		WithLoggers(loggers),
		WithScript(script),
		WithFs(fs),
		WithOutput(c.OutOrStdout()),
	)
	report, err := sim.Run(ctx)
	stopMetrics()
	if merr := eg.Wait(); merr != nil {
		err = errors.Join(err, merr)
	}
	if report != nil {
		fmt.Fprintln(c.OutOrStdout(), "final")
		if perr := report.Print(c.OutOrStdout()); perr != nil {
			err = errors.Join(err, perr)
		}
	}
	return err
}

func printSnapshot(c *cobra.Command, snap replica.Snapshot, now time.Time) error {
	v := timeline.ToVector(snap.State, now)
	_, err := fmt.Fprintf(c.OutOrStdout(),
		"origin:   %s\nlamport:  %d\nsaved at: %s\nstate:    %s\nposition: %.3f\nvector:   position=%.3f velocity=%g timestamp=%.3f\n",
		snap.Origin, snap.Lamport, snap.SavedAt.Format(time.RFC3339Nano), snap.State,
		snap.State.Position(now), v.Position, v.Velocity, v.Timestamp,
	)
	return err
}
