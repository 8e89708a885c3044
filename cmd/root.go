package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/tempomesh/go-tempomesh/config"
	"github.com/tempomesh/go-tempomesh/config/presets"
)

// AddFlags adds the configuration flags to flagSet, bound to the fields of cfg.
func AddFlags(flagSet *pflag.FlagSet, cfg *config.Config) {
	flagSet.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "load configuration from file")
	flagSet.StringVarP(&cfg.Preset, "preset", "p", cfg.Preset,
		fmt.Sprintf("preset overwrites default values of the config. options %+s", presets.Options()))

	/** ======================== BaseConfig Flags ========================== **/
	flagSet.StringVar(&cfg.LOGGING.Encoder, "log-encoder",
		cfg.LOGGING.Encoder, "log as JSON instead of plain text")
	flagSet.BoolVar(&cfg.CollectMetrics, "metrics",
		cfg.CollectMetrics, "collect metrics")
	flagSet.IntVar(&cfg.MetricsPort, "metrics-port",
		cfg.MetricsPort, "metric server port")
	flagSet.StringVar(&cfg.MetricsPush, "metrics-push",
		cfg.MetricsPush, "push metrics to url")
	flagSet.DurationVar(&cfg.MetricsPushPeriod, "metrics-push-period",
		cfg.MetricsPushPeriod, "push period")

	/** ======================== TimeSync Flags ========================== **/
	flagSet.DurationVar(&cfg.TimeSync.Tolerance, "tolerance",
		cfg.TimeSync.Tolerance, "drift beyond which the transport is corrected")
	flagSet.DurationVar(&cfg.TimeSync.Lookahead, "lookahead",
		cfg.TimeSync.Lookahead, "how far ahead a smooth seek lands")
	flagSet.DurationVar(&cfg.TimeSync.LoopInterval, "loop-interval",
		cfg.TimeSync.LoopInterval, "base period of the drift check loop")
	flagSet.DurationVar(&cfg.TimeSync.LoopJitter, "loop-jitter",
		cfg.TimeSync.LoopJitter, "maximal jitter of the drift check loop")
	flagSet.Float64Var(&cfg.TimeSync.TempoEpsilon, "tempo-epsilon",
		cfg.TimeSync.TempoEpsilon, "smallest remote tempo change in BPM reported to observers")

	/** ======================== Replica Flags ========================== **/
	flagSet.DurationVar(&cfg.Replica.Latency, "latency",
		cfg.Replica.Latency, "mean delivery latency between clients")
	flagSet.DurationVar(&cfg.Replica.LatencyJitter, "latency-jitter",
		cfg.Replica.LatencyJitter, "maximal deviation from the mean latency")
	flagSet.Float64Var(&cfg.Replica.DuplicateRate, "duplicate-rate",
		cfg.Replica.DuplicateRate, "probability that a delivery is duplicated")
	flagSet.IntVar(&cfg.Replica.DedupWindow, "dedup-window",
		cfg.Replica.DedupWindow, "number of delivered envelope ids each client remembers")

	/** ======================== Session Flags ========================== **/
	flagSet.Float64Var(&cfg.Session.PublishRate, "publish-rate",
		cfg.Session.PublishRate, "publishes per second of changes made on the transport")
	flagSet.IntVar(&cfg.Session.PublishBurst, "publish-burst",
		cfg.Session.PublishBurst, "publishes allowed back to back")

	/** ======================== Simulation Flags ========================== **/
	flagSet.IntVar(&cfg.Simulation.Clients, "clients",
		cfg.Simulation.Clients, "number of simulated clients")
	flagSet.DurationVar(&cfg.Simulation.Duration, "duration",
		cfg.Simulation.Duration, "how long the simulation runs")
	flagSet.Float64Var(&cfg.Simulation.Tempo, "tempo",
		cfg.Simulation.Tempo, "initial tempo of every client")
	flagSet.StringVar(&cfg.Simulation.Script, "script",
		cfg.Simulation.Script, "file with timed commands")
	flagSet.StringVar(&cfg.Simulation.Snapshot, "snapshot",
		cfg.Simulation.Snapshot, "write the final document state to this file")
	flagSet.DurationVar(&cfg.Simulation.ReportInterval, "report-interval",
		cfg.Simulation.ReportInterval, "period of the position reports")
	flagSet.Float64Var(&cfg.Simulation.MaxRateSkew, "max-rate-skew",
		cfg.Simulation.MaxRateSkew, "maximal relative speed difference of a device clock")
}
