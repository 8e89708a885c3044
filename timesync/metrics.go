package timesync

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tempomesh/go-tempomesh/metrics"
)

const (
	subsystem = "timesync"

	hardSeek   = "hard"
	smoothSeek = "smooth"
)

var (
	driftHist = metrics.NewHistogramWithBuckets(
		"drift_seconds",
		subsystem,
		"absolute difference between the transport position and the shared timeline",
		[]string{},
		prometheus.ExponentialBuckets(0.001, 2, 14),
	).WithLabelValues()

	corrections = metrics.NewCounter(
		"corrections_total",
		subsystem,
		"transport corrections by kind",
		[]string{"kind"},
	)

	commandsCount = metrics.NewCounter(
		"commands_total",
		subsystem,
		"local commands handled by initialized engines",
		[]string{"command"},
	)

	remoteApplies = metrics.NewCounter(
		"remote_applies_total",
		subsystem,
		"remote timeline states applied",
		[]string{},
	).WithLabelValues()

	tempoGauge = metrics.NewGauge(
		"tempo_bpm",
		subsystem,
		"tempo of the most recently updated engine",
		[]string{},
	).WithLabelValues()
)
