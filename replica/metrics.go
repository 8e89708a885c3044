package replica

import "github.com/tempomesh/go-tempomesh/metrics"

const (
	subsystem = "replica"

	applied   = "applied"
	stale     = "stale"
	duplicate = "duplicate"
	echo      = "echo"
	invalid   = "invalid"
)

var (
	deliveries = metrics.NewCounter(
		"deliveries_total",
		subsystem,
		"envelopes received by replicas, by outcome",
		[]string{"outcome"},
	)

	published = metrics.NewCounter(
		"published_total",
		subsystem,
		"envelopes published by local writers",
		[]string{},
	).WithLabelValues()

	inflight = metrics.NewGauge(
		"inflight",
		subsystem,
		"deliveries scheduled on the network and not yet received",
		[]string{},
	).WithLabelValues()
)
