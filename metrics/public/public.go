package public

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Registry = prometheus.NewRegistry()

var (
	// Clients is the number of clients taking part in a session.
	Clients = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "tempomesh",
		Name:      "clients",
	})
	// Spread is the largest position difference between any two clients, in seconds.
	Spread = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: "tempomesh",
		Name:      "position_spread_seconds",
	})
)
