package session

import "github.com/tempomesh/go-tempomesh/metrics"

const (
	subsystem = "session"

	sourceCommand   = "command"
	sourceTransport = "transport"
)

var publishes = metrics.NewCounter(
	"publishes_total",
	subsystem,
	"states published to the document, by source",
	[]string{"source"},
)
