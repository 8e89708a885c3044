package presets

import (
	"time"

	"github.com/tempomesh/go-tempomesh/config"
)

func init() {
	register("wan", wan())
}

// wan emulates clients spread over continents on a lossy relay that
// retransmits aggressively.
func wan() config.Config {
	conf := config.DefaultConfig()
	conf.Replica.Latency = 150 * time.Millisecond
	conf.Replica.LatencyJitter = 80 * time.Millisecond
	conf.Replica.DuplicateRate = 0.1
	conf.Replica.DedupWindow = 4096
	conf.Session.PublishRate = 4
	conf.Simulation.MaxRateSkew = 0.005
	conf.TimeSync.LoopInterval = 500 * time.Millisecond
	conf.TimeSync.LoopJitter = 100 * time.Millisecond
	return conf
}
