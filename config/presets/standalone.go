package presets

import "github.com/tempomesh/go-tempomesh/config"

func init() {
	register("standalone", standalone())
}

// standalone runs every client on one machine with an instant network.
func standalone() config.Config {
	conf := config.DefaultConfig()
	conf.Replica.Latency = 0
	conf.Replica.LatencyJitter = 0
	conf.Simulation.MaxRateSkew = 0
	return conf
}
