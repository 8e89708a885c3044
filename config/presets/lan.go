package presets

import (
	"time"

	"github.com/tempomesh/go-tempomesh/config"
)

func init() {
	register("lan", lan())
}

func lan() config.Config {
	conf := config.DefaultConfig()
	conf.Replica.Latency = 5 * time.Millisecond
	conf.Replica.LatencyJitter = 2 * time.Millisecond
	conf.Session.PublishRate = 20
	conf.Session.PublishBurst = 2
	return conf
}
