package timesync

import (
	"math/rand/v2"
	"time"
)

// NextInterval returns base plus a uniform jitter drawn from [-jitter, +jitter].
// Jittering keeps clients that observed the same update from correcting in lockstep.
func NextInterval(base, jitter time.Duration, rng *rand.Rand) time.Duration {
	if jitter <= 0 {
		return base
	}
	return base - jitter + time.Duration(rng.Int64N(int64(2*jitter)+1))
}

// schedule must be called with the lock held.
func (e *Engine) schedule(gen uint64) {
	interval := NextInterval(e.cfg.LoopInterval, e.cfg.LoopJitter, e.rng)
	e.timer = e.clock.AfterFunc(interval, func() {
		e.tick(gen)
	})
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation || !e.initialized {
		return
	}
	e.ticks++
	e.guard(func() {
		e.correct(e.clock.Now())
	})
	e.schedule(gen)
}
