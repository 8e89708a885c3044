package timesync

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/log"
	"github.com/tempomesh/go-tempomesh/timeline"
)

// ApplyRemote adopts a state observed in the shared document and brings the
// transport in line with it.
//
// When the transport was silent (e.g. resuming from pause) it is hard-seeked
// to the expected position and started. While it is already playing it is only
// corrected if the drift exceeds the tolerance, and then with a smooth seek so
// that no audible jump occurs.
func (e *Engine) ApplyRemote(incoming timeline.State) {
	if notify := e.applyRemote(incoming); notify != nil {
		notify()
	}
}

// applyRemote returns the observer notification to run after the lock is released.
func (e *Engine) applyRemote(incoming timeline.State) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		e.logger.Debug("engine not initialized, ignoring remote state", zap.Object("state", incoming))
		return nil
	}
	remoteApplies.Inc()

	incoming = incoming.Clone()
	if !timeline.ValidTempo(incoming.Tempo) {
		e.logger.Warn("remote state has invalid tempo, keeping local tempo",
			log.ZTempo(incoming.Tempo))
		incoming.Tempo = e.state.Tempo
	}

	var notify func()
	tempoChanged := math.Abs(incoming.Tempo-e.state.Tempo) > e.cfg.TempoEpsilon
	if tempoChanged {
		bpm := int(math.Round(incoming.Tempo))
		if obs := e.observer; obs != nil {
			notify = func() { obs.fn(bpm) }
		}
		e.logger.Debug("remote tempo change",
			zap.Float64("from", e.state.Tempo),
			log.ZTempo(incoming.Tempo))
	}
	e.state = incoming

	e.guard(func() {
		if tempoChanged {
			e.transport.SetTempo(incoming.Tempo)
			tempoGauge.Set(incoming.Tempo)
		}
		now := e.clock.Now()
		switch {
		case incoming.IsPlaying && incoming.ReferenceInstant != nil:
			if !e.running(now) {
				expected := incoming.Position(now)
				e.logger.Debug("remote start, seeking transport",
					log.ZPosition(expected),
					log.ZInstant(timeline.Instant(*incoming.ReferenceInstant)),
				)
				e.hardSeek(now, expected)
				return
			}
			e.correct(now)
		case incoming.IsPlaying:
			e.logger.Warn("remote state is playing without a reference instant")
		default:
			if e.running(now) {
				e.transport.Pause()
				e.restartAt = time.Time{}
			}
		}
	})
	e.publish()
	return notify
}

// ApplyVector applies a state received in kinematic vector form. Vectors that
// the timeline cannot represent fail without changing the engine.
func (e *Engine) ApplyVector(v timeline.Vector) error {
	if !e.Initialized() {
		return ErrNotInitialized
	}
	state, err := timeline.FromVector(v, e.State().Tempo)
	if err != nil {
		e.logger.Warn("rejecting vector", zap.Error(err))
		return fmt.Errorf("apply vector: %w", err)
	}
	e.ApplyRemote(state)
	return nil
}

// Vector returns the current state in kinematic vector form.
func (e *Engine) Vector() timeline.Vector {
	return timeline.ToVector(e.State(), e.clock.Now())
}
