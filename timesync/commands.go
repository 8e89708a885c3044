package timesync

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/log"
	"github.com/tempomesh/go-tempomesh/timeline"
)

// Start plays the timeline from the beginning, regardless of the previous position.
func (e *Engine) Start() timeline.State {
	return e.command("start", func(now time.Time) {
		ms := timeline.Millis(now)
		e.state = timeline.State{
			ReferenceInstant: &ms,
			Tempo:            e.state.Tempo,
			IsPlaying:        true,
		}
		e.transport.Seek(0)
		e.transport.Start(now)
		e.restartAt = time.Time{}
	})
}

// Resume plays the timeline from the paused position. It does nothing if the
// timeline is already playing.
func (e *Engine) Resume() timeline.State {
	return e.command("resume", func(now time.Time) {
		if e.state.IsPlaying {
			return
		}
		paused := e.state.PausedPosition
		// back-date the reference so the derived position equals the paused one
		ms := timeline.Millis(now) - int64(math.Round(paused*1000))
		e.state.ReferenceInstant = &ms
		e.state.IsPlaying = true
		e.transport.Seek(paused)
		e.transport.Start(now)
		e.restartAt = time.Time{}
	})
}

// Pause freezes the timeline at the current derived position.
func (e *Engine) Pause() timeline.State {
	return e.command("pause", func(now time.Time) {
		if !e.state.IsPlaying || e.state.ReferenceInstant == nil {
			return
		}
		paused := math.Max(e.state.Position(now), 0)
		e.state.PausedPosition = paused
		e.state.IsPlaying = false
		e.state.ReferenceInstant = nil
		e.transport.Pause()
		e.transport.Seek(paused)
		e.restartAt = time.Time{}
	})
}

// Reset moves the timeline back to zero. A playing timeline keeps playing from
// the top; a paused one stays paused at zero.
func (e *Engine) Reset() timeline.State {
	return e.command("reset", func(now time.Time) {
		e.state.PausedPosition = 0
		e.transport.Seek(0)
		if !e.state.IsPlaying {
			return
		}
		ms := timeline.Millis(now)
		e.state.ReferenceInstant = &ms
		if now.Before(e.restartAt) {
			e.transport.Start(now)
			e.restartAt = time.Time{}
		}
	})
}

// SetTempo changes the tempo of the timeline. Non-positive values are ignored.
func (e *Engine) SetTempo(bpm float64) timeline.State {
	if !timeline.ValidTempo(bpm) {
		e.logger.Warn("ignoring invalid tempo", log.ZTempo(bpm))
		return e.State()
	}
	return e.command("tempo", func(time.Time) {
		e.state.Tempo = bpm
		e.transport.SetTempo(bpm)
		tempoGauge.Set(bpm)
	})
}

func (e *Engine) command(name string, fn func(now time.Time)) timeline.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		e.logger.Warn("engine not initialized, ignoring command", zap.String("command", name))
		return e.state.Clone()
	}
	commandsCount.WithLabelValues(name).Inc()
	e.guard(func() {
		fn(e.clock.Now())
	})
	e.publish()
	e.logger.Debug("command applied", zap.String("command", name), zap.Object("state", e.state))
	return e.state.Clone()
}
