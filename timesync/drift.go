package timesync

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/log"
)

// driftEpsilon absorbs float error when a correction lands exactly on the tolerance.
const driftEpsilon = 1e-9

// CorrectDrift compares the transport with the position implied by the
// current state and smoothly reseeks it if the drift exceeds the tolerance.
// It reports whether a correction was made. Paused or uninitialized engines
// never correct.
func (e *Engine) CorrectDrift() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return false
	}
	var corrected bool
	e.guard(func() {
		corrected = e.correct(e.clock.Now())
	})
	return corrected
}

// correct must be called with the lock held and the guard set.
func (e *Engine) correct(now time.Time) bool {
	if !e.state.IsPlaying || e.state.ReferenceInstant == nil {
		return false
	}
	expected := e.state.Position(now)
	actual := e.transport.Position()
	drift := actual - expected
	driftHist.Observe(math.Abs(drift))
	if !e.exceeds(drift) {
		return false
	}
	e.logger.Debug("correcting drift",
		log.ZDrift(drift),
		log.ZPosition(expected),
		zap.Duration("lookahead", e.cfg.Lookahead),
	)
	e.smoothSeek(now, expected)
	return true
}

func (e *Engine) exceeds(drift float64) bool {
	return math.Abs(drift) > e.cfg.Tolerance.Seconds()+driftEpsilon
}

// smoothSeek stops the transport, places it lookahead past the target and
// restarts it lookahead from now, so that it resumes exactly on the target.
// The transport stays lookahead ahead of the timeline while stopped, which is
// within the tolerance, so checks inside the window do not correct again.
func (e *Engine) smoothSeek(now time.Time, target float64) {
	lookahead := e.cfg.Lookahead
	e.transport.Pause()
	e.transport.Seek(target + lookahead.Seconds())
	e.restartAt = now.Add(lookahead)
	e.transport.Start(e.restartAt)
	corrections.WithLabelValues(smoothSeek).Inc()
}

// hardSeek moves the transport to target and starts it immediately. It is only
// used when the transport was silent.
func (e *Engine) hardSeek(now time.Time, target float64) {
	e.transport.Seek(target)
	e.transport.Start(now)
	e.restartAt = time.Time{}
	corrections.WithLabelValues(hardSeek).Inc()
}

// running reports whether the transport is started or will start from a
// pending smooth seek.
func (e *Engine) running(now time.Time) bool {
	return e.transport.Running() || now.Before(e.restartAt)
}
