// Package timesync keeps a local transport in step with a timeline shared
// through an eventually consistent document.
//
// The Engine owns the timeline state of one client. Local commands produce new
// states that the caller publishes to the document; states observed in the
// document are reconciled with ApplyRemote. A jittered loop periodically
// compares the transport with the position implied by the state and corrects
// it when the drift exceeds the configured tolerance.
//
// All operations are serialized on the engine lock, including the loop, so
// each command or reconciliation is atomic with respect to the others.
package timesync

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/log"
	"github.com/tempomesh/go-tempomesh/timeline"
	"github.com/tempomesh/go-tempomesh/timesync/config"
	"github.com/tempomesh/go-tempomesh/transport"
)

// ErrNotInitialized is returned by operations that report errors when they
// are called before Initialize.
var ErrNotInitialized = errors.New("timesync: engine not initialized")

// Opt modifies Engine behavior.
type Opt func(*Engine)

// WithLogger modifies the logger used by the Engine.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock modifies the source of wall-clock time.
func WithClock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithConfig modifies the synchronization parameters.
func WithConfig(cfg config.Config) Opt {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithRand sets the random source used to jitter the loop.
func WithRand(rng *rand.Rand) Opt {
	return func(e *Engine) {
		e.rng = rng
	}
}

// Engine synchronizes one transport with the shared timeline.
type Engine struct {
	logger    *zap.Logger
	clock     clockwork.Clock
	cfg       config.Config
	rng       *rand.Rand
	transport transport.Transport

	mu          sync.Mutex
	state       timeline.State
	initialized bool
	// restartAt is the pending start of the transport after a smooth seek.
	restartAt  time.Time
	timer      clockwork.Timer
	generation uint64
	ticks      uint64
	observer   *tempoObserver
	observers  uint64

	snapshot atomic.Pointer[timeline.State]
	applying atomic.Bool
}

// New creates an uninitialized engine driving tr.
func New(tr transport.Transport, opts ...Opt) *Engine {
	e := &Engine{
		logger:    log.NewNop(),
		clock:     clockwork.NewRealClock(),
		cfg:       config.DefaultConfig(),
		transport: tr,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(uint64(e.clock.Now().UnixNano()), rand.Uint64()))
	}
	e.publish()
	return e
}

// Initialize prepares the engine with a paused timeline at the given tempo and
// starts the sync loop. Calls after the first successful one are no-ops.
func (e *Engine) Initialize(tempo float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		e.logger.Debug("engine already initialized", log.ZTempo(e.state.Tempo))
		return nil
	}
	if !timeline.ValidTempo(tempo) {
		return fmt.Errorf("initialize: %w: %v", timeline.ErrInvalidTempo, tempo)
	}
	e.state = timeline.Paused(tempo, 0)
	e.restartAt = time.Time{}
	e.guard(func() {
		e.transport.SetTempo(tempo)
	})
	e.initialized = true
	e.generation++
	e.schedule(e.generation)
	e.publish()
	tempoGauge.Set(tempo)
	e.logger.Info("engine initialized", log.ZTempo(tempo))
	return nil
}

// Destroy cancels the sync loop, drops the tempo observer and resets the
// state. The engine can be initialized again afterwards.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	// a loop callback that already fired must not run or reschedule
	e.generation++
	e.initialized = false
	e.observer = nil
	e.state = timeline.State{}
	e.restartAt = time.Time{}
	e.publish()
	e.logger.Debug("engine destroyed")
}

// Initialized reports whether Initialize has completed and Destroy was not called since.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// State returns a copy of the current state. It never blocks on in-flight
// operations and is safe to call from transport hooks.
func (e *Engine) State() timeline.State {
	return e.snapshot.Load().Clone()
}

// Position returns the shared timeline position implied by the current state.
func (e *Engine) Position() float64 {
	return e.State().Position(e.clock.Now())
}

// Applying reports whether the engine is currently mutating the transport.
// Transport observers use it to avoid republishing changes made by the engine.
func (e *Engine) Applying() bool {
	return e.applying.Load()
}

// guard marks fn as an engine-driven transport mutation. The flag is restored
// on every exit path, including panics.
func (e *Engine) guard(fn func()) {
	prev := e.applying.Swap(true)
	defer e.applying.Store(prev)
	fn()
}

// publish must be called with the lock held after every state change.
func (e *Engine) publish() {
	s := e.state.Clone()
	e.snapshot.Store(&s)
}

var (
	sharedMu sync.Mutex
	shared   *Engine
)

// Shared returns the process-wide engine, creating it on first use with a
// software transport on the engine clock. Options apply only when the engine
// is created.
func Shared(opts ...Opt) *Engine {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = New(nil, opts...)
		shared.transport = transport.NewSoft(transport.WithClock(shared.clock)).Driver()
	}
	return shared
}

// ResetShared destroys the process-wide engine so that the next call to
// Shared creates a fresh one.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		shared.Destroy()
		shared = nil
	}
}
