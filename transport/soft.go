package transport

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ChangeKind identifies what happened to a Soft transport.
type ChangeKind int

const (
	Started ChangeKind = iota
	Paused
	Seeked
	TempoChanged
)

func (k ChangeKind) String() string {
	switch k {
	case Started:
		return "started"
	case Paused:
		return "paused"
	case Seeked:
		return "seeked"
	case TempoChanged:
		return "tempo"
	}
	return "unknown"
}

// Change is delivered to OnChange hooks after every mutation.
type Change struct {
	Kind     ChangeKind
	Position float64
	Tempo    float64
	// Driven is set for mutations made through the handle returned by Driver.
	Driven bool
}

// SoftOpt modifies a Soft transport.
type SoftOpt func(*Soft)

// WithClock sets the wall clock. Defaults to the real clock.
func WithClock(clock clockwork.Clock) SoftOpt {
	return func(s *Soft) {
		s.clock = clock
	}
}

// WithRate makes the clock run faster (>1) or slower (<1) than wall time,
// emulating an audio device whose sample clock drifts.
func WithRate(rate float64) SoftOpt {
	return func(s *Soft) {
		s.rate = rate
	}
}

// Soft is a software Transport. A start scheduled in the future keeps the
// position frozen, and the clock is not Running, until the start time passes.
type Soft struct {
	clock clockwork.Clock
	rate  float64

	mu      sync.Mutex
	base    float64
	anchor  time.Time
	running bool
	tempo   float64
	hooks   []func(Change)
}

var _ Transport = (*Soft)(nil)

// NewSoft creates a paused transport at position zero.
func NewSoft(opts ...SoftOpt) *Soft {
	s := &Soft{
		clock: clockwork.NewRealClock(),
		rate:  1,
		tempo: 120,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a hook. Hooks run synchronously after the mutation,
// outside of the transport lock.
func (s *Soft) OnChange(hook func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

func (s *Soft) position(now time.Time) float64 {
	if !s.running || now.Before(s.anchor) {
		return s.base
	}
	return s.base + now.Sub(s.anchor).Seconds()*s.rate
}

// Position implements Transport.
func (s *Soft) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position(s.clock.Now())
}

// Beats returns the position in beats at the current tempo.
func (s *Soft) Beats() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position(s.clock.Now()) * s.tempo / 60
}

// Tempo returns the current playback rate in beats per minute.
func (s *Soft) Tempo() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempo
}

// Running implements Transport.
func (s *Soft) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && !s.clock.Now().Before(s.anchor)
}

// Scheduled reports whether a start was requested, including one that has not
// reached its start time yet.
func (s *Soft) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start implements Transport.
func (s *Soft) Start(at time.Time) {
	s.start(false, at)
}

// Pause implements Transport.
func (s *Soft) Pause() {
	s.pause(false)
}

// Seek implements Transport.
func (s *Soft) Seek(position float64) {
	s.seek(false, position)
}

// SetTempo implements Transport.
func (s *Soft) SetTempo(bpm float64) {
	s.setTempo(false, bpm)
}

// Driver returns a Transport over the same clock whose mutations are reported
// to hooks with Change.Driven set. The sync engine drives this handle.
func (s *Soft) Driver() Transport {
	return driver{s}
}

func (s *Soft) start(driven bool, at time.Time) {
	s.mutate(Started, driven, func(now time.Time) {
		s.base = s.position(now)
		s.anchor = at
		s.running = true
	})
}

func (s *Soft) pause(driven bool) {
	s.mutate(Paused, driven, func(now time.Time) {
		s.base = s.position(now)
		s.running = false
	})
}

func (s *Soft) seek(driven bool, position float64) {
	s.mutate(Seeked, driven, func(now time.Time) {
		s.base = position
		if s.running && !now.Before(s.anchor) {
			s.anchor = now
		}
	})
}

func (s *Soft) setTempo(driven bool, bpm float64) {
	s.mutate(TempoChanged, driven, func(time.Time) {
		s.tempo = bpm
	})
}

func (s *Soft) mutate(kind ChangeKind, driven bool, fn func(now time.Time)) {
	s.mu.Lock()
	now := s.clock.Now()
	fn(now)
	change := Change{Kind: kind, Position: s.position(now), Tempo: s.tempo, Driven: driven}
	hooks := append([]func(Change){}, s.hooks...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(change)
	}
}

type driver struct {
	s *Soft
}

func (d driver) Position() float64     { return d.s.Position() }
func (d driver) Running() bool         { return d.s.Running() }
func (d driver) Start(at time.Time)    { d.s.start(true, at) }
func (d driver) Pause()                { d.s.pause(true) }
func (d driver) Seek(position float64) { d.s.seek(true, position) }
func (d driver) SetTempo(bpm float64)  { d.s.setTempo(true, bpm) }
