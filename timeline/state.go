// Package timeline defines the shared timeline state that clients replicate
// through the document layer, and adapters to the kinematic vector form.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap/zapcore"
)

var (
	// ErrInvalidTempo is returned for non-positive or non-finite tempo values.
	ErrInvalidTempo = errors.New("timeline: tempo must be positive")
	// ErrNegativePosition is returned when the paused position is below zero.
	ErrNegativePosition = errors.New("timeline: paused position is negative")
	// ErrInconsistentPlaying is returned when the playing flag disagrees with the reference instant.
	ErrInconsistentPlaying = errors.New("timeline: playing flag and reference instant disagree")
)

// State is the replicated description of a shared timeline.
//
// While playing, the position is derived from ReferenceInstant and is never
// stored. While paused, PausedPosition holds the position to resume from.
type State struct {
	// ReferenceInstant is milliseconds since epoch, set iff IsPlaying.
	ReferenceInstant *int64  `json:"referenceInstant"`
	Tempo            float64 `json:"tempo"`
	IsPlaying        bool    `json:"isPlaying"`
	PausedPosition   float64 `json:"pausedPosition"`
}

// Paused returns a stopped state at the given tempo and position.
func Paused(tempo, position float64) State {
	return State{Tempo: tempo, PausedPosition: position}
}

// Playing returns a state that started playing at the reference instant.
func Playing(tempo float64, reference time.Time) State {
	ms := Millis(reference)
	return State{Tempo: tempo, IsPlaying: true, ReferenceInstant: &ms}
}

// Position returns the timeline position in seconds at wall-clock time now.
func (s State) Position(now time.Time) float64 {
	if s.IsPlaying && s.ReferenceInstant != nil {
		return float64(Millis(now)-*s.ReferenceInstant) / 1000
	}
	return s.PausedPosition
}

// Validate checks the state invariants.
func (s State) Validate() error {
	if !ValidTempo(s.Tempo) {
		return fmt.Errorf("%w: %v", ErrInvalidTempo, s.Tempo)
	}
	if s.PausedPosition < 0 || math.IsNaN(s.PausedPosition) {
		return fmt.Errorf("%w: %v", ErrNegativePosition, s.PausedPosition)
	}
	if s.IsPlaying != (s.ReferenceInstant != nil) {
		return ErrInconsistentPlaying
	}
	return nil
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	if s.ReferenceInstant != nil {
		ref := *s.ReferenceInstant
		s.ReferenceInstant = &ref
	}
	return s
}

// Equal compares states by value, including the reference instant.
func (s State) Equal(other State) bool {
	if (s.ReferenceInstant == nil) != (other.ReferenceInstant == nil) {
		return false
	}
	if s.ReferenceInstant != nil && *s.ReferenceInstant != *other.ReferenceInstant {
		return false
	}
	return s.Tempo == other.Tempo &&
		s.IsPlaying == other.IsPlaying &&
		s.PausedPosition == other.PausedPosition
}

// String returns a compact representation for logs and the simulator output.
func (s State) String() string {
	if s.IsPlaying && s.ReferenceInstant != nil {
		return fmt.Sprintf("playing(ref=%d, tempo=%.2f)", *s.ReferenceInstant, s.Tempo)
	}
	return fmt.Sprintf("paused(at=%.3fs, tempo=%.2f)", s.PausedPosition, s.Tempo)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s State) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddBool("playing", s.IsPlaying)
	encoder.AddFloat64("tempo", s.Tempo)
	encoder.AddFloat64("paused_position", s.PausedPosition)
	if s.ReferenceInstant != nil {
		encoder.AddInt64("reference_instant", *s.ReferenceInstant)
	}
	return nil
}

// ValidTempo reports whether bpm is a usable tempo.
func ValidTempo(bpm float64) bool {
	return bpm > 0 && !math.IsInf(bpm, 0) && !math.IsNaN(bpm)
}

// Millis converts a wall-clock time to milliseconds since epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Instant converts milliseconds since epoch to a wall-clock time.
func Instant(ms int64) time.Time {
	return time.UnixMilli(ms)
}
