package timeline

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrAccelerationUnsupported is returned for vectors with non-zero acceleration.
	// The timeline only models constant-velocity segments.
	ErrAccelerationUnsupported = errors.New("timeline: acceleration is not supported")
	// ErrVelocityUnsupported is returned for velocities other than 0 (paused) and 1 (real time).
	ErrVelocityUnsupported = errors.New("timeline: velocity must be 0 or 1")
)

// Vector is the kinematic form of a timeline used by timing-object peers:
// position, velocity and acceleration sampled at Timestamp (seconds since epoch).
type Vector struct {
	Position     float64 `json:"position"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
	Timestamp    float64 `json:"timestamp"`
}

// At extrapolates the vector to wall-clock time now.
func (v Vector) At(now time.Time) float64 {
	dt := float64(now.UnixNano())/1e9 - v.Timestamp
	return v.Position + v.Velocity*dt + 0.5*v.Acceleration*dt*dt
}

// ToVector samples the state at now.
func ToVector(s State, now time.Time) Vector {
	v := Vector{
		Position:  s.Position(now),
		Timestamp: float64(Millis(now)) / 1000,
	}
	if s.IsPlaying {
		v.Velocity = 1
	}
	return v
}

// FromVector converts a vector back to the timestamp/offset form at the given tempo.
func FromVector(v Vector, tempo float64) (State, error) {
	if v.Acceleration != 0 {
		return State{}, fmt.Errorf("%w: %v", ErrAccelerationUnsupported, v.Acceleration)
	}
	switch v.Velocity {
	case 0:
		return Paused(tempo, math.Max(v.Position, 0)), nil
	case 1:
		ref := int64(math.Round(v.Timestamp*1000 - v.Position*1000))
		return State{Tempo: tempo, IsPlaying: true, ReferenceInstant: &ref}, nil
	default:
		return State{}, fmt.Errorf("%w: %v", ErrVelocityUnsupported, v.Velocity)
	}
}
