// Package transport defines the local clock that the sync engine drives, and a
// software implementation of it used by the simulator and tests.
package transport

import "time"

//go:generate mockgen -typed -package=mocks -destination=./mocks/mocks.go -source=./transport.go

// Transport is the client-local playback clock. Positions are seconds into the
// shared timeline, advancing in real time while running.
type Transport interface {
	// Position returns the current position in seconds.
	Position() float64
	// Running reports whether the clock is in the started condition.
	Running() bool
	// Start begins advancing at wall time at, which may lie in the future.
	Start(at time.Time)
	// Pause halts the clock, keeping its position.
	Pause()
	// Seek moves the clock to position without changing the running condition.
	Seek(position float64)
	// SetTempo changes the playback rate in beats per minute.
	SetTempo(bpm float64)
}
