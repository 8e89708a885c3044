package log

import (
	"time"

	"go.uber.org/zap"
)

// ZTempo returns a tempo field (key - "tempo").
func ZTempo(bpm float64) zap.Field {
	return zap.Float64("tempo", bpm)
}

// ZPosition returns a timeline position field in seconds (key - "position").
func ZPosition(seconds float64) zap.Field {
	return zap.Float64("position", seconds)
}

// ZDrift returns a drift field in seconds (key - "drift").
func ZDrift(seconds float64) zap.Field {
	return zap.Float64("drift", seconds)
}

// ZOrigin returns the replica origin of a state update (key - "origin").
func ZOrigin(origin string) zap.Field {
	return zap.String("origin", origin)
}

// ZInstant returns a wall-clock instant field (key - "instant").
func ZInstant(t time.Time) zap.Field {
	return zap.Time("instant", t)
}
