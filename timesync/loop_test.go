package timesync

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tempomesh/go-tempomesh/transport"
)

func (e *Engine) tickCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

func TestNextInterval(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	lo, hi := time.Duration(math.MaxInt64), time.Duration(0)
	for i := 0; i < 10_000; i++ {
		d := NextInterval(250*time.Millisecond, 50*time.Millisecond, rng)
		require.GreaterOrEqual(t, d, 200*time.Millisecond)
		require.LessOrEqual(t, d, 300*time.Millisecond)
		lo, hi = min(lo, d), max(hi, d)
	}
	// the whole range is used
	require.Less(t, lo, 205*time.Millisecond)
	require.Greater(t, hi, 295*time.Millisecond)
}

func TestNextIntervalNoJitter(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	require.Equal(t, time.Second, NextInterval(time.Second, 0, rng))
	require.Equal(t, time.Second, NextInterval(time.Second, -time.Millisecond, rng))
}

func TestNextIntervalDeterministic(t *testing.T) {
	a := rand.New(rand.NewPCG(9, 9))
	b := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 100; i++ {
		require.Equal(t,
			NextInterval(250*time.Millisecond, 50*time.Millisecond, a),
			NextInterval(250*time.Millisecond, 50*time.Millisecond, b),
		)
	}
}

func TestLoopTicks(t *testing.T) {
	tt := newInitialized(t, 120)
	for i := 1; i <= 5; i++ {
		tt.clock.BlockUntil(1)
		tt.clock.Advance(300 * time.Millisecond)
		tt.clock.BlockUntil(1)
		require.EqualValues(t, i, tt.tickCount())
	}
}

func TestLoopCorrectsDrift(t *testing.T) {
	tt := newInitialized(t, 120, transport.WithRate(1.1))
	tt.Start()
	for i := 0; i < 40; i++ {
		tt.clock.BlockUntil(1)
		tt.clock.Advance(300 * time.Millisecond)
		tt.clock.BlockUntil(1)
	}
	// twelve seconds of a fast device would put it 1.2s ahead uncorrected
	require.InDelta(t, tt.Position(), tt.tr.Position(), 0.1)
}

func TestLoopStopsOnDestroy(t *testing.T) {
	tt := newInitialized(t, 120)
	tt.clock.BlockUntil(1)
	tt.Destroy()
	tt.clock.BlockUntil(0)
	tt.clock.Advance(time.Second)
	require.Zero(t, tt.tickCount())
}

func TestLoopStaleGeneration(t *testing.T) {
	tt := newInitialized(t, 120)
	tt.clock.BlockUntil(1)
	tt.mu.Lock()
	stale := tt.generation
	tt.mu.Unlock()

	tt.Destroy()
	require.NoError(t, tt.Initialize(120))

	// a callback that fired before destroy neither ticks nor reschedules
	tt.tick(stale)
	require.Zero(t, tt.tickCount())
	tt.clock.BlockUntil(1)

	tt.clock.Advance(300 * time.Millisecond)
	tt.clock.BlockUntil(1)
	require.EqualValues(t, 1, tt.tickCount())
}
