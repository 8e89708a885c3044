package timesync

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tempomesh/go-tempomesh/log/logtest"
	"github.com/tempomesh/go-tempomesh/timeline"
	"github.com/tempomesh/go-tempomesh/transport/mocks"
)

type mockTester struct {
	*Engine
	clock clockwork.FakeClock
	tr    *mocks.MockTransport
}

func newMockTester(t *testing.T, tempo float64) *mockTester {
	t.Helper()
	ctrl := gomock.NewController(t)
	clock := clockwork.NewFakeClockAt(epoch)
	tr := mocks.NewMockTransport(ctrl)
	e := New(tr,
		WithClock(clock),
		WithLogger(logtest.New(t)),
		WithRand(rand.New(rand.NewPCG(3, 4))),
	)
	t.Cleanup(e.Destroy)
	tr.EXPECT().SetTempo(tempo)
	require.NoError(t, e.Initialize(tempo))
	return &mockTester{Engine: e, clock: clock, tr: tr}
}

func TestApplyRemoteWhilePausedHardSeeks(t *testing.T) {
	mt := newMockTester(t, 120)
	var notified []int
	mt.OnTempoChange(func(bpm int) { notified = append(notified, bpm) })

	now := mt.clock.Now()
	remote := timeline.Playing(140, now.Add(-5000*time.Millisecond))
	gomock.InOrder(
		mt.tr.EXPECT().SetTempo(140.0),
		mt.tr.EXPECT().Running().Return(false),
		mt.tr.EXPECT().Seek(5.0),
		mt.tr.EXPECT().Start(now),
	)
	mt.ApplyRemote(remote)

	require.Equal(t, []int{140}, notified)
	require.True(t, remote.Equal(mt.State()))
	require.InDelta(t, 5.0, mt.Position(), 0.05)
}

func TestApplyRemoteLogsReference(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := clockwork.NewFakeClockAt(epoch)
	tr := mocks.NewMockTransport(ctrl)
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(tr, WithClock(clock), WithLogger(zap.New(core)))
	t.Cleanup(e.Destroy)
	tr.EXPECT().SetTempo(120.0)
	require.NoError(t, e.Initialize(120))

	reference := epoch.Add(-1500 * time.Millisecond)
	gomock.InOrder(
		tr.EXPECT().Running().Return(false),
		tr.EXPECT().Seek(1.5),
		tr.EXPECT().Start(epoch),
	)
	e.ApplyRemote(timeline.Playing(120, reference))

	entries := logs.FilterMessage("remote start, seeking transport").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, 1.5, fields["position"])
	instant, ok := fields["instant"].(time.Time)
	require.True(t, ok)
	require.True(t, reference.Equal(instant))
}

func TestApplyRemoteSteadyState(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		drift  float64
		smooth bool
	}{
		{desc: "InSync", drift: 0},
		{desc: "WithinTolerance", drift: 0.03},
		{desc: "AtTolerance", drift: -0.05},
		{desc: "Ahead", drift: 0.2, smooth: true},
		{desc: "Behind", drift: -0.051, smooth: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			mt := newMockTester(t, 120)
			now := mt.clock.Now()
			remote := timeline.Playing(120, now.Add(-10*time.Second))

			calls := []any{
				mt.tr.EXPECT().Running().Return(true),
				mt.tr.EXPECT().Position().Return(10 + tc.drift),
			}
			if tc.smooth {
				calls = append(calls,
					mt.tr.EXPECT().Pause(),
					mt.tr.EXPECT().Seek(gomock.Cond(func(x any) bool {
						return approx(x.(float64), 10.05)
					})),
					mt.tr.EXPECT().Start(now.Add(50*time.Millisecond)),
				)
			}
			gomock.InOrder(calls...)
			mt.ApplyRemote(remote)
		})
	}
}

func TestApplyRemotePause(t *testing.T) {
	mt := newMockTester(t, 120)
	mt.tr.EXPECT().Running().Return(true)
	mt.tr.EXPECT().Pause()
	mt.ApplyRemote(timeline.Paused(120, 3))
	require.Equal(t, timeline.Paused(120, 3), mt.State())

	// already silent transports are left alone
	mt.tr.EXPECT().Running().Return(false)
	mt.ApplyRemote(timeline.Paused(120, 4))
}

func TestApplyRemoteTempoEpsilon(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		tempo  float64
		notify []int
	}{
		{desc: "Unchanged", tempo: 120},
		{desc: "Jitter", tempo: 120.05},
		{desc: "AtEpsilon", tempo: 119.9},
		{desc: "AboveEpsilon", tempo: 120.6, notify: []int{121}},
		{desc: "Slower", tempo: 80.2, notify: []int{80}},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			mt := newMockTester(t, 120)
			var notified []int
			mt.OnTempoChange(func(bpm int) { notified = append(notified, bpm) })

			if tc.notify != nil {
				mt.tr.EXPECT().SetTempo(tc.tempo)
			}
			mt.tr.EXPECT().Running().Return(false)
			mt.ApplyRemote(timeline.Paused(tc.tempo, 0))

			require.Equal(t, tc.notify, notified)
			require.Equal(t, tc.tempo, mt.State().Tempo)
		})
	}
}

func TestApplyRemoteInvalidTempoKeepsLocal(t *testing.T) {
	mt := newMockTester(t, 120)
	calls := 0
	mt.OnTempoChange(func(int) { calls++ })
	mt.tr.EXPECT().Running().Return(false)
	mt.ApplyRemote(timeline.Paused(0, 1))
	require.Equal(t, 120.0, mt.State().Tempo)
	require.Equal(t, 1.0, mt.State().PausedPosition)
	require.Zero(t, calls)
}

func TestApplyRemoteBeforeInitialize(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mocks.NewMockTransport(ctrl)
	e := New(tr, WithClock(clockwork.NewFakeClockAt(epoch)))
	// no transport calls are expected
	e.ApplyRemote(timeline.Playing(120, epoch))
	require.Equal(t, timeline.State{}, e.State())
}

func TestApplyRemoteGuard(t *testing.T) {
	mt := newMockTester(t, 120)
	mt.tr.EXPECT().Running().DoAndReturn(func() bool {
		require.True(t, mt.Applying())
		return false
	})
	mt.tr.EXPECT().Seek(gomock.Any()).Do(func(float64) {
		require.True(t, mt.Applying())
	})
	mt.tr.EXPECT().Start(gomock.Any())
	mt.ApplyRemote(timeline.Playing(120, mt.clock.Now()))
	require.False(t, mt.Applying())
}

func TestApplyRemoteGuardReleasedOnPanic(t *testing.T) {
	mt := newMockTester(t, 120)
	mt.tr.EXPECT().Running().DoAndReturn(func() bool { panic("transport failure") })
	require.Panics(t, func() {
		mt.ApplyRemote(timeline.Playing(120, mt.clock.Now()))
	})
	require.False(t, mt.Applying())

	// the engine lock was released as well
	mt.tr.EXPECT().Running().Return(true)
	mt.tr.EXPECT().Pause()
	mt.ApplyRemote(timeline.Paused(120, 0))
}

func TestObserverReplacedAndDetached(t *testing.T) {
	mt := newMockTester(t, 120)
	var first, second []int
	detachFirst := mt.OnTempoChange(func(bpm int) { first = append(first, bpm) })
	detachSecond := mt.OnTempoChange(func(bpm int) { second = append(second, bpm) })

	// detaching a replaced observer does not remove the current one
	detachFirst()

	mt.tr.EXPECT().SetTempo(100.0)
	mt.tr.EXPECT().Running().Return(false)
	mt.ApplyRemote(timeline.Paused(100, 0))
	require.Empty(t, first)
	require.Equal(t, []int{100}, second)

	detachSecond()
	mt.tr.EXPECT().SetTempo(90.0)
	mt.tr.EXPECT().Running().Return(false)
	mt.ApplyRemote(timeline.Paused(90, 0))
	require.Equal(t, []int{100}, second)
}

func TestObserverMayCallEngine(t *testing.T) {
	mt := newMockTester(t, 120)
	var seen timeline.State
	mt.OnTempoChange(func(int) {
		seen = mt.State()
		require.True(t, mt.Initialized())
	})
	mt.tr.EXPECT().SetTempo(130.0)
	mt.tr.EXPECT().Running().Return(false)
	mt.ApplyRemote(timeline.Paused(130, 2))
	require.Equal(t, timeline.Paused(130, 2), seen)
}

func TestApplyVector(t *testing.T) {
	t.Run("Acceleration", func(t *testing.T) {
		mt := newMockTester(t, 120)
		before := mt.State()
		err := mt.ApplyVector(timeline.Vector{Position: 1, Velocity: 1, Acceleration: 0.1})
		require.ErrorIs(t, err, timeline.ErrAccelerationUnsupported)
		require.Equal(t, before, mt.State())
	})
	t.Run("Playing", func(t *testing.T) {
		mt := newMockTester(t, 120)
		now := mt.clock.Now()
		mt.tr.EXPECT().Running().Return(false)
		mt.tr.EXPECT().Seek(gomock.Cond(func(x any) bool { return approx(x.(float64), 3) }))
		mt.tr.EXPECT().Start(now)
		require.NoError(t, mt.ApplyVector(timeline.Vector{
			Position:  3,
			Velocity:  1,
			Timestamp: float64(timeline.Millis(now)) / 1000,
		}))
		require.True(t, mt.State().IsPlaying)

		v := mt.Vector()
		require.Equal(t, 1.0, v.Velocity)
		require.InDelta(t, 3, v.Position, 1e-9)
	})
	t.Run("NotInitialized", func(t *testing.T) {
		e := New(mocks.NewMockTransport(gomock.NewController(t)))
		require.ErrorIs(t, e.ApplyVector(timeline.Vector{}), ErrNotInitialized)
	})
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
