package simulator

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tempomesh/go-tempomesh/config"
	"github.com/tempomesh/go-tempomesh/log/logtest"
	"github.com/tempomesh/go-tempomesh/replica"
	"github.com/tempomesh/go-tempomesh/session"
	"github.com/tempomesh/go-tempomesh/taskgroup"
)

func testLoggers(tb testing.TB) Loggers {
	return Loggers{
		App:      logtest.New(tb).Named("simulator"),
		TimeSync: logtest.New(tb).Named("timesync"),
		Replica:  logtest.New(tb).Named("replica"),
		Session:  logtest.New(tb).Named("session"),
	}
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Replica.Latency = 5 * time.Millisecond
	cfg.Replica.LatencyJitter = 2 * time.Millisecond
	cfg.Simulation.Clients = 3
	cfg.Simulation.Duration = 600 * time.Millisecond
	cfg.Simulation.ReportInterval = 100 * time.Millisecond
	cfg.Simulation.Snapshot = "/sessions/last.json"
	return cfg
}

func TestSimulatorConverges(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out bytes.Buffer
	sim := New(testConfig(),
		WithLoggers(testLoggers(t)),
		WithFs(fs),
		WithOutput(&out),
		WithRand(rand.New(rand.NewPCG(3, 4))),
		WithScript([]Step{
			{Client: 0, Command: session.Command{Kind: session.Start}},
			{At: 200 * time.Millisecond, Client: 1, Command: session.Command{Kind: session.SetTempo, Tempo: 96}},
		}),
	)
	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Clients, 3)
	for _, c := range report.Clients {
		require.True(t, c.State.IsPlaying, "client %d", c.Index)
		require.Equal(t, 96.0, c.State.Tempo, "client %d", c.Index)
		require.InDelta(t, 0, c.Drift, 0.1, "client %d", c.Index)
		require.InDelta(t, 1, c.Rate, testConfig().Simulation.MaxRateSkew)
	}
	require.Less(t, report.Spread, 0.1)
	require.Contains(t, out.String(), "client=2")
	require.Contains(t, out.String(), "spread=")

	snap, err := replica.LoadSnapshot(fs, "/sessions/last.json")
	require.NoError(t, err)
	require.True(t, snap.State.IsPlaying)
	require.Equal(t, 96.0, snap.State.Tempo)
}

func TestSimulatorRejectsInput(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Simulation.Clients = 0
		_, err := New(cfg, WithLoggers(testLoggers(t))).Run(context.Background())
		require.ErrorContains(t, err, "at least one client")
	})
	t.Run("script", func(t *testing.T) {
		sim := New(testConfig(),
			WithLoggers(testLoggers(t)),
			WithScript([]Step{{Client: 3, Command: session.Command{Kind: session.Start}}}),
		)
		_, err := sim.Run(context.Background())
		require.ErrorContains(t, err, "out of range")
	})
}

func TestSimulatorCanceled(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.Duration = time.Hour
	fs := afero.NewMemMapFs()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := New(cfg, WithLoggers(testLoggers(t)), WithFs(fs)).Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	exists, err := afero.Exists(fs, cfg.Simulation.Snapshot)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSimulatorCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(testConfig(), WithLoggers(testLoggers(t)), WithFs(afero.NewMemMapFs())).Run(ctx)
	require.Nil(t, report)
	require.ErrorIs(t, err, taskgroup.ErrTerminated)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorContains(t, err, "start task 0")
}

func TestSimulatorFakeClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cfg := testConfig()
	cfg.Simulation.Duration = 2 * time.Second
	cfg.Simulation.ReportInterval = time.Second
	cfg.Simulation.Snapshot = ""
	var out bytes.Buffer
	sim := New(cfg,
		WithLoggers(testLoggers(t)),
		WithClock(clock),
		WithOutput(&out),
		WithRand(rand.New(rand.NewPCG(5, 6))),
	)

	type result struct {
		report *Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := sim.Run(context.Background())
		done <- result{report, err}
	}()
	for {
		select {
		case res := <-done:
			require.NoError(t, res.err)
			require.InDelta(t, cfg.Simulation.Duration.Seconds(), res.report.Elapsed.Seconds(), 0.1)
			for _, c := range res.report.Clients {
				require.True(t, c.State.IsPlaying, "client %d", c.Index)
			}
			// the last report races with the end of the simulation
			require.GreaterOrEqual(t, strings.Count(out.String(), "spread="), 1, out.String())
			return
		default:
		}
		// give timers fired by the previous step a chance to run
		time.Sleep(time.Millisecond)
		clock.Advance(10 * time.Millisecond)
	}
}
