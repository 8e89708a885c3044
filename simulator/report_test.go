package simulator

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/tempomesh/go-tempomesh/replica"
	"github.com/tempomesh/go-tempomesh/timeline"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestReportPrint(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report := &Report{
		Elapsed: 1500 * time.Millisecond,
		Clients: []ClientReport{
			{Index: 0, Rate: 1.001, Position: 12.375, Drift: 0.0125, State: timeline.Playing(120, started)},
			{Index: 1, Rate: 0.999, Position: 12.3125, Drift: -0.0375, State: timeline.Paused(96.5, 12.3125)},
		},
		Spread: 0.0625,
	}
	var out bytes.Buffer
	require.NoError(t, report.Print(&out))
	newGoldie(t).Assert(t, "report", out.Bytes())
}

func TestPrintSnapshot(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := started.Add(10500 * time.Millisecond)
	snap := replica.Snapshot{
		Origin:  uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
		Lamport: 4,
		State:   timeline.Playing(120, started),
		SavedAt: now,
	}
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	require.NoError(t, printSnapshot(c, snap, now))
	newGoldie(t).Assert(t, "inspect", out.Bytes())
}
