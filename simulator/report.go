package simulator

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tempomesh/go-tempomesh/timeline"
)

// ClientReport is the state of one client at the time of a report.
type ClientReport struct {
	Index  int
	Origin uuid.UUID
	// Rate is the speed of the client device relative to wall time.
	Rate float64
	// Position is the transport position in seconds.
	Position float64
	// Drift is the transport position minus the shared timeline position.
	Drift float64
	State timeline.State
}

// Report summarizes all clients at one point of the simulation.
type Report struct {
	Elapsed time.Duration
	Clients []ClientReport
	// Spread is the largest transport position difference between two clients.
	Spread float64
}

// Print writes one line per client followed by the spread.
func (r *Report) Print(w io.Writer) error {
	for _, c := range r.Clients {
		_, err := fmt.Fprintf(w, "%9.3fs client=%d position=%8.3f drift=%+.4f tempo=%6.2f playing=%t\n",
			r.Elapsed.Seconds(), c.Index, c.Position, c.Drift, c.State.Tempo, c.State.IsPlaying)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%9.3fs spread=%.4f\n", r.Elapsed.Seconds(), r.Spread)
	return err
}
