// Package simulator runs a shared timeline session between several clients
// on an in-process network, each driving a software transport whose clock
// runs slightly faster or slower than wall time.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/config"
	"github.com/tempomesh/go-tempomesh/log"
	"github.com/tempomesh/go-tempomesh/metrics/public"
	"github.com/tempomesh/go-tempomesh/replica"
	"github.com/tempomesh/go-tempomesh/session"
	"github.com/tempomesh/go-tempomesh/taskgroup"
	"github.com/tempomesh/go-tempomesh/timesync"
	"github.com/tempomesh/go-tempomesh/transport"
)

var errFinished = errors.New("simulation finished")

// Loggers holds the logger of each module.
type Loggers struct {
	App      *zap.Logger
	TimeSync *zap.Logger
	Replica  *zap.Logger
	Session  *zap.Logger
}

// NopLoggers returns silent loggers for every module.
func NopLoggers() Loggers {
	return Loggers{App: log.NewNop(), TimeSync: log.NewNop(), Replica: log.NewNop(), Session: log.NewNop()}
}

// Opt modifies Simulator behavior.
type Opt func(*Simulator)

// WithLoggers sets the module loggers.
func WithLoggers(loggers Loggers) Opt {
	return func(s *Simulator) {
		s.loggers = loggers
	}
}

// WithClock modifies the clock shared by the network, engines and transports.
func WithClock(clock clockwork.Clock) Opt {
	return func(s *Simulator) {
		s.clock = clock
	}
}

// WithFs modifies the filesystem snapshots are written to.
func WithFs(fs afero.Fs) Opt {
	return func(s *Simulator) {
		s.fs = fs
	}
}

// WithOutput sets where periodic reports are printed.
func WithOutput(w io.Writer) Opt {
	return func(s *Simulator) {
		s.out = w
	}
}

// WithScript replaces the default script.
func WithScript(steps []Step) Opt {
	return func(s *Simulator) {
		s.script = steps
	}
}

// WithRand sets the random source for device rates and network jitter.
func WithRand(rng *rand.Rand) Opt {
	return func(s *Simulator) {
		s.rng = rng
	}
}

// Simulator runs one simulated session.
type Simulator struct {
	cfg     config.Config
	loggers Loggers
	clock   clockwork.Clock
	fs      afero.Fs
	out     io.Writer
	script  []Step
	rng     *rand.Rand
}

type client struct {
	index   int
	rate    float64
	soft    *transport.Soft
	engine  *timesync.Engine
	doc     *replica.Replica
	session *session.Client
}

// New creates a simulator for cfg.
func New(cfg config.Config, opts ...Opt) *Simulator {
	s := &Simulator{
		cfg:     cfg,
		loggers: NopLoggers(),
		clock:   clockwork.NewRealClock(),
		fs:      afero.NewOsFs(),
		out:     io.Discard,
		script:  DefaultScript(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Run executes the script until the configured duration elapses or ctx is
// canceled, and returns the final state of every client.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sim := s.cfg.Simulation
	for _, step := range s.script {
		if step.Client >= sim.Clients {
			return nil, fmt.Errorf("step %q: client %d out of range [0, %d)", step, step.Client, sim.Clients)
		}
	}

	net := replica.NewNetwork(
		replica.WithClock(s.clock),
		replica.WithConfig(s.cfg.Replica),
		replica.WithLogger(s.loggers.Replica),
		replica.WithRand(s.newRand()),
	)
	defer net.Close()

	clients := make([]*client, 0, sim.Clients)
	defer func() {
		for _, c := range clients {
			c.engine.Destroy()
		}
	}()
	for i := range sim.Clients {
		c, err := s.newClient(i, net)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	public.Clients.Set(float64(len(clients)))
	defer public.Clients.Set(0)

	start := s.clock.Now()
	s.loggers.App.Info("simulation started",
		zap.Int("clients", len(clients)),
		zap.Duration("duration", sim.Duration),
		zap.Int("steps", len(s.script)),
	)

	tg := taskgroup.New(taskgroup.WithContext(ctx))
	tasks := make([]func(context.Context) error, 0, len(clients)+3)
	for _, c := range clients {
		tasks = append(tasks, c.session.Run)
	}
	tasks = append(tasks,
		func(ctx context.Context) error {
			return s.runScript(ctx, start, clients)
		},
		func(ctx context.Context) error {
			return s.report(ctx, start, clients)
		},
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.clock.After(sim.Duration):
				return errFinished
			}
		},
	)
	for i, task := range tasks {
		if err := tg.Go(task); err != nil {
			return nil, errors.Join(fmt.Errorf("start task %d: %w", i, err), tg.Wait())
		}
	}
	if err := tg.Wait(); !errors.Is(err, errFinished) {
		return nil, err
	}

	report := summarize(s.clock.Now().Sub(start), clients)
	s.loggers.App.Info("simulation finished", zap.Float64("spread", report.Spread))
	if sim.Snapshot != "" {
		if err := s.saveSnapshot(clients[0].doc); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *Simulator) newRand() *rand.Rand {
	return rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
}

func (s *Simulator) newClient(i int, net *replica.Network) (*client, error) {
	rate := 1 + (2*s.rng.Float64()-1)*s.cfg.Simulation.MaxRateSkew
	soft := transport.NewSoft(transport.WithClock(s.clock), transport.WithRate(rate))
	engine := timesync.New(soft.Driver(),
		timesync.WithClock(s.clock),
		timesync.WithConfig(s.cfg.TimeSync),
		timesync.WithLogger(s.loggers.TimeSync.With(zap.Int("client", i))),
		timesync.WithRand(s.newRand()),
	)
	if err := engine.Initialize(s.cfg.Simulation.Tempo); err != nil {
		return nil, fmt.Errorf("client %d: %w", i, err)
	}
	doc, err := net.Join()
	if err != nil {
		engine.Destroy()
		return nil, fmt.Errorf("client %d: join network: %w", i, err)
	}
	c := &client{
		index:  i,
		rate:   rate,
		soft:   soft,
		engine: engine,
		doc:    doc,
		session: session.New(engine, doc,
			session.WithTransport(soft),
			session.WithConfig(s.cfg.Session),
			session.WithLogger(s.loggers.Session.With(zap.Int("client", i))),
		),
	}
	s.loggers.App.Debug("client joined",
		zap.Int("client", i),
		log.ZOrigin(doc.Origin().String()),
		zap.Float64("rate", rate),
	)
	return c, nil
}

func (s *Simulator) runScript(ctx context.Context, start time.Time, clients []*client) error {
	for _, c := range clients {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.session.Started():
		}
	}
	for _, step := range s.script {
		if wait := start.Add(step.At).Sub(s.clock.Now()); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.clock.After(wait):
			}
		}
		state, err := clients[step.Client].session.Do(ctx, step.Command)
		if err != nil {
			s.loggers.App.Warn("script step failed", zap.Stringer("step", step), zap.Error(err))
			continue
		}
		s.loggers.App.Info("script step", zap.Stringer("step", step), zap.Object("state", state))
	}
	return nil
}

func (s *Simulator) report(ctx context.Context, start time.Time, clients []*client) error {
	ticker := s.clock.NewTicker(s.cfg.Simulation.ReportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}
		report := summarize(s.clock.Now().Sub(start), clients)
		public.Spread.Set(report.Spread)
		if err := report.Print(s.out); err != nil {
			return fmt.Errorf("print report: %w", err)
		}
	}
}

func (s *Simulator) saveSnapshot(doc *replica.Replica) error {
	snap, ok := doc.Snapshot(s.clock.Now())
	if !ok {
		s.loggers.App.Warn("document is empty, no snapshot written")
		return nil
	}
	if err := replica.SaveSnapshot(s.fs, s.cfg.Simulation.Snapshot, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.loggers.App.Info("snapshot written", zap.String("path", s.cfg.Simulation.Snapshot))
	return nil
}

func summarize(elapsed time.Duration, clients []*client) *Report {
	report := &Report{Elapsed: elapsed, Clients: make([]ClientReport, 0, len(clients))}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range clients {
		position := c.soft.Position()
		expected := c.engine.Position()
		report.Clients = append(report.Clients, ClientReport{
			Index:    c.index,
			Origin:   c.doc.Origin(),
			Rate:     c.rate,
			Position: position,
			Drift:    position - expected,
			State:    c.engine.State(),
		})
		lo, hi = min(lo, position), max(hi, position)
	}
	if len(clients) > 0 {
		report.Spread = hi - lo
	}
	return report
}
