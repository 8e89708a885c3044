// Package replica simulates the eventually consistent document that clients
// share their timeline through.
//
// A Network delivers every published envelope to all other joined replicas
// after a jittered latency, possibly more than once. Each Replica keeps a
// last-writer-wins register of the timeline state and notifies subscribers of
// states written by other replicas.
package replica

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/codec"
	"github.com/tempomesh/go-tempomesh/log"
)

// NetworkOpt modifies Network behavior.
type NetworkOpt func(*Network)

// WithLogger modifies the logger used by the network and its replicas.
func WithLogger(logger *zap.Logger) NetworkOpt {
	return func(n *Network) {
		n.logger = logger
	}
}

// WithClock modifies the clock used to delay deliveries.
func WithClock(clock clockwork.Clock) NetworkOpt {
	return func(n *Network) {
		n.clock = clock
	}
}

// WithConfig modifies the latency and deduplication parameters.
func WithConfig(cfg Config) NetworkOpt {
	return func(n *Network) {
		n.cfg = cfg
	}
}

// WithRand sets the random source for latency jitter and duplication.
func WithRand(rng *rand.Rand) NetworkOpt {
	return func(n *Network) {
		n.rng = rng
	}
}

// Network is an in-process broadcast medium between replicas.
type Network struct {
	logger *zap.Logger
	clock  clockwork.Clock
	cfg    Config

	mu       sync.Mutex
	rng      *rand.Rand
	replicas map[uuid.UUID]*Replica
	pending  map[*delivery]struct{}
	closed   bool
	wg       sync.WaitGroup
}

type delivery struct {
	timer clockwork.Timer
}

// NewNetwork creates an empty network.
func NewNetwork(opts ...NetworkOpt) *Network {
	n := &Network{
		logger:   log.NewNop(),
		clock:    clockwork.NewRealClock(),
		cfg:      DefaultConfig(),
		replicas: map[uuid.UUID]*Replica{},
		pending:  map[*delivery]struct{}{},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return n
}

// Join adds a replica with a fresh origin to the network. It returns
// ErrClosed if the network was closed.
func (n *Network) Join() (*Replica, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrClosed
	}
	r := newReplica(n, uuid.New())
	n.replicas[r.origin] = r
	n.logger.Debug("replica joined", log.ZOrigin(r.origin.String()), zap.Int("replicas", len(n.replicas)))
	return r, nil
}

// Replicas returns the number of joined replicas.
func (n *Network) Replicas() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.replicas)
}

func (n *Network) leave(origin uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.replicas, origin)
}

// broadcast schedules delivery of env to every replica except its origin.
func (n *Network) broadcast(env *Envelope) {
	data := codec.MustEncode(env)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	for origin, r := range n.replicas {
		if origin == env.Origin {
			continue
		}
		n.schedule(r, data)
		if n.cfg.DuplicateRate > 0 && n.rng.Float64() < n.cfg.DuplicateRate {
			n.schedule(r, data)
		}
	}
}

// schedule must be called with the lock held.
func (n *Network) schedule(r *Replica, data []byte) {
	d := &delivery{}
	n.pending[d] = struct{}{}
	n.wg.Add(1)
	inflight.Inc()
	d.timer = n.clock.AfterFunc(n.delay(), func() {
		defer n.wg.Done()
		defer inflight.Dec()
		n.mu.Lock()
		_, ok := n.pending[d]
		delete(n.pending, d)
		n.mu.Unlock()
		if ok {
			r.receive(data)
		}
	})
}

// delay must be called with the lock held.
func (n *Network) delay() time.Duration {
	jitter := n.cfg.LatencyJitter
	if jitter <= 0 {
		return n.cfg.Latency
	}
	return n.cfg.Latency - jitter + time.Duration(n.rng.Int64N(int64(2*jitter)+1))
}

// Wait blocks until every scheduled delivery was received or dropped.
func (n *Network) Wait() {
	n.wg.Wait()
}

// Close drops pending deliveries and closes all replicas.
func (n *Network) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	for d := range n.pending {
		delete(n.pending, d)
		if d.timer.Stop() {
			n.wg.Done()
			inflight.Dec()
		}
	}
	replicas := make([]*Replica, 0, len(n.replicas))
	for _, r := range n.replicas {
		replicas = append(replicas, r)
	}
	n.mu.Unlock()

	for _, r := range replicas {
		r.Close()
	}
	n.wg.Wait()
}
