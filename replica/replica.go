package replica

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/tempomesh/go-tempomesh/codec"
	"github.com/tempomesh/go-tempomesh/hash"
	"github.com/tempomesh/go-tempomesh/log"
	"github.com/tempomesh/go-tempomesh/timeline"
)

// ErrClosed is returned by operations on a closed replica or network.
var ErrClosed = errors.New("replica: closed")

// Replica is one client's copy of the shared timeline document.
type Replica struct {
	logger  *zap.Logger
	network *Network
	origin  uuid.UUID

	// deliver serializes receives so subscribers observe states in register order.
	deliver sync.Mutex

	mu      sync.Mutex
	closed  bool
	lamport uint64
	latest  *Envelope
	seen    *lru.Cache[hash.Digest, struct{}]
	subs    map[uint64]func(timeline.State)
	nextSub uint64
}

func newReplica(n *Network, origin uuid.UUID) *Replica {
	seen, err := lru.New[hash.Digest, struct{}](n.cfg.DedupWindow)
	if err != nil {
		n.logger.Panic("could not initialize dedup cache", zap.Error(err))
	}
	return &Replica{
		logger:  n.logger.With(log.ZOrigin(origin.String())),
		network: n,
		origin:  origin,
		seen:    seen,
		subs:    map[uint64]func(timeline.State){},
	}
}

// Origin returns the identity that tags envelopes written by this replica.
func (r *Replica) Origin() uuid.UUID {
	return r.origin
}

// Publish writes s to the document and broadcasts it to the other replicas.
func (r *Replica) Publish(ctx context.Context, s timeline.State) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.lamport++
	env := &Envelope{Origin: r.origin, Lamport: r.lamport, State: s.Clone()}
	r.latest = env
	r.seen.Add(env.ID(), struct{}{})
	r.mu.Unlock()

	published.Inc()
	r.logger.Debug("publishing state", zap.Uint64("lamport", env.Lamport), zap.Object("state", env.State))
	r.network.broadcast(env)
	return nil
}

// Subscribe registers fn to receive states written by other replicas that win
// over the current register. The returned function unsubscribes.
func (r *Replica) Subscribe(fn func(timeline.State)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSub++
	id := r.nextSub
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Latest returns the current register value and whether anything was written yet.
func (r *Replica) Latest() (timeline.State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return timeline.State{}, false
	}
	return r.latest.State.Clone(), true
}

// Lamport returns the current Lamport clock of the replica.
func (r *Replica) Lamport() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lamport
}

// Close leaves the network and drops subscribers. Pending deliveries are ignored.
func (r *Replica) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.subs = map[uint64]func(timeline.State){}
	r.mu.Unlock()
	r.network.leave(r.origin)
}

func (r *Replica) receive(data []byte) {
	r.deliver.Lock()
	defer r.deliver.Unlock()

	var env Envelope
	if err := codec.Decode(data, &env); err != nil {
		deliveries.WithLabelValues(invalid).Inc()
		r.logger.Warn("dropping undecodable envelope", zap.Error(err))
		return
	}
	state, subs, outcome := r.merge(&env, hash.Sum(data))
	deliveries.WithLabelValues(outcome).Inc()
	if outcome != applied {
		return
	}
	r.logger.Debug("applied remote envelope",
		log.ZOrigin(env.Origin.String()),
		zap.Uint64("lamport", env.Lamport),
	)
	for _, fn := range subs {
		fn(state.Clone())
	}
}

// merge updates the register and returns the subscribers to notify.
func (r *Replica) merge(env *Envelope, id hash.Digest) (timeline.State, []func(timeline.State), string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return timeline.State{}, nil, stale
	}
	if r.seen.Contains(id) {
		return timeline.State{}, nil, duplicate
	}
	r.seen.Add(id, struct{}{})
	if env.Origin == r.origin {
		return timeline.State{}, nil, echo
	}
	r.lamport = max(r.lamport, env.Lamport)
	if !env.Newer(r.latest) {
		return timeline.State{}, nil, stale
	}
	r.latest = env
	subs := make([]func(timeline.State), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	return env.State, subs, applied
}
