// Package session binds a timesync engine to a shared document and, when the
// transport is software driven, to the changes users make on it directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tempomesh/go-tempomesh/log"
	"github.com/tempomesh/go-tempomesh/timeline"
	"github.com/tempomesh/go-tempomesh/timesync"
	"github.com/tempomesh/go-tempomesh/transport"
)

// Document is the eventually consistent store the timeline is shared through.
type Document interface {
	Publish(ctx context.Context, s timeline.State) error
	Subscribe(func(timeline.State)) (unsubscribe func())
}

// Opt modifies Client behavior.
type Opt func(*Client)

// WithLogger modifies the logger used by the client.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithConfig modifies the publish throttling.
func WithConfig(cfg Config) Opt {
	return func(c *Client) {
		c.cfg = cfg
	}
}

// WithTransport observes a software transport for changes made by the user.
// The engine must drive soft.Driver(), so its own corrections are not adopted
// as user changes.
func WithTransport(soft *transport.Soft) Opt {
	return func(c *Client) {
		c.soft = soft
	}
}

// WithTempoObserver is called with the rounded tempo whenever a peer changes it.
func WithTempoObserver(fn func(bpm int)) Opt {
	return func(c *Client) {
		c.onTempo = fn
	}
}

// Client is one participant of a shared timeline session.
type Client struct {
	logger  *zap.Logger
	cfg     Config
	engine  *timesync.Engine
	doc     Document
	soft    *transport.Soft
	onTempo func(bpm int)

	limiter *rate.Limiter
	dirty   chan struct{}
	started chan struct{}
	running atomic.Bool
}

// ErrAlreadyRunning is returned by Run if the client is already running.
var ErrAlreadyRunning = errors.New("session: already running")

// New creates a client. Run must be called to receive states from the document.
func New(engine *timesync.Engine, doc Document, opts ...Opt) *Client {
	c := &Client{
		logger:  log.NewNop(),
		cfg:     DefaultConfig(),
		engine:  engine,
		doc:     doc,
		dirty:   make(chan struct{}, 1),
		started: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.limiter = rate.NewLimiter(rate.Limit(c.cfg.PublishRate), c.cfg.PublishBurst)
	if c.soft != nil {
		c.soft.OnChange(c.transportChanged)
	}
	return c
}

// Engine returns the engine driven by the client.
func (c *Client) Engine() *timesync.Engine {
	return c.engine
}

// Started is closed once Run has subscribed to the document.
func (c *Client) Started() <-chan struct{} {
	return c.started
}

// Run applies states from the document to the engine and publishes throttled
// transport changes until ctx is canceled. A client runs at most once.
func (c *Client) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	detach := c.engine.OnTempoChange(c.tempoChanged)
	defer detach()
	unsubscribe := c.doc.Subscribe(c.engine.ApplyRemote)
	defer unsubscribe()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return c.publishLoop(ctx)
	})
	close(c.started)
	c.logger.Debug("session started")

	err := eg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Do executes a command and publishes the resulting state.
func (c *Client) Do(ctx context.Context, cmd Command) (timeline.State, error) {
	if !c.engine.Initialized() {
		return c.engine.State(), fmt.Errorf("%s: %w", cmd, timesync.ErrNotInitialized)
	}
	state := cmd.Apply(c.engine)
	if err := c.doc.Publish(ctx, state); err != nil {
		return state, fmt.Errorf("publish %s: %w", cmd, err)
	}
	publishes.WithLabelValues(sourceCommand).Inc()
	c.logger.Debug("command published", zap.Stringer("command", cmd), zap.Object("state", state))
	return state, nil
}

func (c *Client) publishLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.dirty:
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		state := c.engine.State()
		if err := c.doc.Publish(ctx, state); err != nil {
			c.logger.Warn("failed to publish transport change", zap.Error(err))
			continue
		}
		publishes.WithLabelValues(sourceTransport).Inc()
	}
}

// transportChanged adopts changes made on the transport by anything but the engine.
func (c *Client) transportChanged(change transport.Change) {
	if change.Driven {
		return
	}
	switch change.Kind {
	case transport.Started:
		c.engine.Resume()
	case transport.Paused:
		c.engine.Pause()
	case transport.TempoChanged:
		c.engine.SetTempo(change.Tempo)
	case transport.Seeked:
		if change.Position != 0 {
			c.logger.Debug("ignoring transport seek", log.ZPosition(change.Position))
			return
		}
		c.engine.Reset()
	}
	select {
	case c.dirty <- struct{}{}:
	default:
	}
}

func (c *Client) tempoChanged(bpm int) {
	c.logger.Info("tempo changed by peer", zap.Int("bpm", bpm))
	if c.onTempo != nil {
		c.onTempo(bpm)
	}
}
