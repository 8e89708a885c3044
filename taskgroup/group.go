// Package taskgroup runs a set of goroutines that live and die together.
package taskgroup

import (
	"context"
	"errors"
	"sync"
)

// ErrTerminated is returned by Go once the group has terminated.
var ErrTerminated = errors.New("taskgroup: terminated")

// Option modifies a Group.
type Option func(*Group)

// WithContext sets the parent context. Canceling it terminates the group.
func WithContext(ctx context.Context) Option {
	return func(g *Group) {
		g.ctx = ctx
	}
}

// Group is similar to errgroup.Group, except that Wait blocks until the
// group is terminated, either by the first failing task or by the parent
// context, and not when the last task returns.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	terminated bool
	err        error
}

// New creates a group.
func New(opts ...Option) *Group {
	g := &Group{ctx: context.Background()}
	for _, opt := range opts {
		opt(g)
	}
	g.ctx, g.cancel = context.WithCancel(g.ctx)
	return g
}

// Go runs f in a new goroutine. The first error returned by a task cancels the
// context passed to all tasks. Go may be called from inside running tasks and
// returns ErrTerminated if the group is already terminated.
func (g *Group) Go(f func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.terminated || g.ctx.Err() != nil {
		return ErrTerminated
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := f(g.ctx); err != nil {
			g.terminate(err)
		}
	}()
	return nil
}

func (g *Group) terminate(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err == nil {
		g.err = err
	}
	g.terminated = true
	g.cancel()
}

// Wait blocks until the group is terminated and all tasks have returned. It
// returns the first task error, or the parent context error. It is safe to
// call Wait from multiple goroutines.
func (g *Group) Wait() error {
	<-g.ctx.Done()
	g.terminate(g.ctx.Err())
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}
