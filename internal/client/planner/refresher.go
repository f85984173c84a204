package planner

import (
	"context"
	"errors"
	"sync"

	"github.com/atinyakov/WorkPlanner/internal/client/timeline"
)

// ErrSuperseded is returned by Refresher.Load when a newer load started (or
// Stop was called) before this one finished. Its result is discarded.
var ErrSuperseded = errors.New("load superseded by a newer request")

// LoadFunc produces a board.
type LoadFunc func(ctx context.Context) (timeline.Board, error)

// Refresher applies the most recent load only. Starting a load cancels the
// one in flight, and a load that finishes after being superseded never
// replaces the current board.
type Refresher struct {
	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current timeline.Board
}

// Load runs fn and, if no newer load started meanwhile and fn succeeded,
// makes its board current.
func (r *Refresher) Load(ctx context.Context, fn LoadFunc) (timeline.Board, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	r.cancel = cancel
	r.mu.Unlock()

	b, err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return timeline.Board{}, ErrSuperseded
	}
	r.cancel = nil
	if err != nil {
		return timeline.Board{}, err
	}
	r.current = b
	return b, nil
}

// Stop cancels the load in flight, if any, discards its result and
// forgets the current board.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	r.current = timeline.Board{}
}

// Current returns the board of the last load that was applied.
func (r *Refresher) Current() timeline.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
