package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrPollInFlight is returned when a poll is requested while the previous
// request to the same endpoint has not finished yet.
var ErrPollInFlight = errors.New("previous poll still in flight")

// ticker is the subset of *time.Ticker the loops need; tests substitute it.
type ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type tickerFactory func(d time.Duration) ticker

type realTicker struct{ *time.Ticker }

func (t realTicker) Chan() <-chan time.Time { return t.C }

func newRealTicker(d time.Duration) ticker { return realTicker{time.NewTicker(d)} }

// runEvery calls fn once immediately and then on every tick until ctx is done.
func runEvery(ctx context.Context, every time.Duration, newTicker tickerFactory, fn func(ctx context.Context)) {
	fn(ctx)

	t := newTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			fn(ctx)
		}
	}
}

// inflight guards an endpoint so that at most one request is outstanding.
type inflight struct {
	busy atomic.Bool
}

func (g *inflight) acquire() bool { return g.busy.CompareAndSwap(false, true) }

func (g *inflight) release() { g.busy.Store(false) }
