package store

import (
	"context"
	"sync"
	"time"

	"github.com/Rahulsaha30/projectmanagement/internal/obs"
)

// Poller re-runs a fetch on an interval until stopped. Once Stop
// returns, no further fetch runs, so a torn-down observer never
// receives a late result.
type Poller struct {
	interval time.Duration
	fetch    func(context.Context) error

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

// NewPoller wraps fetch with a periodic schedule. Intervals below one
// second are raised to one second.
func NewPoller(interval time.Duration, fetch func(context.Context) error) *Poller {
	if interval < time.Second {
		interval = time.Second
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		stop:     make(chan struct{}),
	}
}

// Start fetches immediately, then on every tick, until Stop is called
// or ctx is cancelled. It returns after launching the background loop.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		p.run(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.run(ctx)
			case <-p.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts polling. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stopped {
		p.stopped = true
		close(p.stop)
	}
}

// run skips the fetch if Stop won the race with a pending tick.
func (p *Poller) run(ctx context.Context) {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return
	}
	if err := p.fetch(ctx); err != nil {
		obs.Logger().WithField("err", err).Debug("poll fetch failed")
	}
}
