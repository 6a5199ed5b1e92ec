package booking

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/seat-arbiter/internal/model"
)

// Dispatcher puts a scheduler in front of a pool for callers that arrive
// one at a time.  The first request of a burst opens a window; when it
// closes, everything that queued up meanwhile is drained VIP first and
// claimed in that order.  Each Submit blocks until its own outcome is
// known.
type Dispatcher struct {
	pool   Claimer
	sched  *Scheduler
	window time.Duration

	mu      sync.Mutex
	closed  bool
	waiters map[uint64]chan model.Outcome // nil value: caller gave up

	abandoned func(model.Outcome)

	flushMu sync.Mutex
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAbandonedHook registers fn to receive the outcome of every request
// whose Submit returned early because its context ended.  fn runs on the
// drain goroutine and should not block.
func WithAbandonedHook(fn func(model.Outcome)) DispatcherOption {
	return func(d *Dispatcher) { d.abandoned = fn }
}

// NewDispatcher starts the drain loop.  A zero window drains as soon as a
// request arrives.  Call Close to stop it.
func NewDispatcher(pool Claimer, window time.Duration, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		pool:    pool,
		sched:   NewScheduler(),
		window:  window,
		waiters: make(map[uint64]chan model.Outcome),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.run()
	return d
}

// Submit queues req and waits for its outcome.  If ctx ends first the
// error from ctx is returned; the request stays queued and is still
// claimed, and its outcome goes to the abandoned hook instead.  A request
// already taken by a drain when ctx ends still returns its outcome.
func (d *Dispatcher) Submit(ctx context.Context, req model.BookingRequest) (model.Outcome, error) {
	reply := make(chan model.Outcome, 1)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return model.Outcome{}, ErrDispatcherClosed
	}
	req = d.sched.Submit(req)
	d.waiters[req.Sequence] = reply
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}

	select {
	case o := <-reply:
		return o, nil
	case <-ctx.Done():
	}

	d.mu.Lock()
	_, queued := d.waiters[req.Sequence]
	if queued {
		d.waiters[req.Sequence] = nil
	}
	d.mu.Unlock()
	if !queued {
		return <-reply, nil
	}
	return model.Outcome{}, ctx.Err()
}

// Pending reports how many requests are waiting for the next drain.
func (d *Dispatcher) Pending() int { return d.sched.Pending() }

// Flush drains the scheduler right away and returns the number of
// requests claimed.
func (d *Dispatcher) Flush() int {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	reqs := d.sched.Drain()
	for _, req := range reqs {
		o := claim(d.pool, req)

		// Submit registers its waiter under mu before releasing it, so the
		// lookup here always finds it.
		d.mu.Lock()
		reply, waiting := d.waiters[req.Sequence]
		delete(d.waiters, req.Sequence)
		d.mu.Unlock()

		switch {
		case reply != nil:
			reply <- o
		case waiting && d.abandoned != nil:
			d.abandoned(o)
		}
	}
	return len(reqs)
}

// Close rejects new submissions, claims whatever is still queued and
// stops the drain loop.  It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.stop)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.stop:
			d.Flush()
			return
		case <-d.wake:
		}

		if d.window > 0 {
			t := time.NewTimer(d.window)
			select {
			case <-t.C:
			case <-d.stop:
				t.Stop()
				d.Flush()
				return
			}
		}
		d.Flush()
	}
}
