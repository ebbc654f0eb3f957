package annotate

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Dispatcher serialises work onto a single goroutine. It doubles as the
// Scheduler for sessions that run without a GUI event loop: timers fire on a
// background goroutine and post their callback back onto the loop.
type Dispatcher struct {
	logger *slog.Logger
	events chan func()
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewDispatcher returns a dispatcher with a queue of the given depth.
func NewDispatcher(logger *slog.Logger, depth int) *Dispatcher {
	if depth <= 0 {
		depth = 64
	}
	return &Dispatcher{logger: logger, events: make(chan func(), depth), done: make(chan struct{})}
}

// Run executes posted work until ctx is cancelled or Close is called. A panic
// in one callback is logged and the loop keeps going.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn, ok := <-d.events:
			if !ok {
				return
			}
			d.exec(fn)
		}
	}
}

func (d *Dispatcher) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil && d.logger != nil {
			d.logger.Error("dispatcher panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Post queues fn. It reports false once the dispatcher is closed.
func (d *Dispatcher) Post(fn func()) bool {
	if d == nil || fn == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	select {
	case d.events <- fn:
		return true
	case <-d.done:
		return false
	}
}

// Do posts fn and waits for it to run, for ctx to end or for the loop to stop.
func (d *Dispatcher) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if !d.Post(func() { fn(); close(ran) }) {
		return context.Canceled
	}
	select {
	case <-ran:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		select {
		case <-ran:
			return nil
		default:
			return context.Canceled
		}
	}
}

// After runs fn on the loop after delay. The returned CancelFunc prevents the
// callback from running if it has not started yet.
func (d *Dispatcher) After(delay time.Duration, fn func()) CancelFunc {
	var cancelled atomic.Bool
	t := time.AfterFunc(delay, func() {
		if cancelled.Load() {
			return
		}
		d.Post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Close stops accepting work. Callbacks still queued run before Run returns.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.events)
}

// Done is closed when Run returns.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

var _ Scheduler = (*Dispatcher)(nil)
