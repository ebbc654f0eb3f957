package detection

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// Result is the outcome of one detection run.
type Result struct {
	Sequence uint64
	Set      annotate.DetectionSet
	Err      error
	Duration time.Duration
}

// Runner executes at most one detection at a time in the background. Starting
// a run cancels the previous one. Finished results wait in a one slot mailbox
// that the UI thread drains with Poll; a newer result replaces an unread one.
type Runner struct {
	engine Engine
	thresh Thresholds
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	resultCh chan Result
	runs     atomic.Uint64
	failures atomic.Uint64
}

// NewRunner wraps engine. Output is passed through Filter with t.
func NewRunner(engine Engine, t Thresholds, logger *slog.Logger) *Runner {
	return &Runner{engine: engine, thresh: t, logger: logger, resultCh: make(chan Result, 1)}
}

// Start launches detection for the image loaded as seq.
func (r *Runner) Start(parent context.Context, seq uint64, req Request) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.mu.Unlock()

	r.runs.Add(1)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer recoverLog(r.logger, "detection goroutine panic")
		res := r.run(ctx, seq, req)
		if ctx.Err() != nil {
			// superseded or shut down
			return
		}
		r.deliver(res)
	}()
}

func (r *Runner) run(ctx context.Context, seq uint64, req Request) Result {
	start := time.Now()
	res := Result{Sequence: seq}
	if r.engine == nil {
		res.Err = ErrNoEngine
		return res
	}
	set, err := r.engine.Detect(ctx, req)
	res.Duration = time.Since(start)
	if err != nil {
		r.failures.Add(1)
		res.Err = err
		if r.logger != nil {
			r.logger.Warn("detection failed", "seq", seq, "error", err, "elapsed", res.Duration)
		}
		return res
	}
	res.Set = Filter(set, r.thresh)
	if r.logger != nil {
		r.logger.Info("detection finished", "seq", seq, "raw", len(set), "kept", len(res.Set), "elapsed", res.Duration)
	}
	return res
}

func (r *Runner) deliver(res Result) {
	select {
	case r.resultCh <- res:
	default:
		select {
		case <-r.resultCh:
		default:
		}
		select {
		case r.resultCh <- res:
		default:
		}
	}
}

// Poll returns a finished result without blocking.
func (r *Runner) Poll() (Result, bool) {
	if r == nil {
		return Result{}, false
	}
	select {
	case res := <-r.resultCh:
		return res, true
	default:
		return Result{}, false
	}
}

// Results exposes the mailbox for callers that prefer to block.
func (r *Runner) Results() <-chan Result { return r.resultCh }

// Cancel stops the run in flight, if any.
func (r *Runner) Cancel() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()
}

// Close cancels the current run and waits for its goroutine to exit.
func (r *Runner) Close() {
	if r == nil {
		return
	}
	r.Cancel()
	r.wg.Wait()
}

// Stats returns the number of runs started and failed.
func (r *Runner) Stats() (runs, failures uint64) {
	return r.runs.Load(), r.failures.Load()
}

func recoverLog(logger *slog.Logger, msg string) {
	if rec := recover(); rec != nil {
		if logger != nil {
			logger.Error(msg, "error", rec)
		}
	}
}
