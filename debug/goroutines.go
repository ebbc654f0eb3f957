package debug

// Runtime gauges logged at a fixed interval when config.Debug is true.
// Covers goroutine count, stack usage and any caller-supplied gauges such as
// live canvas artifacts, so a leak in hover or region drawing shows up here.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// Gauge reports a single named value sampled on every tick.
type Gauge struct {
	Name  string
	Value func() int
}

// StartGoroutineLogger launches a ticker that logs goroutine count, stack
// memory and the extra gauges until ctx is cancelled.
func StartGoroutineLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, gauges ...Gauge) {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		return
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			attrs := []any{
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("stack_sys", ms.StackSys),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
			}
			for _, g := range gauges {
				if g.Value != nil {
					attrs = append(attrs, slog.Int(g.Name, g.Value()))
				}
			}
			logger.Info("runtime-gauges", attrs...)
		}
	}()
}
