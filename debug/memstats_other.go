//go:build !windows

package debug

import (
	"context"
	"log/slog"
	"time"
)

// StartMemLogger logs Go heap stats every interval until ctx is cancelled.
// RSS is reported as zero outside Windows.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logMemStats(logger, 0)
			}
		}
	}()
}
