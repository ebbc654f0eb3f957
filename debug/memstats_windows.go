//go:build windows

package debug

// Memory/RSS periodic logger enabled when config.Debug is true.
// Working set comes from psapi so Tk photo memory is visible next to the Go heap.

import (
	"context"
	"log/slog"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// processMemoryCounters matches PROCESS_MEMORY_COUNTERS from psapi.
type processMemoryCounters struct {
	cb                         uint32
	PageFaultCount             uint32
	PeakWorkingSetSize         uintptr
	WorkingSetSize             uintptr
	QuotaPeakPagedPoolUsage    uintptr
	QuotaPagedPoolUsage        uintptr
	QuotaPeakNonPagedPoolUsage uintptr
	QuotaNonPagedPoolUsage     uintptr
	PagefileUsage              uintptr
	PeakPagefileUsage          uintptr
}

var (
	modPsapi                 = windows.NewLazySystemDLL("psapi.dll")
	procGetProcessMemoryInfo = modPsapi.NewProc("GetProcessMemoryInfo")
)

// workingSet returns the process RSS. ok is false when psapi refuses.
func workingSet() (uint64, bool, error) {
	pmc := processMemoryCounters{cb: uint32(unsafe.Sizeof(processMemoryCounters{}))}
	r1, _, err := procGetProcessMemoryInfo.Call(uintptr(windows.CurrentProcess()), uintptr(unsafe.Pointer(&pmc)), uintptr(pmc.cb))
	if r1 == 0 {
		return 0, false, err
	}
	return uint64(pmc.WorkingSetSize), true, nil
}

// StartMemLogger launches a goroutine that logs memory stats every interval
// until ctx is cancelled. Failures to query RSS are logged once.
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
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			rss, ok, err := workingSet()
			if !ok && !rssErrLogged {
				logger.Warn("memlog: GetProcessMemoryInfo call failed", slog.Any("err", err))
				rssErrLogged = true
			}
			logMemStats(logger, rss)
		}
	}()
}
