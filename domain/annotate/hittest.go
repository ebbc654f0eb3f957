package annotate

import (
	"log/slog"
	"time"
)

// DefaultHoverDelay is the quiescence window before a hit-test resolves.
const DefaultHoverDelay = 100 * time.Millisecond

// HighlightOverlay is the part of the overlay manager the debouncer draws with.
type HighlightOverlay interface {
	ShowDetectionHighlight(box Box, label string)
	ClearDetectionHighlight()
}

// HoverState is the debouncer's view of the pointer.
type HoverState struct {
	LastPos  Point
	Token    uint64
	Resolved int // index into the detection set, -1 for none
}

// HitTestDebouncer resolves the detection under the pointer once the pointer
// has been stationary for the configured delay.
type HitTestDebouncer struct {
	sched   Scheduler
	delay   time.Duration
	overlay HighlightOverlay
	logger  *slog.Logger

	set       DetectionSet
	available bool

	state   HoverState
	pending CancelFunc

	onChange func(prev, next int)
}

// NewHitTestDebouncer returns a debouncer with no detections attached.
func NewHitTestDebouncer(sched Scheduler, delay time.Duration, overlay HighlightOverlay, logger *slog.Logger) *HitTestDebouncer {
	if delay <= 0 {
		delay = DefaultHoverDelay
	}
	return &HitTestDebouncer{
		sched:   sched,
		delay:   delay,
		overlay: overlay,
		logger:  logger,
		state:   HoverState{Resolved: -1},
	}
}

// OnChange registers a callback invoked whenever the resolved index changes.
func (d *HitTestDebouncer) OnChange(fn func(prev, next int)) {
	if d == nil {
		return
	}
	d.onChange = fn
}

// Attach installs the detection set of a newly loaded image. Any pending
// hit-test is cancelled and the previous highlight removed first.
func (d *HitTestDebouncer) Attach(set DetectionSet) {
	if d == nil {
		return
	}
	d.Cancel()
	d.apply(-1)
	d.set = set.Clone()
	d.available = true
}

// Detach drops the detection set, e.g. before a new image is loaded.
func (d *HitTestDebouncer) Detach() {
	if d == nil {
		return
	}
	d.Cancel()
	d.apply(-1)
	d.set = nil
	d.available = false
}

// OnMotion records p and schedules a hit-test after the quiescence delay.
// Earlier timers are cancelled; if one fires anyway it is detected as stale.
func (d *HitTestDebouncer) OnMotion(p Point) error {
	if d == nil {
		return nil
	}
	d.state.LastPos = p
	d.state.Token++
	if d.pending != nil {
		d.pending()
		d.pending = nil
	}
	if !d.available {
		return ErrDetectionUnavailable
	}
	if d.sched == nil {
		return d.fire(d.state.Token, p)
	}
	token := d.state.Token
	d.pending = d.sched.After(d.delay, func() {
		if err := d.fire(token, p); err != nil && d.logger != nil {
			d.logger.Debug("hit-test dropped", "error", err, "x", p.X, "y", p.Y)
		}
	})
	return nil
}

// OnLeave is called when the pointer leaves the canvas.
func (d *HitTestDebouncer) OnLeave() {
	if d == nil {
		return
	}
	d.Cancel()
	d.apply(-1)
}

// Cancel cancels the pending hit-test, if any.
func (d *HitTestDebouncer) Cancel() {
	if d == nil {
		return
	}
	d.state.Token++
	if d.pending != nil {
		d.pending()
		d.pending = nil
	}
}

func (d *HitTestDebouncer) fire(token uint64, p Point) error {
	if token != d.state.Token || p != d.state.LastPos {
		return ErrStaleResolution
	}
	d.pending = nil
	if !d.available {
		return ErrDetectionUnavailable
	}
	d.apply(d.set.Resolve(p))
	return nil
}

// apply moves the highlight to idx. Nothing is redrawn when idx is unchanged.
func (d *HitTestDebouncer) apply(idx int) {
	prev := d.state.Resolved
	if prev == idx {
		return
	}
	if d.overlay != nil {
		d.overlay.ClearDetectionHighlight()
		if idx >= 0 {
			det := d.set[idx]
			d.overlay.ShowDetectionHighlight(det.Box, det.Label)
		}
	}
	d.state.Resolved = idx
	if d.onChange != nil {
		d.onChange(prev, idx)
	}
}

// State returns a copy of the hover state.
func (d *HitTestDebouncer) State() HoverState {
	if d == nil {
		return HoverState{Resolved: -1}
	}
	return d.state
}

// Available reports whether a detection set is attached.
func (d *HitTestDebouncer) Available() bool { return d != nil && d.available }

// Current returns the detection under the pointer, if any.
func (d *HitTestDebouncer) Current() (Detection, bool) {
	if d == nil || d.state.Resolved < 0 || d.state.Resolved >= len(d.set) {
		return Detection{}, false
	}
	return d.set[d.state.Resolved], true
}

// Detections returns a copy of the attached set.
func (d *HitTestDebouncer) Detections() DetectionSet {
	if d == nil {
		return nil
	}
	return d.set.Clone()
}
