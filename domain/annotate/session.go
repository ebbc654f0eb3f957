package annotate

import (
	"log/slog"
	"time"
)

// Options configures a Session.
type Options struct {
	HoverDelay time.Duration
	Style      StylePicker
	// ActionAvailable toggles the affordance that consumes a committed region.
	ActionAvailable func(bool)
	// SegmentsAvailable toggles the affordance that consumes detections.
	SegmentsAvailable func(bool)
}

// Session orchestrates region selection and hover hit-testing against one
// loaded image. All methods must be called from the same logical thread.
type Session struct {
	logger   *slog.Logger
	opts     Options
	overlay  *OverlayManager
	selector *RegionSelector
	hover    *HitTestDebouncer

	loaded   bool
	bounds   Box
	seq      uint64
	detState DetectionStatus
	detErr   error
	closed   bool
}

// NewSession wires the selector, debouncer and overlay manager together.
func NewSession(r Renderer, sched Scheduler, opts Options, logger *slog.Logger) *Session {
	overlay := NewOverlayManager(r, opts.Style, logger)
	s := &Session{
		logger:   logger,
		opts:     opts,
		overlay:  overlay,
		selector: NewRegionSelector(overlay, logger),
		hover:    NewHitTestDebouncer(sched, opts.HoverDelay, overlay, logger),
	}
	s.selector.OnActionChange(func(ok bool) {
		if s.opts.ActionAvailable != nil {
			s.opts.ActionAvailable(ok)
		}
	})
	return s
}

// Selector exposes the region selector, mainly to register listeners.
func (s *Session) Selector() *RegionSelector { return s.selector }

// Hover exposes the hit-test debouncer.
func (s *Session) Hover() *HitTestDebouncer { return s.hover }

// Overlay exposes the overlay manager.
func (s *Session) Overlay() *OverlayManager { return s.overlay }

// LoadImage attaches a new image of the given pixel size. It cancels any
// pending hit-test, clears both overlays, resets the region and returns the
// load sequence that detection results must quote.
func (s *Session) LoadImage(width, height int) uint64 {
	if s == nil {
		return 0
	}
	s.hover.Detach()
	s.overlay.Reset()
	s.bounds = Box{X0: 0, Y0: 0, X1: max(0, width), Y1: max(0, height)}
	s.selector.SetBounds(s.bounds)
	s.loaded = true
	s.seq++
	s.detState = DetectionsNotRequested
	s.detErr = nil
	s.segments(false)
	if s.logger != nil {
		s.logger.Info("image attached", "width", width, "height", height, "seq", s.seq)
	}
	return s.seq
}

// Loaded reports whether an image is attached.
func (s *Session) Loaded() bool { return s != nil && s.loaded }

// Bounds returns the canvas bounds of the loaded image.
func (s *Session) Bounds() Box {
	if s == nil {
		return Box{}
	}
	return s.bounds
}

// Sequence returns the current load sequence.
func (s *Session) Sequence() uint64 {
	if s == nil {
		return 0
	}
	return s.seq
}

// DetectionsRequested marks detections for seq as in flight.
func (s *Session) DetectionsRequested(seq uint64) error {
	if s == nil {
		return nil
	}
	if seq != s.seq || !s.loaded {
		return ErrStaleDetections
	}
	s.detState = DetectionsPending
	return nil
}

// AttachDetections installs the detection set produced for seq. Results for
// an image that has since been replaced are dropped.
func (s *Session) AttachDetections(seq uint64, set DetectionSet) error {
	if s == nil {
		return nil
	}
	if seq != s.seq || !s.loaded {
		return ErrStaleDetections
	}
	s.hover.Attach(set)
	s.detState = DetectionsReady
	s.detErr = nil
	s.segments(true)
	if s.logger != nil {
		s.logger.Info("detections attached", "count", len(set), "seq", seq)
	}
	return nil
}

// DetectionsFailed records a collaborator failure for seq.
func (s *Session) DetectionsFailed(seq uint64, err error) error {
	if s == nil {
		return nil
	}
	if seq != s.seq || !s.loaded {
		return ErrStaleDetections
	}
	s.hover.Detach()
	s.detState = DetectionsFailed
	s.detErr = err
	s.segments(false)
	return nil
}

// DetectionStatus returns the state of detections for the current image.
func (s *Session) DetectionStatus() (DetectionStatus, error) {
	if s == nil {
		return DetectionsNotRequested, nil
	}
	return s.detState, s.detErr
}

// BeginDrag starts a new region at p.
func (s *Session) BeginDrag(p Point) error {
	if s == nil || !s.loaded {
		return ErrNoImageLoaded
	}
	return s.selector.BeginDrag(p)
}

// UpdateDrag extends the pending region to p.
func (s *Session) UpdateDrag(p Point) error {
	if s == nil || !s.loaded {
		return ErrNoImageLoaded
	}
	return s.selector.UpdateDrag(p)
}

// EndDrag finishes the drag at p.
func (s *Session) EndDrag(p Point) error {
	if s == nil || !s.loaded {
		return ErrNoImageLoaded
	}
	return s.selector.EndDrag(p)
}

// Discard drops the current region.
func (s *Session) Discard() {
	if s == nil {
		return
	}
	s.selector.Discard()
}

// PointerMotion feeds the hover hit-test.
func (s *Session) PointerMotion(p Point) error {
	if s == nil || !s.loaded {
		return ErrNoImageLoaded
	}
	return s.hover.OnMotion(p)
}

// PointerLeave clears the hover highlight.
func (s *Session) PointerLeave() {
	if s == nil {
		return
	}
	s.hover.OnLeave()
}

// CurrentRegion returns the active region, if any.
func (s *Session) CurrentRegion() (Region, bool) {
	if s == nil {
		return Region{}, false
	}
	return s.selector.Region()
}

// CurrentHover returns the highlighted detection, if any.
func (s *Session) CurrentHover() (Detection, bool) {
	if s == nil {
		return Detection{}, false
	}
	return s.hover.Current()
}

// Detections returns a copy of the attached detection set.
func (s *Session) Detections() DetectionSet {
	if s == nil {
		return nil
	}
	return s.hover.Detections()
}

// CanAct reports whether the region consumer may run (region committed).
func (s *Session) CanAct() bool {
	return s != nil && s.loaded && s.selector.State() == StateCommitted
}

// CanViewSegments reports whether detections are ready for the current image.
func (s *Session) CanViewSegments() bool {
	return s != nil && s.loaded && s.detState == DetectionsReady
}

// Close cancels timers and clears overlays. The session is unusable after.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.hover.Detach()
	s.selector.Discard()
	s.overlay.Reset()
	s.closed = true
}

// Snapshot is a read-only copy of the session state for other goroutines.
type Snapshot struct {
	Loaded          bool         `json:"loaded"`
	Sequence        uint64       `json:"sequence"`
	Bounds          Box          `json:"bounds"`
	State           string       `json:"state"`
	Region          *Region      `json:"region,omitempty"`
	Hover           *Detection   `json:"hover,omitempty"`
	DetectionStatus string       `json:"detection_status"`
	Detections      DetectionSet `json:"detections"`
	LiveArtifacts   int          `json:"live_artifacts"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Loaded:          s.loaded,
		Sequence:        s.seq,
		Bounds:          s.bounds,
		State:           s.selector.State().String(),
		DetectionStatus: s.detState.String(),
		Detections:      s.hover.Detections(),
		LiveArtifacts:   s.overlay.LiveArtifacts(),
	}
	if r, ok := s.selector.Region(); ok {
		snap.Region = &r
	}
	if d, ok := s.hover.Current(); ok {
		snap.Hover = &d
	}
	return snap
}

func (s *Session) segments(ok bool) {
	if s.opts.SegmentsAvailable != nil {
		s.opts.SegmentsAvailable(ok)
	}
}
