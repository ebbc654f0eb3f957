package annotate

import "log/slog"

// OutlineOverlay is the part of the overlay manager the selector draws with.
type OutlineOverlay interface {
	ShowRegionOutline(box Box, style RectStyle)
	ClearRegionOutline()
}

// RegionSelector turns press/drag/release/double-click events into a
// committed rectangular region.
type RegionSelector struct {
	overlay OutlineOverlay
	logger  *slog.Logger

	loaded bool
	bounds Box

	state    SelectorState
	start    Point
	hasStart bool
	region   Region

	listeners []SelectorListener
	onAction  func(available bool)
}

// NewRegionSelector returns a selector in the Empty state with no image.
func NewRegionSelector(overlay OutlineOverlay, logger *slog.Logger) *RegionSelector {
	return &RegionSelector{overlay: overlay, logger: logger}
}

// AddListener registers a transition listener.
func (s *RegionSelector) AddListener(l SelectorListener) {
	if s == nil || l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
}

// OnActionChange registers the callback that enables or disables the
// downstream action once a region is committed or dropped.
func (s *RegionSelector) OnActionChange(fn func(available bool)) {
	if s == nil {
		return
	}
	s.onAction = fn
}

// SetBounds attaches a new image of the given bounds and resets to Empty.
func (s *RegionSelector) SetBounds(bounds Box) {
	if s == nil {
		return
	}
	s.reset()
	s.loaded = true
	s.bounds = bounds
}

// BeginDrag records the start point. A drag or committed region in progress
// is replaced and its outline removed first.
func (s *RegionSelector) BeginDrag(p Point) error {
	if s == nil {
		return nil
	}
	if !s.loaded {
		return ErrNoImageLoaded
	}
	if s.state != StateEmpty {
		s.overlay.ClearRegionOutline()
		s.region.Status = RegionDiscarded
		s.action(false)
	}
	p = s.clampPoint(p)
	s.start, s.hasStart = p, true
	s.region = Region{Box: Normalize(p, p), Status: RegionPending}
	s.transition(StateDragging)
	return nil
}

// UpdateDrag redraws the pending outline from the start point to p.
func (s *RegionSelector) UpdateDrag(p Point) error {
	if s == nil {
		return nil
	}
	if s.state != StateDragging || !s.hasStart {
		return ErrNoDrag
	}
	box := Normalize(s.start, s.clampPoint(p))
	s.region.Box = box
	s.overlay.ShowRegionOutline(box, StylePending)
	return nil
}

// EndDrag commits the region spanned from the start point to p. A degenerate
// box clears the outline and returns to Empty without committing.
func (s *RegionSelector) EndDrag(p Point) error {
	if s == nil {
		return nil
	}
	if s.state != StateDragging || !s.hasStart {
		return ErrNoDrag
	}
	box := Normalize(s.start, s.clampPoint(p))
	if box.Degenerate() {
		s.overlay.ClearRegionOutline()
		s.hasStart = false
		s.region = Region{Box: box, Status: RegionDiscarded}
		s.transition(StateEmpty)
		return ErrDegenerateRegion
	}
	s.overlay.ShowRegionOutline(box, StyleCommitted)
	s.region = Region{Box: box, Status: RegionCommitted}
	s.transition(StateCommitted)
	s.action(true)
	if s.logger != nil {
		s.logger.Info("region committed", "box", box.String())
	}
	return nil
}

// Discard drops any pending or committed region. Calling it repeatedly is a
// no-op.
func (s *RegionSelector) Discard() {
	if s == nil {
		return
	}
	wasActive := s.state != StateEmpty
	s.overlay.ClearRegionOutline()
	s.hasStart = false
	if wasActive {
		s.region.Status = RegionDiscarded
	}
	s.transition(StateEmpty)
	s.action(false)
}

// State returns the current lifecycle state.
func (s *RegionSelector) State() SelectorState {
	if s == nil {
		return StateEmpty
	}
	return s.state
}

// Region returns the active region, pending or committed.
func (s *RegionSelector) Region() (Region, bool) {
	if s == nil || s.state == StateEmpty {
		return Region{}, false
	}
	return s.region, true
}

func (s *RegionSelector) reset() {
	s.overlay.ClearRegionOutline()
	s.hasStart = false
	s.region = Region{}
	s.transition(StateEmpty)
	s.action(false)
}

func (s *RegionSelector) clampPoint(p Point) Point {
	b := s.bounds
	if b.Degenerate() {
		return p
	}
	return Point{X: max(b.X0, min(p.X, b.X1)), Y: max(b.Y0, min(p.Y, b.Y1))}
}

func (s *RegionSelector) transition(next SelectorState) {
	prev := s.state
	if prev == next {
		return
	}
	s.state = next
	if s.logger != nil {
		s.logger.Debug("region state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range s.listeners {
		l(prev, next)
	}
}

func (s *RegionSelector) action(available bool) {
	if s.onAction != nil {
		s.onAction(available)
	}
}
