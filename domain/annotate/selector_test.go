package annotate

import (
	"errors"
	"testing"
)

func newTestSelector() (*RegionSelector, *fakeRenderer, *[]bool) {
	r := newFakeRenderer()
	om := NewOverlayManager(r, newFixedStyle(), discardLogger)
	s := NewRegionSelector(om, discardLogger)
	var actions []bool
	s.OnActionChange(func(ok bool) { actions = append(actions, ok) })
	s.SetBounds(Box{X1: 640, Y1: 480})
	return s, r, &actions
}

func TestRegionSelector_CommitFlow(t *testing.T) {
	s, r, actions := newTestSelector()
	var seq []SelectorState
	s.AddListener(func(prev, next SelectorState) { seq = append(seq, next) })

	if err := s.BeginDrag(Pt(0, 0)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.UpdateDrag(Pt(50, 60)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rects := r.liveRects(); len(rects) != 1 || rects[0] != "rect:red" {
		t.Fatalf("expected one pending outline, got %v", rects)
	}
	if err := s.EndDrag(Pt(100, 100)); err != nil {
		t.Fatalf("end: %v", err)
	}
	reg, ok := s.Region()
	if !ok || reg.Status != RegionCommitted || reg.Box != (Box{X0: 0, Y0: 0, X1: 100, Y1: 100}) {
		t.Fatalf("unexpected region %+v ok=%v", reg, ok)
	}
	if rects := r.liveRects(); len(rects) != 1 || rects[0] != "rect:green" {
		t.Fatalf("expected one committed outline, got %v", rects)
	}
	if len(*actions) == 0 || !(*actions)[len(*actions)-1] {
		t.Fatalf("action not enabled: %v", *actions)
	}
	if len(seq) != 2 || seq[0] != StateDragging || seq[1] != StateCommitted {
		t.Fatalf("unexpected transitions %v", seq)
	}
}

func TestRegionSelector_ReverseDragNormalizes(t *testing.T) {
	s, _, _ := newTestSelector()
	_ = s.BeginDrag(Pt(110, 220))
	_ = s.EndDrag(Pt(10, 20))
	reg, _ := s.Region()
	if reg.Box != (Box{X0: 10, Y0: 20, X1: 110, Y1: 220}) {
		t.Fatalf("unexpected box %v", reg.Box)
	}
}

func TestRegionSelector_DegenerateClickIsRejected(t *testing.T) {
	s, r, actions := newTestSelector()
	_ = s.BeginDrag(Pt(5, 5))
	err := s.EndDrag(Pt(5, 5))
	if !errors.Is(err, ErrDegenerateRegion) {
		t.Fatalf("expected ErrDegenerateRegion, got %v", err)
	}
	if s.State() != StateEmpty {
		t.Fatalf("expected empty, got %v", s.State())
	}
	if r.liveCount() != 0 {
		t.Fatalf("outline left behind: %d", r.liveCount())
	}
	for _, a := range *actions {
		if a {
			t.Fatalf("action must never be enabled")
		}
	}
}

func TestRegionSelector_NewDragReplacesCommitted(t *testing.T) {
	s, r, actions := newTestSelector()
	_ = s.BeginDrag(Pt(0, 0))
	_ = s.EndDrag(Pt(100, 100))
	_ = s.BeginDrag(Pt(200, 200))
	if s.State() != StateDragging {
		t.Fatalf("expected dragging, got %v", s.State())
	}
	if r.liveCount() != 0 {
		t.Fatalf("committed outline should be removed, live=%d", r.liveCount())
	}
	if (*actions)[len(*actions)-1] {
		t.Fatalf("action should be disabled while re-dragging")
	}
	_ = s.UpdateDrag(Pt(250, 260))
	_ = s.UpdateDrag(Pt(300, 300))
	if len(r.liveRects()) != 1 {
		t.Fatalf("expected one outline during drag, got %v", r.liveRects())
	}
}

func TestRegionSelector_DiscardIsIdempotent(t *testing.T) {
	s, r, _ := newTestSelector()
	_ = s.BeginDrag(Pt(0, 0))
	_ = s.EndDrag(Pt(10, 10))
	s.Discard()
	s.Discard()
	if s.State() != StateEmpty || r.liveCount() != 0 {
		t.Fatalf("state=%v live=%d", s.State(), r.liveCount())
	}
	if _, ok := s.Region(); ok {
		t.Fatalf("no region expected after discard")
	}
}

func TestRegionSelector_UpdateWithoutDrag(t *testing.T) {
	s, _, _ := newTestSelector()
	if err := s.UpdateDrag(Pt(1, 1)); !errors.Is(err, ErrNoDrag) {
		t.Fatalf("expected ErrNoDrag, got %v", err)
	}
	if err := s.EndDrag(Pt(1, 1)); !errors.Is(err, ErrNoDrag) {
		t.Fatalf("expected ErrNoDrag, got %v", err)
	}
}

func TestRegionSelector_NoImage(t *testing.T) {
	s := NewRegionSelector(NewOverlayManager(newFakeRenderer(), nil, nil), nil)
	if err := s.BeginDrag(Pt(1, 1)); !errors.Is(err, ErrNoImageLoaded) {
		t.Fatalf("expected ErrNoImageLoaded, got %v", err)
	}
}

func TestRegionSelector_ClampsToBounds(t *testing.T) {
	s, _, _ := newTestSelector()
	_ = s.BeginDrag(Pt(-20, -20))
	_ = s.EndDrag(Pt(900, 900))
	reg, _ := s.Region()
	if reg.Box != (Box{X0: 0, Y0: 0, X1: 640, Y1: 480}) {
		t.Fatalf("unexpected clamped box %v", reg.Box)
	}
}
