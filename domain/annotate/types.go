package annotate

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// Sentinel errors. None of them is fatal: the session absorbs them and callers
// typically only log them at debug level.
var (
	ErrNoImageLoaded        = errors.New("no image loaded")
	ErrDegenerateRegion     = errors.New("degenerate region")
	ErrStaleResolution      = errors.New("stale hit-test resolution")
	ErrDetectionUnavailable = errors.New("detections not available")
	ErrNoDrag               = errors.New("no drag in progress")
	ErrStaleDetections      = errors.New("detections belong to a previous image")
)

// Point is a position in canvas pixel space.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Box is an axis-aligned box with X0<=X1 and Y0<=Y1. Both edges are part of
// the box. A Box may be degenerate (zero width or height).
type Box struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Normalize returns the box spanned by two corner points.
func Normalize(a, b Point) Box {
	return Box{
		X0: min(a.X, b.X),
		Y0: min(a.Y, b.Y),
		X1: max(a.X, b.X),
		Y1: max(a.Y, b.Y),
	}
}

// Degenerate reports whether the box has zero width or zero height.
func (b Box) Degenerate() bool { return b.X0 == b.X1 || b.Y0 == b.Y1 }

// Contains reports inclusive containment: X0<=x<=X1 and Y0<=y<=Y1.
func (b Box) Contains(p Point) bool {
	return b.X0 <= p.X && p.X <= b.X1 && b.Y0 <= p.Y && p.Y <= b.Y1
}

// Width and Height of the box in pixels.
func (b Box) Width() int  { return b.X1 - b.X0 }
func (b Box) Height() int { return b.Y1 - b.Y0 }

// Clamp limits the box to bounds. The result may become degenerate.
func (b Box) Clamp(bounds Box) Box {
	c := func(v, lo, hi int) int { return max(lo, min(v, hi)) }
	return Box{
		X0: c(b.X0, bounds.X0, bounds.X1),
		Y0: c(b.Y0, bounds.Y0, bounds.Y1),
		X1: c(b.X1, bounds.X0, bounds.X1),
		Y1: c(b.Y1, bounds.Y0, bounds.Y1),
	}
}

// Rect converts the box into an image.Rectangle (Max is exclusive there).
func (b Box) Rect() image.Rectangle { return image.Rect(b.X0, b.Y0, b.X1, b.Y1) }

// BoxFromRect converts an image.Rectangle into a Box.
func BoxFromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X0: r.Min.X, Y0: r.Min.Y, X1: r.Max.X, Y1: r.Max.Y}
}

func (b Box) String() string {
	return fmt.Sprintf("x0=%d, y0=%d, x1=%d, y1=%d", b.X0, b.Y0, b.X1, b.Y1)
}

// RegionStatus is the lifecycle status of a Region.
type RegionStatus int

const (
	RegionPending RegionStatus = iota
	RegionCommitted
	RegionDiscarded
)

// MarshalText encodes the status by name.
func (s RegionStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s RegionStatus) String() string {
	switch s {
	case RegionPending:
		return "pending"
	case RegionCommitted:
		return "committed"
	case RegionDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Region is the rectangle chosen for foreground/background separation.
type Region struct {
	Box    Box          `json:"box"`
	Status RegionStatus `json:"status"`
}

// SelectorState enumerates the states of the region lifecycle.
// Discarded is transient and immediately re-enters Empty, so it has no state.
type SelectorState int

const (
	StateEmpty SelectorState = iota
	StateDragging
	StateCommitted
)

func (s SelectorState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateDragging:
		return "dragging"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// SelectorListener is called on each successful selector state transition.
type SelectorListener func(prev, next SelectorState)

// Detection is one labelled box produced by a detection collaborator.
type Detection struct {
	Box     Box     `json:"box"`
	Label   string  `json:"label"`
	ClassID int     `json:"class_id"`
	Score   float64 `json:"score"`
}

// DetectionSet is an ordered sequence of detections. Once attached to a
// session it is never modified.
type DetectionSet []Detection

// Resolve returns the index of the first detection whose box contains p, or
// -1 when no box does. Overlaps are decided by sequence order only.
func (s DetectionSet) Resolve(p Point) int {
	for i, d := range s {
		if d.Box.Contains(p) {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy of the set.
func (s DetectionSet) Clone() DetectionSet {
	if s == nil {
		return nil
	}
	out := make(DetectionSet, len(s))
	copy(out, s)
	return out
}

// DetectionStatus tracks whether detections for the current image exist yet.
// Pending and an empty Ready set are distinct states.
type DetectionStatus int

const (
	DetectionsNotRequested DetectionStatus = iota
	DetectionsPending
	DetectionsReady
	DetectionsFailed
)

func (s DetectionStatus) String() string {
	switch s {
	case DetectionsNotRequested:
		return "not-requested"
	case DetectionsPending:
		return "pending"
	case DetectionsReady:
		return "ready"
	case DetectionsFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle identifies one drawable artifact issued by a Renderer.
type Handle uint64

// RectStyle describes how an outline is stroked.
type RectStyle struct {
	Color string
	Width int
}

// TextStyle describes a label glyph.
type TextStyle struct {
	Color  string
	Font   string
	Size   int
	Anchor string
}

// Renderer receives draw and delete commands in canvas pixel coordinates.
// It is purely presentational.
type Renderer interface {
	DrawRect(box Box, style RectStyle) Handle
	DrawText(at Point, text string, style TextStyle) Handle
	Delete(h Handle)
}

// CancelFunc cancels a scheduled callback. Calling it after the callback ran,
// or more than once, is a no-op.
type CancelFunc func()

// Scheduler runs fn once after delay on the same logical thread that drives
// the session.
type Scheduler interface {
	After(delay time.Duration, fn func()) CancelFunc
}
