package annotate

import (
	"log/slog"
	"math/rand/v2"
)

// Region outline styles.
var (
	StylePending   = RectStyle{Color: "red", Width: 2}
	StyleCommitted = RectStyle{Color: "green", Width: 2}
)

// Default palettes for hover highlights.
var (
	DefaultOutlinePalette = []string{"red", "green", "blue", "black", "white"}
	DefaultLabelPalette   = []string{"black", "white"}
)

// labelOffset is the distance between the primary and the shadow glyph.
const labelOffset = 1

// StylePicker chooses colors for a hover highlight.
type StylePicker interface {
	OutlineColor() string
	LabelColors() (primary, shadow string)
}

// RandomStyle picks colors at random from fixed palettes. The two label
// colors always differ when the label palette has more than one entry.
type RandomStyle struct {
	Outline []string
	Labels  []string
	rnd     *rand.Rand
}

// NewRandomStyle returns a picker over the given palettes. Empty palettes fall
// back to the defaults; a nil rnd uses the global source.
func NewRandomStyle(outline, labels []string, rnd *rand.Rand) *RandomStyle {
	if len(outline) == 0 {
		outline = DefaultOutlinePalette
	}
	if len(labels) == 0 {
		labels = DefaultLabelPalette
	}
	return &RandomStyle{Outline: outline, Labels: labels, rnd: rnd}
}

func (s *RandomStyle) intn(n int) int {
	if s.rnd != nil {
		return s.rnd.IntN(n)
	}
	return rand.IntN(n)
}

func (s *RandomStyle) OutlineColor() string {
	return s.Outline[s.intn(len(s.Outline))]
}

func (s *RandomStyle) LabelColors() (string, string) {
	i := s.intn(len(s.Labels))
	if len(s.Labels) == 1 {
		return s.Labels[0], s.Labels[0]
	}
	j := s.intn(len(s.Labels) - 1)
	if j >= i {
		j++
	}
	return s.Labels[i], s.Labels[j]
}

// LabelStyle is the text style used for hover labels.
var LabelStyle = TextStyle{Font: "Arial", Size: 18, Anchor: "nw"}

// OverlayManager owns the transient artifacts on the canvas: one region
// outline and at most one hover highlight (outline plus two label glyphs).
// Every show replaces what it owned before, so nothing accumulates.
type OverlayManager struct {
	renderer Renderer
	style    StylePicker
	logger   *slog.Logger

	outline    Handle
	hasOutline bool

	highlight    [3]Handle // outline, primary label, shadow label
	hasHighlight bool
	hlBox        Box
	hlLabel      string
}

// NewOverlayManager returns a manager drawing through r.
func NewOverlayManager(r Renderer, style StylePicker, logger *slog.Logger) *OverlayManager {
	if style == nil {
		style = NewRandomStyle(nil, nil, nil)
	}
	return &OverlayManager{renderer: r, style: style, logger: logger}
}

// ShowRegionOutline draws the region outline, removing any previous one first.
func (m *OverlayManager) ShowRegionOutline(box Box, style RectStyle) {
	if m == nil || m.renderer == nil {
		return
	}
	m.ClearRegionOutline()
	m.outline = m.renderer.DrawRect(box, style)
	m.hasOutline = true
}

// ClearRegionOutline removes the region outline. Safe when nothing is shown.
func (m *OverlayManager) ClearRegionOutline() {
	if m == nil || !m.hasOutline {
		return
	}
	m.renderer.Delete(m.outline)
	m.outline = 0
	m.hasOutline = false
}

// ShowDetectionHighlight draws an outline around box plus the label twice,
// the second glyph offset by one pixel for contrast.
func (m *OverlayManager) ShowDetectionHighlight(box Box, label string) {
	if m == nil || m.renderer == nil {
		return
	}
	m.ClearDetectionHighlight()
	primary, shadow := m.style.LabelColors()
	ts := LabelStyle
	ts.Color = primary
	ss := LabelStyle
	ss.Color = shadow
	m.highlight[0] = m.renderer.DrawRect(box, RectStyle{Color: m.style.OutlineColor(), Width: 2})
	m.highlight[1] = m.renderer.DrawText(Pt(box.X0, box.Y0), label, ts)
	m.highlight[2] = m.renderer.DrawText(Pt(box.X0+labelOffset, box.Y0+labelOffset), label, ss)
	m.hasHighlight = true
	m.hlBox, m.hlLabel = box, label
	if m.logger != nil {
		m.logger.Debug("highlight shown", "label", label, "box", box.String())
	}
}

// ClearDetectionHighlight removes all three highlight artifacts. Safe when
// nothing is shown.
func (m *OverlayManager) ClearDetectionHighlight() {
	if m == nil || !m.hasHighlight {
		return
	}
	for i, h := range m.highlight {
		m.renderer.Delete(h)
		m.highlight[i] = 0
	}
	m.hasHighlight = false
	m.hlBox, m.hlLabel = Box{}, ""
}

// Reset clears both overlays.
func (m *OverlayManager) Reset() {
	m.ClearRegionOutline()
	m.ClearDetectionHighlight()
}

// HasRegionOutline reports whether an outline is currently drawn.
func (m *OverlayManager) HasRegionOutline() bool { return m != nil && m.hasOutline }

// Highlight returns the box and label of the visible highlight, if any.
func (m *OverlayManager) Highlight() (Box, string, bool) {
	if m == nil || !m.hasHighlight {
		return Box{}, "", false
	}
	return m.hlBox, m.hlLabel, true
}

// LiveArtifacts is the number of renderer handles the manager currently owns.
func (m *OverlayManager) LiveArtifacts() int {
	if m == nil {
		return 0
	}
	n := 0
	if m.hasOutline {
		n++
	}
	if m.hasHighlight {
		n += len(m.highlight)
	}
	return n
}
