package canvas

import (
	"image"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// Segments renders every detection of set over base: an outline per box and
// its label in the top-left corner. base is not modified.
func Segments(base *image.RGBA, set annotate.DetectionSet, style annotate.StylePicker, fontScale float64, width int) *image.RGBA {
	if base == nil {
		return nil
	}
	if style == nil {
		style = annotate.NewRandomStyle(nil, nil, nil)
	}
	c := New(fontScale, width)
	c.SetBase(base)
	for _, d := range set {
		c.DrawRect(d.Box, annotate.RectStyle{Color: style.OutlineColor(), Width: width})
		primary, shadow := style.LabelColors()
		ts := annotate.LabelStyle
		ts.Color = shadow
		c.DrawText(annotate.Pt(d.Box.X0+1, d.Box.Y0+1), d.Label, ts)
		ts.Color = primary
		c.DrawText(annotate.Pt(d.Box.X0, d.Box.Y0), d.Label, ts)
	}
	return c.Compose()
}
