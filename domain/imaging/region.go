package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// ExtractRegion copies rect out of frame. The rectangle is clamped to the
// frame bounds and is at least 1x1.
// Returns the copy (always zero-origin *image.RGBA) and the clamped rectangle.
func ExtractRegion(frame *image.RGBA, rect image.Rectangle) (*image.RGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	b := frame.Bounds()
	r := rect.Canon().Intersect(b)
	if r.Empty() {
		x := max(b.Min.X, min(rect.Min.X, b.Max.X-1))
		y := max(b.Min.Y, min(rect.Min.Y, b.Max.Y-1))
		r = image.Rect(x, y, x+1, y+1)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), frame, r.Min, draw.Src)
	return out, r, nil
}

// HConcat places images side by side, top aligned, on a black background.
func HConcat(imgs ...image.Image) *image.RGBA {
	w, h := 0, 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		b := img.Bounds()
		w += b.Dx()
		h = max(h, b.Dy())
	}
	out := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	x := 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		b := img.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Src)
		x += b.Dx()
	}
	return out
}

// GrayToRGBA expands a single channel mask to RGBA.
func GrayToRGBA(g *image.Gray) *image.RGBA {
	if g == nil {
		return nil
	}
	b := g.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), g, b.Min, draw.Src)
	return out
}
