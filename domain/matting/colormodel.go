package matting

import (
	"context"
	"fmt"
	"image"
)

// ColorModel is an Engine that treats everything outside the rectangle as
// background and splits the inside into two colour clusters. Inside pixels
// closer to the background cluster are dropped. The clusters are refined for
// Iterations rounds.
type ColorModel struct {
	Iterations int
}

// NewColorModel returns an engine running iterations refinement rounds.
func NewColorModel(iterations int) *ColorModel {
	if iterations <= 0 {
		iterations = 10
	}
	return &ColorModel{Iterations: iterations}
}

type rgb struct{ r, g, b float64 }

func (c rgb) dist(o rgb) float64 {
	dr, dg, db := c.r-o.r, c.g-o.g, c.b-o.b
	return dr*dr + dg*dg + db*db
}

type acc struct {
	sum rgb
	n   int
}

func (a *acc) add(c rgb) {
	a.sum.r += c.r
	a.sum.g += c.g
	a.sum.b += c.b
	a.n++
}

func (a acc) mean(fallback rgb) rgb {
	if a.n == 0 {
		return fallback
	}
	n := float64(a.n)
	return rgb{a.sum.r / n, a.sum.g / n, a.sum.b / n}
}

func (e *ColorModel) Extract(ctx context.Context, img *image.RGBA, rect image.Rectangle) (Result, error) {
	if img == nil {
		return Result{}, fmt.Errorf("extract: nil image")
	}
	b := img.Bounds()
	rect = rect.Canon().Intersect(b)
	if rect.Empty() {
		return Result{}, ErrEmptyRect
	}
	at := func(x, y int) rgb {
		c := img.RGBAAt(x, y)
		return rgb{float64(c.R), float64(c.G), float64(c.B)}
	}

	var bgAcc, fgAcc acc
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if image.Pt(x, y).In(rect) {
				fgAcc.add(at(x, y))
			} else {
				bgAcc.add(at(x, y))
			}
		}
	}
	// Without any outside pixels the rectangle border acts as background.
	if bgAcc.n == 0 {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			bgAcc.add(at(x, rect.Min.Y))
			bgAcc.add(at(x, rect.Max.Y-1))
		}
	}
	bg := bgAcc.mean(rgb{})
	fg := fgAcc.mean(rgb{255, 255, 255})

	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := 0; i < e.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		var nf, nb acc
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				c := at(x, y)
				if c.dist(fg) <= c.dist(bg) {
					nf.add(c)
				} else {
					nb.add(c)
				}
			}
		}
		fg = nf.mean(fg)
		if nb.n > 0 {
			// blend the outside model with inside pixels that look like it
			bg = acc{sum: rgb{bgAcc.sum.r + nb.sum.r, bgAcc.sum.g + nb.sum.g, bgAcc.sum.b + nb.sum.b}, n: bgAcc.n + nb.n}.mean(bg)
		}
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := at(x, y)
			if c.dist(fg) <= c.dist(bg) {
				mask.Pix[(y-b.Min.Y)*mask.Stride+(x-b.Min.X)] = 255
			}
		}
	}
	return Result{Mask: mask, Output: ApplyMask(img, mask), Rect: rect}, nil
}

var _ Engine = (*ColorModel)(nil)
