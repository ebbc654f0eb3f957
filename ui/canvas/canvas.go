// Package canvas composites overlay artifacts onto the displayed image. Tk
// shows the result as a photo, so every change is re-rendered in Go and the
// view swaps the image on the next UI tick.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"sort"
	"sync"

	"github.com/up-zero/gotool/imageutil"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// glyphHeight is the pixel height of the bitmap face labels are drawn with.
const glyphHeight = 13

type itemKind int

const (
	kindRect itemKind = iota + 1
	kindText
)

type item struct {
	kind  itemKind
	box   annotate.Box
	at    annotate.Point
	text  string
	color color.RGBA
	width int
	size  int
}

// Canvas is an annotate.Renderer that keeps artifacts as retained items and
// renders them over a base image on demand. It is safe for concurrent use.
type Canvas struct {
	mu        sync.Mutex
	base      *image.RGBA
	items     map[annotate.Handle]item
	next      annotate.Handle
	version   uint64
	fontScale float64
	minWidth  int
}

// New returns an empty canvas. fontScale multiplies label sizes; minWidth is
// the thinnest outline drawn.
func New(fontScale float64, minWidth int) *Canvas {
	if fontScale <= 0 {
		fontScale = 1
	}
	return &Canvas{items: make(map[annotate.Handle]item), fontScale: fontScale, minWidth: max(1, minWidth)}
}

// SetBase replaces the background image and drops all items.
func (c *Canvas) SetBase(img *image.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = img
	clear(c.items)
	c.version++
}

// Base returns the background image.
func (c *Canvas) Base() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

func (c *Canvas) add(it item) annotate.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.items[c.next] = it
	c.version++
	return c.next
}

func (c *Canvas) DrawRect(box annotate.Box, style annotate.RectStyle) annotate.Handle {
	return c.add(item{kind: kindRect, box: box, color: ParseColor(style.Color), width: max(c.minWidth, style.Width)})
}

func (c *Canvas) DrawText(at annotate.Point, text string, style annotate.TextStyle) annotate.Handle {
	return c.add(item{kind: kindText, at: at, text: text, color: ParseColor(style.Color), size: style.Size})
}

func (c *Canvas) Delete(h annotate.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[h]; !ok {
		return
	}
	delete(c.items, h)
	c.version++
}

// Len is the number of live items.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Version changes whenever the composed output would change.
func (c *Canvas) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Compose renders the base image with all live items, oldest first.
func (c *Canvas) Compose() *image.RGBA {
	c.mu.Lock()
	base := c.base
	handles := make([]annotate.Handle, 0, len(c.items))
	for h := range c.items {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	items := make([]item, len(handles))
	for i, h := range handles {
		items[i] = c.items[h]
	}
	scale := c.fontScale
	c.mu.Unlock()

	if base == nil {
		return nil
	}
	dst := image.NewRGBA(base.Bounds())
	draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	for _, it := range items {
		switch it.kind {
		case kindRect:
			imageutil.DrawThickRectOutline(dst, it.box.Rect(), it.color, it.width)
		case kindText:
			drawLabel(dst, it.at, it.text, it.color, float64(it.size)*scale)
		}
	}
	return dst
}

// drawLabel renders text with its top-left corner at p, scaled so the glyph
// cell is roughly size pixels tall.
func drawLabel(dst *image.RGBA, p annotate.Point, text string, col color.RGBA, size float64) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(text).Ceil()
	glyphs := image.NewRGBA(image.Rect(0, 0, w, glyphHeight))
	d.Dst = glyphs
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(text)

	k := size / glyphHeight
	if k <= 1 {
		draw.Draw(dst, glyphs.Bounds().Add(image.Pt(p.X, p.Y)), glyphs, image.Point{}, draw.Over)
		return
	}
	target := image.Rect(0, 0, int(float64(w)*k), int(glyphHeight*k)).Add(image.Pt(p.X, p.Y))
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

var named = map[string]color.RGBA{
	"red":     {R: 255, A: 255},
	"green":   {G: 255, A: 255},
	"blue":    {B: 255, A: 255},
	"black":   {A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"yellow":  {R: 255, G: 255, A: 255},
	"cyan":    {G: 255, B: 255, A: 255},
	"magenta": {R: 255, B: 255, A: 255},
	"orange":  {R: 255, G: 165, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
}

// ParseColor accepts the palette names and #rrggbb. Anything else is black.
func ParseColor(s string) color.RGBA {
	if c, ok := named[s]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		var v [3]uint8
		for i := range v {
			hi, ok1 := hexNibble(s[1+2*i])
			lo, ok2 := hexNibble(s[2+2*i])
			if !ok1 || !ok2 {
				return color.RGBA{A: 255}
			}
			v[i] = hi<<4 | lo
		}
		return color.RGBA{R: v[0], G: v[1], B: v[2], A: 255}
	}
	return color.RGBA{A: 255}
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

var _ annotate.Renderer = (*Canvas)(nil)
