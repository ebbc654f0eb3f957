package view

import (
	"image"

	"github.com/soocke/pixel-annotate-go/domain/imaging"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PointerHandler receives pointer events in image pixel coordinates.
type PointerHandler interface {
	Press(x, y int)
	Drag(x, y int)
	Release(x, y int)
	DoubleClick(x, y int)
	Motion(x, y int)
	Leave()
}

// CanvasView shows the composed annotation canvas and forwards pointer input.
// The photo is shown unscaled so widget coordinates are image coordinates.
type CanvasView interface {
	UpdateCanvas(img image.Image)
	Reset()
}

type canvasView struct {
	label     *LabelWidget
	prevPhoto *Img // disposed before each replacement
}

const (
	placeholderW = 400
	placeholderH = 300
)

// NewCanvasView creates the canvas label at row, spanning cols columns, and
// binds h to its pointer events.
func NewCanvasView(row, cols int, h PointerHandler) CanvasView {
	photo := NewPhoto(Data(imaging.EncodePNG(placeholder())))
	lbl := Label(Image(photo), Borderwidth(0), Relief("flat"), Anchor("nw"))
	Grid(lbl, Row(row), Column(0), Columnspan(cols), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	v := &canvasView{label: lbl, prevPhoto: photo}
	if h != nil {
		bindPointer(lbl, h)
	}
	return v
}

func bindPointer(lbl *LabelWidget, h PointerHandler) {
	Bind(lbl, "<ButtonPress-1>", Command(func(e *Event) { h.Press(e.X, e.Y) }))
	Bind(lbl, "<B1-Motion>", Command(func(e *Event) { h.Drag(e.X, e.Y) }))
	Bind(lbl, "<ButtonRelease-1>", Command(func(e *Event) { h.Release(e.X, e.Y) }))
	Bind(lbl, "<Double-Button-1>", Command(func(e *Event) { h.DoubleClick(e.X, e.Y) }))
	Bind(lbl, "<Motion>", Command(func(e *Event) { h.Motion(e.X, e.Y) }))
	Bind(lbl, "<Leave>", Command(func() { h.Leave() }))
}

func placeholder() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, placeholderW, placeholderH))
}

func (v *canvasView) UpdateCanvas(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	v.swap(imaging.EncodePNG(img))
}

func (v *canvasView) Reset() {
	if v == nil || v.label == nil {
		return
	}
	v.swap(imaging.EncodePNG(placeholder()))
}

func (v *canvasView) swap(pngBytes []byte) {
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}
