package presenter

import "image"

// Composer renders the canvas.
type Composer interface {
	Version() uint64
	Compose() *image.RGBA
}

// CanvasView shows the composed canvas.
type CanvasView interface {
	UpdateCanvas(img image.Image)
}

// RefreshPresenter re-renders the canvas only when its content changed.
type RefreshPresenter struct {
	src  Composer
	view CanvasView
	last uint64
}

func NewRefreshPresenter(src Composer, view CanvasView) *RefreshPresenter {
	return &RefreshPresenter{src: src, view: view}
}

// Tick reports whether the view was updated.
func (p *RefreshPresenter) Tick() bool {
	if p == nil || p.src == nil || p.view == nil {
		return false
	}
	v := p.src.Version()
	if v == p.last {
		return false
	}
	img := p.src.Compose()
	if img == nil {
		return false
	}
	p.last = v
	p.view.UpdateCanvas(img)
	return true
}
