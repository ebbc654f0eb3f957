package presenter

import (
	"errors"
	"image"
	"log/slog"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// PointerSession is the part of the annotation session driven by pointer input.
type PointerSession interface {
	Loaded() bool
	BeginDrag(p annotate.Point) error
	UpdateDrag(p annotate.Point) error
	EndDrag(p annotate.Point) error
	Discard()
	PointerMotion(p annotate.Point) error
	PointerLeave()
	CurrentRegion() (annotate.Region, bool)
}

// RegionStore persists the last committed region.
type RegionStore interface {
	SaveRegion(r image.Rectangle) error
}

// CanvasPresenter translates canvas pointer events into session operations
// and reports the outcome on the status line.
type CanvasPresenter struct {
	session PointerSession
	status  StatusSink
	store   RegionStore
	logger  *slog.Logger
}

// NewCanvasPresenter returns a presenter. store may be nil.
func NewCanvasPresenter(session PointerSession, status StatusSink, store RegionStore, logger *slog.Logger) *CanvasPresenter {
	return &CanvasPresenter{session: session, status: status, store: store, logger: logger}
}

func (p *CanvasPresenter) ready() bool {
	return p != nil && p.session != nil && p.status != nil
}

// Press starts a drag at (x, y).
func (p *CanvasPresenter) Press(x, y int) {
	if !p.ready() {
		return
	}
	if !p.session.Loaded() {
		p.status.SetText(TextUploadFirst)
		return
	}
	p.debug("begin drag", p.session.BeginDrag(annotate.Pt(x, y)))
}

// Drag follows the pointer while the button is held.
func (p *CanvasPresenter) Drag(x, y int) {
	if !p.ready() {
		return
	}
	p.debug("update drag", p.session.UpdateDrag(annotate.Pt(x, y)))
}

// Release ends the drag and commits the region when it has an area.
func (p *CanvasPresenter) Release(x, y int) {
	if !p.ready() {
		return
	}
	err := p.session.EndDrag(annotate.Pt(x, y))
	switch {
	case errors.Is(err, annotate.ErrDegenerateRegion):
		p.status.SetText(TextDrawRect)
		return
	case err != nil:
		p.debug("end drag", err)
		return
	}
	reg, ok := p.session.CurrentRegion()
	if !ok {
		return
	}
	p.status.SetText(RegionText(reg.Box))
	if p.store != nil {
		if err := p.store.SaveRegion(reg.Box.Rect()); err != nil && p.logger != nil {
			p.logger.Error("region save failed", "error", err)
		}
	}
}

// DoubleClick discards the current region.
func (p *CanvasPresenter) DoubleClick(x, y int) {
	if !p.ready() || !p.session.Loaded() {
		return
	}
	p.session.Discard()
	p.status.SetText(TextDrawRect)
}

// Motion feeds the hover hit-test.
func (p *CanvasPresenter) Motion(x, y int) {
	if !p.ready() || !p.session.Loaded() {
		return
	}
	p.debug("pointer motion", p.session.PointerMotion(annotate.Pt(x, y)))
}

// Leave clears the hover highlight.
func (p *CanvasPresenter) Leave() {
	if !p.ready() {
		return
	}
	p.session.PointerLeave()
}

func (p *CanvasPresenter) debug(msg string, err error) {
	if err == nil || p.logger == nil {
		return
	}
	p.logger.Debug(msg, "error", err)
}
