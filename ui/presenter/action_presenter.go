package presenter

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
	"github.com/soocke/pixel-annotate-go/domain/imaging"
	"github.com/soocke/pixel-annotate-go/domain/matting"
	"github.com/soocke/pixel-annotate-go/ui/canvas"
)

// ActionSession exposes what the region and detection actions consume.
type ActionSession interface {
	CanAct() bool
	CanViewSegments() bool
	CurrentRegion() (annotate.Region, bool)
	Detections() annotate.DetectionSet
}

// RasterSource returns the displayed image.
type RasterSource interface {
	Current() *imaging.Raster
}

// ResultView shows a rendered result in its own window.
type ResultView interface {
	ShowResult(title string, img image.Image)
}

// ActionOptions tunes result rendering.
type ActionOptions struct {
	PreviewSide  int
	FontScale    float64
	OutlineWidth int
	Style        annotate.StylePicker
}

type actionTask struct {
	raster *imaging.Raster
	rect   image.Rectangle
}

type actionResult struct {
	raster    *imaging.Raster
	composite *image.RGBA
	err       error
}

// ActionPresenter runs "Remove Background" on the committed region and
// "View Segments" on the attached detections. Matting runs on a worker
// goroutine; its result is picked up by Process on the UI tick.
type ActionPresenter struct {
	session ActionSession
	images  RasterSource
	engine  matting.Engine
	view    ResultView
	status  StatusSink
	opts    ActionOptions
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	workerOnce sync.Once
	workCh     chan actionTask
	resultCh   chan actionResult
}

// NewActionPresenter constructs the presenter; Close stops its worker.
func NewActionPresenter(session ActionSession, images RasterSource, engine matting.Engine, view ResultView, status StatusSink, opts ActionOptions, logger *slog.Logger) *ActionPresenter {
	if opts.PreviewSide <= 0 {
		opts.PreviewSide = 500
	}
	if opts.OutlineWidth <= 0 {
		opts.OutlineWidth = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ActionPresenter{
		session:  session,
		images:   images,
		engine:   engine,
		view:     view,
		status:   status,
		opts:     opts,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		workCh:   make(chan actionTask, 1),
		resultCh: make(chan actionResult, 1),
	}
}

func (p *ActionPresenter) ready() bool {
	return p != nil && p.session != nil && p.images != nil && p.view != nil && p.status != nil
}

// RemoveBackground extracts the foreground of the committed region.
func (p *ActionPresenter) RemoveBackground() {
	if !p.ready() {
		return
	}
	r := p.images.Current()
	if r == nil {
		p.status.SetText(TextUploadFirst)
		return
	}
	reg, ok := p.session.CurrentRegion()
	if !p.session.CanAct() || !ok {
		p.status.SetText(TextDrawRect)
		return
	}
	p.ensureWorker()
	p.dispatch(actionTask{raster: r, rect: reg.Box.Rect()})
	p.status.SetText(TextRemoving)
}

// ViewSegments shows the image with every detection outlined and labelled.
func (p *ActionPresenter) ViewSegments() {
	if !p.ready() {
		return
	}
	r := p.images.Current()
	if r == nil {
		p.status.SetText(TextUploadFirst)
		return
	}
	if !p.session.CanViewSegments() {
		p.status.SetText(TextNoSegments)
		return
	}
	img := canvas.Segments(r.Image, p.session.Detections(), p.opts.Style, p.opts.FontScale, p.opts.OutlineWidth)
	p.view.ShowResult("Segments", img)
}

// Process applies finished matting results.
func (p *ActionPresenter) Process() {
	if !p.ready() {
		return
	}
	for {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			return
		}
	}
}

// Close stops the worker. Pending work is abandoned.
func (p *ActionPresenter) Close() {
	if p == nil || p.cancel == nil {
		return
	}
	p.cancel()
}

func (p *ActionPresenter) handleResult(res actionResult) {
	if res.raster != p.images.Current() {
		if p.logger != nil {
			p.logger.Debug("matting result for a replaced image dropped")
		}
		return
	}
	if res.err != nil {
		p.status.SetText(fmt.Sprintf("Background removal failed: %v", res.err))
		return
	}
	p.view.ShowResult("Remove Background", res.composite)
	p.status.SetText(TextRemoved)
}

func (p *ActionPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *ActionPresenter) runWorker() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.workCh:
			res := p.execute(task)
			if p.ctx.Err() != nil {
				return
			}
			select {
			case p.resultCh <- res:
			default:
				select {
				case <-p.resultCh:
				default:
				}
				select {
				case p.resultCh <- res:
				default:
				}
			}
		}
	}
}

func (p *ActionPresenter) execute(task actionTask) (res actionResult) {
	res.raster = task.raster
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("matting panic: %v", r)
			if p.logger != nil {
				p.logger.Error("matting worker panic", "panic", r)
			}
		}
	}()
	out, err := matting.Run(p.ctx, p.engine, task.raster.Image, task.rect, p.logger)
	if err != nil {
		res.err = err
		return res
	}
	res.composite = matting.Composite(task.raster.Image, out, p.opts.PreviewSide)
	return res
}

func (p *ActionPresenter) dispatch(task actionTask) {
	select {
	case p.workCh <- task:
	default:
		select {
		case <-p.workCh:
		default:
		}
		select {
		case p.workCh <- task:
		default:
		}
	}
}
