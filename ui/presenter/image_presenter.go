package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/soocke/pixel-annotate-go/domain/detection"
	"github.com/soocke/pixel-annotate-go/domain/imaging"
)

// ErrNoPath is returned by Upload when no path was entered.
var ErrNoPath = errors.New("no image path")

// ImageSession is the part of the annotation session that tracks the loaded image.
type ImageSession interface {
	LoadImage(width, height int) uint64
	DetectionsRequested(seq uint64) error
}

// BaseCanvas receives the image overlays are drawn on.
type BaseCanvas interface {
	SetBase(img *image.RGBA)
}

// DetectionStarter launches background detection for a loaded image.
type DetectionStarter interface {
	Start(parent context.Context, seq uint64, req detection.Request)
}

// ImageLoader reads and prepares an image file for display.
type ImageLoader func(path string) (*imaging.Raster, error)

// ScreenGrabber captures the screen and prepares it for display.
type ScreenGrabber func() (*imaging.Raster, error)

// ImagePresenter owns image loading: it swaps the canvas base, resets the
// session and kicks off detection for the new image.
type ImagePresenter struct {
	ctx     context.Context
	session ImageSession
	canvas  BaseCanvas
	detect  DetectionStarter
	status  StatusSink
	logger  *slog.Logger

	Load    ImageLoader
	Capture ScreenGrabber

	current *imaging.Raster
}

// NewImagePresenter returns a presenter. detect may be nil when no detection
// engine is configured.
func NewImagePresenter(ctx context.Context, session ImageSession, canvas BaseCanvas, detect DetectionStarter, status StatusSink, load ImageLoader, capture ScreenGrabber, logger *slog.Logger) *ImagePresenter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ImagePresenter{ctx: ctx, session: session, canvas: canvas, detect: detect, status: status, Load: load, Capture: capture, logger: logger}
}

// Current returns the displayed raster, nil before the first load.
func (p *ImagePresenter) Current() *imaging.Raster {
	if p == nil {
		return nil
	}
	return p.current
}

// Upload loads the image at path.
func (p *ImagePresenter) Upload(path string) (uint64, error) {
	if p == nil || p.session == nil || p.status == nil || p.Load == nil {
		return 0, errors.New("image presenter not wired")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		p.status.SetText(TextUploadFirst)
		return 0, ErrNoPath
	}
	r, err := p.Load(path)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrNotAnImage):
			p.status.SetText("Not an image: " + path)
		default:
			p.status.SetText(fmt.Sprintf("Could not read image: %v", err))
		}
		if p.logger != nil {
			p.logger.Error("image load failed", "path", path, "error", err)
		}
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return p.show(r), nil
}

// CaptureScreen uses a screenshot as the image.
func (p *ImagePresenter) CaptureScreen() (uint64, error) {
	if p == nil || p.session == nil || p.status == nil || p.Capture == nil {
		return 0, errors.New("image presenter not wired")
	}
	r, err := p.Capture()
	if err != nil {
		p.status.SetText(fmt.Sprintf("Screen capture failed: %v", err))
		if p.logger != nil {
			p.logger.Error("screen capture failed", "error", err)
		}
		return 0, err
	}
	return p.show(r), nil
}

func (p *ImagePresenter) show(r *imaging.Raster) uint64 {
	p.current = r
	if p.canvas != nil {
		p.canvas.SetBase(r.Image)
	}
	w, h := r.Size()
	seq := p.session.LoadImage(w, h)
	if p.logger != nil {
		p.logger.Info("image loaded", "source", r.Source, "width", w, "height", h, "scale", r.Scale, "sequence", seq)
	}
	if p.detect == nil {
		p.status.SetText(TextUploaded + " " + TextDrawRect)
		return seq
	}
	if err := p.session.DetectionsRequested(seq); err != nil && p.logger != nil {
		p.logger.Debug("detections requested", "error", err)
	}
	req := detection.Request{Image: r.Image, Source: r.Source, Scale: r.Scale}
	if req.Source == imaging.ScreenSource {
		req.Source = ""
	}
	p.detect.Start(p.ctx, seq, req)
	p.status.SetText(TextUploaded + " " + TextProcessing)
	return seq
}
