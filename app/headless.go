package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soocke/pixel-annotate-go/config"
	"github.com/soocke/pixel-annotate-go/domain/annotate"
	"github.com/soocke/pixel-annotate-go/domain/detection"
	"github.com/soocke/pixel-annotate-go/domain/imaging"
	"github.com/soocke/pixel-annotate-go/ui/presenter"
)

const headlessTick = 20 * time.Millisecond

// HeadlessOptions configures a run without a display.
type HeadlessOptions struct {
	ImagePath string
	// OutDir receives the rendered results as PNG files when set.
	OutDir  string
	Timeout time.Duration
}

// DetectionLine is one JSON line written per detection.
type DetectionLine struct {
	Sequence uint64 `json:"sequence"`
	Index    int    `json:"index"`
	annotate.Detection
}

// RunHeadless loads one image, waits for its detections and writes them to
// out as JSON lines. With OutDir set it also renders the segments view and,
// when a region was persisted, removes the background inside it.
// Session work runs on a Dispatcher loop instead of the Tk event loop.
func RunHeadless(ctx context.Context, cfg *config.Config, cfgPath string, opts HeadlessOptions, out io.Writer, logger *slog.Logger) error {
	if opts.ImagePath == "" {
		return presenter.ErrNoPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	d := annotate.NewDispatcher(logger, 0)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	go d.Run(loopCtx)
	defer func() {
		d.Close()
		stopLoop()
		<-d.Done()
	}()

	c := BuildContainer(ctx, cfg, cfgPath, ContainerOptions{Scheduler: d}, logger)
	defer func() {
		if err := d.Do(context.Background(), c.Close); err != nil {
			c.Close()
		}
	}()
	ui := newHeadlessView(opts.OutDir, logger)
	c.Wire(ui, nil)

	enc := json.NewEncoder(out)
	var writeErr error
	if c.Detect != nil {
		c.Detect.OnResult = func(res detection.Result) {
			for i, det := range res.Set {
				if err := enc.Encode(DetectionLine{Sequence: res.Sequence, Index: i, Detection: det}); err != nil && writeErr == nil {
					writeErr = err
				}
			}
		}
	}

	var loadErr error
	if err := d.Do(ctx, func() { _, loadErr = c.Images.Upload(opts.ImagePath) }); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}

	// detections
	if c.Detect != nil {
		var status annotate.DetectionStatus
		var detErr error
		err := tickUntil(ctx, d, c, func() bool {
			status, detErr = c.Session.DetectionStatus()
			return status == annotate.DetectionsReady || status == annotate.DetectionsFailed
		})
		if err != nil {
			return fmt.Errorf("waiting for detections: %w", err)
		}
		if status == annotate.DetectionsFailed {
			return fmt.Errorf("detection: %w", detErr)
		}
	}
	if writeErr != nil {
		return writeErr
	}
	if opts.OutDir == "" {
		return nil
	}

	_ = d.Do(ctx, func() {
		if c.Session.CanViewSegments() {
			c.Action.ViewSegments()
		}
	})
	region, ok := cfg.Region()
	if !ok {
		return ui.err
	}
	var commitErr error
	_ = d.Do(ctx, func() { commitErr = commitRegion(c.Session, region) })
	if commitErr != nil {
		logger.Warn("persisted region not usable", "region", region.String(), "error", commitErr)
		return ui.err
	}
	_ = d.Do(ctx, c.Action.RemoveBackground)
	err := tickUntil(ctx, d, c, func() bool {
		t := c.Status.Text()
		return t == presenter.TextRemoved || strings.HasPrefix(t, "Background removal failed")
	})
	if err != nil {
		return fmt.Errorf("waiting for background removal: %w", err)
	}
	return ui.err
}

// commitRegion replays a drag over r.
func commitRegion(s *annotate.Session, r image.Rectangle) error {
	if err := s.BeginDrag(annotate.Pt(r.Min.X, r.Min.Y)); err != nil {
		return err
	}
	return s.EndDrag(annotate.Pt(r.Max.X, r.Max.Y))
}

// tickUntil drives the loop on the dispatcher until done reports true.
func tickUntil(ctx context.Context, d *annotate.Dispatcher, c *AppContainer, done func() bool) error {
	t := time.NewTicker(headlessTick)
	defer t.Stop()
	for {
		finished := false
		if err := d.Do(ctx, func() {
			c.Loop.Tick()
			finished = done()
		}); err != nil {
			return err
		}
		if finished {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// headlessView logs what a window would show and saves result images.
type headlessView struct {
	outDir string
	logger *slog.Logger
	err    error
}

var _ UI = (*headlessView)(nil)

func newHeadlessView(outDir string, logger *slog.Logger) *headlessView {
	return &headlessView{outDir: outDir, logger: logger}
}

func (v *headlessView) SetStateLabel(text string) { v.logger.Debug("state", "label", text) }
func (v *headlessView) SetStatus(text string)     { v.logger.Info("status", "text", text) }

func (v *headlessView) SetProcessing(last, total time.Duration, runs int) {}
func (v *headlessView) SetActionEnabled(b bool)                           {}
func (v *headlessView) SetSegmentsEnabled(b bool)                         {}
func (v *headlessView) UpdateCanvas(img image.Image)                      {}

func (v *headlessView) ShowResult(title string, img image.Image) {
	if v.outDir == "" || img == nil {
		return
	}
	name := strings.ToLower(strings.ReplaceAll(title, " ", "-")) + ".png"
	path := filepath.Join(v.outDir, name)
	if err := os.WriteFile(path, imaging.EncodePNG(img), 0o644); err != nil {
		v.err = errors.Join(v.err, fmt.Errorf("write %s: %w", path, err))
		return
	}
	v.logger.Info("result written", "title", title, "path", path)
}
