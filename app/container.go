package app

import (
	"context"
	"image"
	"log/slog"

	"github.com/soocke/pixel-annotate-go/config"
	"github.com/soocke/pixel-annotate-go/domain/annotate"
	"github.com/soocke/pixel-annotate-go/domain/detection"
	"github.com/soocke/pixel-annotate-go/domain/imaging"
	"github.com/soocke/pixel-annotate-go/domain/matting"
	"github.com/soocke/pixel-annotate-go/internal/statusapi"
	"github.com/soocke/pixel-annotate-go/ui/canvas"
	"github.com/soocke/pixel-annotate-go/ui/model"
	"github.com/soocke/pixel-annotate-go/ui/presenter"
)

// UI is the surface the presenters draw on.
type UI interface {
	presenter.StateView
	presenter.StatusView
	presenter.AffordanceView
	presenter.CanvasView
	presenter.ResultView
}

// ContainerOptions carries the runtime specific pieces.
type ContainerOptions struct {
	// Scheduler runs hover timers on the thread that drives the session.
	Scheduler annotate.Scheduler
	// Style picks hover colors; nil uses the default palettes.
	Style annotate.StylePicker
	// Publish enables the status store.
	Publish bool
}

// AppContainer assembles models, services, presenters and the loop.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Status  *model.StatusModel
	Afford  *model.AffordanceModel
	Canvas  *canvas.Canvas
	Session *annotate.Session
	Runner  *detection.Runner
	Matting matting.Engine
	Store   *statusapi.Store

	// Presenters
	Pointer *presenter.CanvasPresenter
	Images  *presenter.ImagePresenter
	Detect  *presenter.DetectionPresenter
	Action  *presenter.ActionPresenter
	State   *presenter.StatePresenter
	Loop    *presenter.Loop

	style annotate.StylePicker
}

// BuildContainer constructs everything that does not depend on a view.
// Wire finishes the job once the view exists.
func BuildContainer(ctx context.Context, cfg *config.Config, cfgPath string, opts ContainerOptions, logger *slog.Logger) *AppContainer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger, style: opts.Style}
	c.Status = model.NewStatusModel()
	c.Status.SetText(presenter.TextUploadFirst)
	c.Afford = &model.AffordanceModel{}
	c.Canvas = canvas.New(cfg.LabelFontScale, cfg.OutlineWidth)
	c.Session = annotate.NewSession(c.Canvas, opts.Scheduler, annotate.Options{
		HoverDelay:        cfg.HoverDelay(),
		Style:             opts.Style,
		ActionAvailable:   c.Afford.SetAction,
		SegmentsAvailable: c.Afford.SetSegments,
	}, logger)
	if opts.Publish {
		c.Store = &statusapi.Store{}
	}

	thresholds := detection.Thresholds{Conf: cfg.ConfThreshold, IoU: cfg.IoUThreshold}
	var starter presenter.DetectionStarter
	if engine := BuildEngine(cfg, logger); engine != nil {
		c.Runner = detection.NewRunner(engine, thresholds, logger)
		starter = c.Runner
	}
	c.Matting = matting.NewColorModel(cfg.MattingIterations)

	c.Pointer = presenter.NewCanvasPresenter(c.Session, c.Status, &configRegionStore{cfg: cfg, path: cfgPath}, logger)
	load := func(path string) (*imaging.Raster, error) {
		return imaging.Load(path, cfg.DisplayMaxSide, cfg.PreviewMaxSide)
	}
	grab := func() (*imaging.Raster, error) {
		return imaging.CaptureScreen(image.Rectangle{}, cfg.DisplayMaxSide, cfg.PreviewMaxSide)
	}
	c.Images = presenter.NewImagePresenter(ctx, c.Session, c.Canvas, starter, c.Status, load, grab, logger)
	if c.Runner != nil {
		c.Detect = presenter.NewDetectionPresenter(c.Runner, c.Session, c.Status, logger)
	}
	return c
}

// BuildEngine chains the configured detection engines: the HTTP sidecar
// when a URL is set, then the detections file next to the image.
func BuildEngine(cfg *config.Config, logger *slog.Logger) detection.Engine {
	var engines []detection.Engine
	thresholds := detection.Thresholds{Conf: cfg.ConfThreshold, IoU: cfg.IoUThreshold}
	if cfg.DetectorURL != "" {
		engines = append(engines, detection.NewClient(cfg.DetectorURL, cfg.DetectorTimeout(), thresholds))
	}
	if cfg.DetectionsSuffix != "" {
		engines = append(engines, detection.NewFileEngine(cfg.DetectionsSuffix))
	}
	if len(engines) == 0 {
		return nil
	}
	return detection.NewChain(logger, engines...)
}

// Wire builds the view dependent presenters and the update loop.
// schedule re-arms the tick and may be nil.
func (c *AppContainer) Wire(ui UI, schedule func()) *presenter.Loop {
	if c == nil || ui == nil {
		return nil
	}
	c.Action = presenter.NewActionPresenter(c.Session, c.Images, c.Matting, ui, c.Status, presenter.ActionOptions{
		PreviewSide:  c.Config.PreviewMaxSide,
		FontScale:    c.Config.LabelFontScale,
		OutlineWidth: c.Config.OutlineWidth,
		Style:        c.style,
	}, c.Logger)
	c.State = presenter.NewStatePresenter(ui)
	c.Session.Selector().AddListener(c.State.OnState)
	c.Loop = &presenter.Loop{
		Detect:   c.Detect,
		Action:   c.Action,
		State:    c.State,
		Status:   presenter.NewStatusPresenter(c.Status, c.Session, ui),
		Afford:   presenter.NewAffordancePresenter(c.Afford, ui),
		Refresh:  presenter.NewRefreshPresenter(c.Canvas, ui),
		Schedule: schedule,
	}
	if c.Store != nil {
		c.Loop.Publish = func() { c.Store.Publish(c.Session.Snapshot()) }
	}
	return c.Loop
}

// Close cancels background work and clears the session.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	c.Action.Close()
	c.Runner.Close()
	c.Session.Close()
}

// configRegionStore persists committed regions into the config file.
type configRegionStore struct {
	cfg  *config.Config
	path string
}

func (s *configRegionStore) SaveRegion(r image.Rectangle) error {
	s.cfg.SetRegion(r)
	if s.path == "" {
		return nil
	}
	return s.cfg.Save(s.path)
}

var _ presenter.RegionStore = (*configRegionStore)(nil)
