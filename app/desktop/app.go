// Package desktop runs the annotation tool in a Tk window.
package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/pixel-annotate-go/app"
	"github.com/soocke/pixel-annotate-go/config"
	"github.com/soocke/pixel-annotate-go/domain/annotate"
	"github.com/soocke/pixel-annotate-go/ui/presenter"
	"github.com/soocke/pixel-annotate-go/ui/theme"
	"github.com/soocke/pixel-annotate-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	tick = 100 * time.Millisecond
)

type application struct {
	container *app.AppContainer
	root      *view.RootView
	loop      *presenter.Loop
	logger    *slog.Logger
	afterID   string
	closed    bool
}

// NewApp builds the window, the container and the presenters. Publish the
// session to the status API by setting cfg.StatusAddr before calling it.
func NewApp(ctx context.Context, title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *application {
	theme.SetDark(cfg.DarkMode)
	App.WmTitle(title)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))

	a := &application{logger: logger}
	a.container = app.BuildContainer(ctx, cfg, cfgPath, app.ContainerOptions{
		Scheduler: TkScheduler{},
		Style:     annotate.NewRandomStyle(theme.OverlayOutline, theme.LabelPalette(), nil),
		Publish:   cfg.StatusAddr != "",
	}, logger)

	c := a.container
	a.root = view.NewRootView(cfg, cfgPath, logger)
	a.root.Build(view.Handlers{
		Upload:           func(path string) { _, _ = c.Images.Upload(path) },
		CaptureScreen:    func() { _, _ = c.Images.CaptureScreen() },
		RemoveBackground: func() { c.Action.RemoveBackground() },
		ViewSegments:     func() { c.Action.ViewSegments() },
		Exit:             a.exitHandler,
		Pointer:          c.Pointer,
	})
	a.loop = c.Wire(a.root, a.scheduleUpdate)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	return a
}

// Container exposes the wired components, for the status API and debug gauges.
func (a *application) Container() *app.AppContainer { return a.container }

// Start optionally loads path, starts the tick and blocks in the Tk event loop.
func (a *application) Start(path string) {
	if path != "" {
		a.root.SetPath(path)
		_, _ = a.container.Images.Upload(path)
	}
	a.scheduleUpdate()
	App.Wait()
	// The interpreter is gone here; only release non-Tk resources.
	if !a.closed {
		a.closed = true
		a.container.Close()
	}
}

func (a *application) scheduleUpdate() {
	// TclAfter keeps the tick on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.loop.Tick() })
}

func (a *application) exitHandler() {
	a.shutdown()
	Destroy(App)
}

func (a *application) shutdown() {
	if a.closed {
		return
	}
	a.closed = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.root.Close()
	a.container.Close()
	if a.logger != nil {
		a.logger.Info("annotation window closed")
	}
}
