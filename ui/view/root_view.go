package view

import (
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/pixel-annotate-go/config"
	"github.com/soocke/pixel-annotate-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the callbacks wired to the root view's controls.
type Handlers struct {
	Upload           func(path string)
	CaptureScreen    func()
	RemoveBackground func()
	ViewSegments     func()
	Exit             func()
	Pointer          PointerHandler
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Status      StatusBar
	ConfigPanel ConfigPanel
	Canvas      CanvasView
	Results     ResultWindows

	// Widgets
	StateLabel  *TLabelWidget
	PathText    *TextWidget
	removeBtn   *TButtonWidget
	segmentsBtn *TButtonWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string)
	SetStatus(text string)
	SetProcessing(last, total time.Duration, runs int)
	SetActionEnabled(bool)
	SetSegmentsEnabled(bool)
	UpdateCanvas(img image.Image)
	ShowResult(title string, img image.Image)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout: image path row, action buttons, state label,
// canvas, status bar and the config panel on the right.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	const cols = 5
	// Row 0: image path and sources
	pathLbl := Label(Txt("Image"), Anchor("w"))
	Grid(pathLbl, Row(0), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	rv.PathText = Text(Height(1), Width(48))
	Grid(rv.PathText, Row(0), Column(1), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	upload := TButton(Txt("Upload Image"), Style(theme.StylePrimaryButton), Command(func() {
		if h.Upload != nil {
			h.Upload(rv.path())
		}
	}))
	Grid(upload, Row(0), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	capture := TButton(Txt("Capture Screen"), Command(func() { call(h.CaptureScreen) }))
	Grid(capture, Row(0), Column(4), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(rv.PathText, "<Return>", Command(func() {
		if h.Upload != nil {
			h.Upload(rv.path())
		}
	}))

	// Row 1: actions and state
	rv.StateLabel = TLabel(Txt("State: empty"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.removeBtn = TButton(Txt("Remove Background"), State("disabled"), Command(func() { call(h.RemoveBackground) }))
	Grid(rv.removeBtn, Row(1), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.segmentsBtn = TButton(Txt("View Segments"), State("disabled"), Command(func() { call(h.ViewSegments) }))
	Grid(rv.segmentsBtn, Row(1), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(func() { call(h.Exit) }))
	Grid(exitBtn, Row(1), Column(4), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Row 2: canvas, Row 3: status
	rv.Canvas = NewCanvasView(2, cols, h.Pointer)
	rv.Status = NewStatusBar(3, cols)
	rv.Results = NewResultWindows(rv.logger)

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(4)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func (rv *RootView) path() string {
	if rv == nil || rv.PathText == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(rv.PathText.Get("1.0", END), ""))
}

// SetPath replaces the image path field.
func (rv *RootView) SetPath(path string) {
	if rv == nil || rv.PathText == nil {
		return
	}
	rv.PathText.Delete("1.0", END)
	rv.PathText.Insert("1.0", path)
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetStatus(text)
	}
}

func (rv *RootView) SetProcessing(last, total time.Duration, runs int) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetProcessing(last, total, runs)
	}
}

// SetActionEnabled toggles the "Remove Background" button.
func (rv *RootView) SetActionEnabled(b bool) {
	if rv != nil {
		setEnabled(rv.removeBtn, b)
	}
}

// SetSegmentsEnabled toggles the "View Segments" button.
func (rv *RootView) SetSegmentsEnabled(b bool) {
	if rv != nil {
		setEnabled(rv.segmentsBtn, b)
	}
}

func setEnabled(btn *TButtonWidget, b bool) {
	if btn == nil {
		return
	}
	state := "disabled"
	if b {
		state = "normal"
	}
	btn.Configure(State(state))
}

// UpdateCanvas proxies to the canvas view.
func (rv *RootView) UpdateCanvas(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.UpdateCanvas(img)
	}
}

// ShowResult opens or refreshes a result window.
func (rv *RootView) ShowResult(title string, img image.Image) {
	if rv != nil && rv.Results != nil {
		rv.Results.ShowResult(title, img)
	}
}

// Close disposes of secondary windows.
func (rv *RootView) Close() {
	if rv != nil && rv.Results != nil {
		rv.Results.CloseAll()
	}
}
