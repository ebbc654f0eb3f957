package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/pixel-annotate-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
// The persisted region fields are not editable here.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(24))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("hoverDelayMS", "Hover Delay (ms)", fmt.Sprintf("%d", c.HoverDelayMS))
	makeRow("displayMaxSide", "Display Max Side", fmt.Sprintf("%d", c.DisplayMaxSide))
	makeRow("previewMaxSide", "Preview Max Side", fmt.Sprintf("%d", c.PreviewMaxSide))
	makeRow("outlineWidth", "Outline Width", fmt.Sprintf("%d", c.OutlineWidth))
	makeRow("labelFontScale", "Label Font Scale", fmt.Sprintf("%.2f", c.LabelFontScale))
	makeRow("detectorURL", "Detector URL", c.DetectorURL)
	makeRow("detectorTimeoutMS", "Detector Timeout (ms)", fmt.Sprintf("%d", c.DetectorTimeoutMS))
	makeRow("confThreshold", "Confidence (0-1)", fmt.Sprintf("%.2f", c.ConfThreshold))
	makeRow("iouThreshold", "IoU (0-1)", fmt.Sprintf("%.2f", c.IoUThreshold))
	makeRow("mattingIterations", "Matting Iterations", fmt.Sprintf("%d", c.MattingIterations))
	makeRow("debug", "Debug (true/false)", fmt.Sprintf("%t", c.Debug))
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if f, ok := parseFloatField(strings.TrimSpace(v.text(w))); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}
	assignBool := func(id string, dst *bool) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if b, ok := parseBoolLoose(strings.TrimSpace(v.text(w))); ok {
			*dst = b
		}
	}
	assignInt("hoverDelayMS", &cfg.HoverDelayMS)
	assignInt("displayMaxSide", &cfg.DisplayMaxSide)
	assignInt("previewMaxSide", &cfg.PreviewMaxSide)
	assignInt("outlineWidth", &cfg.OutlineWidth)
	assignFloat("labelFontScale", &cfg.LabelFontScale)
	assignInt("detectorTimeoutMS", &cfg.DetectorTimeoutMS)
	assignFloat("confThreshold", &cfg.ConfThreshold)
	assignFloat("iouThreshold", &cfg.IoUThreshold)
	assignInt("mattingIterations", &cfg.MattingIterations)
	assignBool("debug", &cfg.Debug)
	if w := v.widgets["detectorURL"]; w != nil {
		cfg.DetectorURL = strings.TrimSpace(v.text(w))
	}
	if verr := cfg.Validate(); verr != nil {
		if v.logger != nil {
			v.logger.Warn("config rejected", "error", verr)
		}
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved; detector and display settings apply to the next image", "path", v.cfgPath)
		}
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
