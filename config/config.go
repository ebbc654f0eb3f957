package config

import (
	"encoding/json"
	"image"
	"os"
	"time"
)

// Config holds runtime configuration for the annotation tool.
// Fields may be loaded from a JSON file, overridden by ANNOTATE_* environment
// variables (see ApplyEnv) and by command-line flags.
type Config struct {
	Debug    bool `json:"debug"`
	DarkMode bool `json:"dark_mode"`

	// Canvas and overlay
	HoverDelayMS   int     `json:"hover_delay_ms"`
	DisplayMaxSide int     `json:"display_max_side"`
	PreviewMaxSide int     `json:"preview_max_side"`
	OutlineWidth   int     `json:"outline_width"`
	LabelFontScale float64 `json:"label_font_scale"`

	// Detection
	DetectorURL       string  `json:"detector_url"`
	DetectorTimeoutMS int     `json:"detector_timeout_ms"`
	DetectionsSuffix  string  `json:"detections_suffix"`
	ConfThreshold     float64 `json:"conf_threshold"`
	IoUThreshold      float64 `json:"iou_threshold"`
	MattingIterations int     `json:"matting_iterations"`

	// Read-only status endpoint, disabled when empty
	StatusAddr string `json:"status_addr"`

	// Last committed region, in display coordinates
	RegionX int `json:"region_x"`
	RegionY int `json:"region_y"`
	RegionW int `json:"region_w"`
	RegionH int `json:"region_h"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		HoverDelayMS:      100,
		DisplayMaxSide:    1000,
		PreviewMaxSide:    500,
		OutlineWidth:      2,
		LabelFontScale:    1,
		DetectorURL:       "",
		DetectorTimeoutMS: 10000,
		DetectionsSuffix:  ".detections.json",
		ConfThreshold:     0.25,
		IoUThreshold:      0.45,
		MattingIterations: 10,
		StatusAddr:        "",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.HoverDelayMS <= 0 {
		c.HoverDelayMS = 100
	}
	if c.DisplayMaxSide <= 0 {
		c.DisplayMaxSide = 1000
	}
	if c.PreviewMaxSide <= 0 {
		c.PreviewMaxSide = 500
	}
	if c.PreviewMaxSide > c.DisplayMaxSide {
		c.PreviewMaxSide = c.DisplayMaxSide
	}
	if c.OutlineWidth <= 0 {
		c.OutlineWidth = 2
	}
	if c.LabelFontScale <= 0 {
		c.LabelFontScale = 1
	}
	if c.DetectorTimeoutMS <= 0 {
		c.DetectorTimeoutMS = 10000
	}
	if c.DetectionsSuffix == "" {
		c.DetectionsSuffix = ".detections.json"
	}
	if c.ConfThreshold < 0 || c.ConfThreshold > 1 {
		c.ConfThreshold = 0.25
	}
	if c.IoUThreshold <= 0 || c.IoUThreshold > 1 {
		c.IoUThreshold = 0.45
	}
	if c.MattingIterations <= 0 {
		c.MattingIterations = 10
	}
	if c.RegionW < 0 || c.RegionH < 0 {
		c.RegionX, c.RegionY, c.RegionW, c.RegionH = 0, 0, 0, 0
	}
	return nil
}

// HoverDelay returns the hit-test quiescence window.
func (c *Config) HoverDelay() time.Duration {
	return time.Duration(c.HoverDelayMS) * time.Millisecond
}

// DetectorTimeout returns the HTTP timeout for the detector sidecar.
func (c *Config) DetectorTimeout() time.Duration {
	return time.Duration(c.DetectorTimeoutMS) * time.Millisecond
}

// Region returns the persisted region, if one was saved.
func (c *Config) Region() (image.Rectangle, bool) {
	if c.RegionW <= 0 || c.RegionH <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(c.RegionX, c.RegionY, c.RegionX+c.RegionW, c.RegionY+c.RegionH), true
}

// SetRegion records r as the last committed region.
func (c *Config) SetRegion(r image.Rectangle) {
	r = r.Canon()
	c.RegionX, c.RegionY, c.RegionW, c.RegionH = r.Min.X, r.Min.Y, r.Dx(), r.Dy()
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
