package config

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveLoad_RoundTripWithRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.DetectorURL = "http://127.0.0.1:8000"
	cfg.SetRegion(image.Rect(110, 220, 10, 20))
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, ok := got.Region()
	if !ok || r != image.Rect(10, 20, 110, 220) {
		t.Fatalf("unexpected region %v ok=%v", r, ok)
	}
	if got.DetectorURL != cfg.DetectorURL {
		t.Fatalf("detector url lost")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_ = os.WriteFile(path, []byte("{not json"), 0o644)
	cfg, err := Load(path)
	if err == nil || cfg == nil || cfg.DisplayMaxSide != 1000 {
		t.Fatalf("expected defaults with error, got %+v %v", cfg, err)
	}
}

func TestValidate_Clamps(t *testing.T) {
	cfg := &Config{PreviewMaxSide: 4000, DisplayMaxSide: 800, ConfThreshold: 3, RegionW: -1}
	_ = cfg.Validate()
	if cfg.PreviewMaxSide != 800 || cfg.ConfThreshold != 0.25 || cfg.HoverDelayMS != 100 {
		t.Fatalf("unexpected %+v", cfg)
	}
	if _, ok := cfg.Region(); ok {
		t.Fatalf("negative region must be dropped")
	}
	if cfg.HoverDelay().Milliseconds() != 100 {
		t.Fatalf("unexpected hover delay %v", cfg.HoverDelay())
	}
}

func TestApplyEnv_DotenvAndProcessEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	body := "ANNOTATE_HOVER_DELAY_MS=250\nANNOTATE_DETECTOR_URL=http://dotenv:9000\nANNOTATE_CONF_THRESHOLD=0.6\n"
	if err := os.WriteFile(envPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ANNOTATE_DETECTOR_URL", "http://process:9000")
	t.Setenv("ANNOTATE_DEBUG", "true")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(envPath); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.HoverDelayMS != 250 || cfg.ConfThreshold != 0.6 {
		t.Fatalf("dotenv values not applied: %+v", cfg)
	}
	if cfg.DetectorURL != "http://process:9000" || !cfg.Debug {
		t.Fatalf("process env must win: %+v", cfg)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	t.Setenv("ANNOTATE_OUTLINE_WIDTH", "thick")
	t.Setenv("ANNOTATE_DARK_MODE", "maybe")
	cfg := DefaultConfig()
	err := cfg.ApplyEnv("")
	if err == nil || !strings.Contains(err.Error(), "ANNOTATE_OUTLINE_WIDTH") || !strings.Contains(err.Error(), "ANNOTATE_DARK_MODE") {
		t.Fatalf("expected error naming the variable, got %v", err)
	}
	if cfg.OutlineWidth != 2 {
		t.Fatalf("bad value must leave the default, got %d", cfg.OutlineWidth)
	}
}
