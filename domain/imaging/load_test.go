package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestFitForDisplay(t *testing.T) {
	cases := []struct {
		w, h, wantW, wantH int
	}{
		{400, 300, 400, 300},
		{500, 500, 500, 500},
		{2000, 1000, 1000, 500},
		{1000, 2000, 500, 1000},
		{600, 600, 1000, 1000},
		{3000, 1001, 1000, 333},
	}
	for _, c := range cases {
		w, h := FitForDisplay(c.w, c.h, 1000, 500)
		if w != c.wantW || h != c.wantH {
			t.Fatalf("FitForDisplay(%d,%d)=%dx%d want %dx%d", c.w, c.h, w, h, c.wantW, c.wantH)
		}
	}
}

func TestLoad_SmallImageKeepsSize(t *testing.T) {
	path := writePNG(t, 40, 30)
	r, err := Load(path, 1000, 500)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w, h := r.Size(); w != 40 || h != 30 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	if r.Scale != 1 || r.Source != path || r.Original != image.Pt(40, 30) {
		t.Fatalf("unexpected raster %+v", r)
	}
}

func TestLoad_LargeImageIsDownscaled(t *testing.T) {
	path := writePNG(t, 120, 60)
	r, err := Load(path, 100, 50)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w, h := r.Size(); w != 100 || h != 50 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	if r.Scale <= 0.8 || r.Scale >= 0.9 {
		t.Fatalf("unexpected scale %v", r.Scale)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "notes.txt"), 1000, 500); !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage for extension, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png"), 1000, 500); !errors.Is(err, ErrIOFailure) {
		t.Fatalf("expected ErrIOFailure for missing file, got %v", err)
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad, 1000, 500); !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage for garbage, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	for _, p := range []string{"a.JPG", "b.jpeg", "c.png", "d.bmp"} {
		if !Supported(p) {
			t.Fatalf("%s should be supported", p)
		}
	}
	if Supported("e.gif") {
		t.Fatalf("gif should not be supported")
	}
}

func TestCaptureScreen_UsesGrabber(t *testing.T) {
	orig := Grabber
	defer func() { Grabber = orig }()
	var asked image.Rectangle
	Grabber = func(area image.Rectangle) (*image.RGBA, error) {
		asked = area
		return image.NewRGBA(image.Rect(0, 0, 1920, 1080)), nil
	}
	r, err := CaptureScreen(image.Rectangle{}, 1000, 500)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if !asked.Empty() || r.Source != ScreenSource {
		t.Fatalf("unexpected call area=%v source=%s", asked, r.Source)
	}
	if w, h := r.Size(); w != 1000 || h != 562 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	Grabber = func(image.Rectangle) (*image.RGBA, error) { return nil, errors.New("no display") }
	if _, err := CaptureScreen(image.Rectangle{}, 1000, 500); !errors.Is(err, ErrIOFailure) {
		t.Fatalf("expected ErrIOFailure, got %v", err)
	}
}
