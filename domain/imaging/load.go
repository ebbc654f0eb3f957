package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/up-zero/gotool/imageutil"
	_ "golang.org/x/image/bmp"
)

var (
	ErrNotAnImage = errors.New("not an image")
	ErrIOFailure  = errors.New("image io failure")
)

// Extensions lists the file types the image picker accepts.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// Raster is a decoded image prepared for display. Scale maps original pixel
// coordinates to display coordinates (display = original * Scale).
type Raster struct {
	Image    *image.RGBA
	Source   string
	Original image.Point
	Scale    float64
}

// Size returns the display size.
func (r *Raster) Size() (int, int) {
	if r == nil || r.Image == nil {
		return 0, 0
	}
	b := r.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Supported reports whether path has an accepted image extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load decodes the image at path and downsizes it for display with
// FitForDisplay(target, threshold).
func Load(path string, target, threshold int) (*Raster, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAnImage)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w: %w", path, ErrIOFailure, err)
	}
	img, err := imageutil.Open(path)
	if err != nil {
		return nil, classify(path, err)
	}
	if img == nil {
		return nil, fmt.Errorf("decode %s: %w", path, ErrNotAnImage)
	}
	r := Prepare(img, target, threshold)
	r.Source = path
	return r, nil
}

// classify tells undecodable content apart from read failures.
func classify(path string, openErr error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w: %w", path, ErrIOFailure, err)
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("decode %s: %w: %w", path, ErrNotAnImage, openErr)
	}
	return fmt.Errorf("open %s: %w: %w", path, ErrIOFailure, openErr)
}

// Prepare converts img to RGBA at display size.
func Prepare(img image.Image, target, threshold int) *Raster {
	b := img.Bounds()
	w, h := FitForDisplay(b.Dx(), b.Dy(), target, threshold)
	r := &Raster{Original: image.Pt(b.Dx(), b.Dy()), Scale: 1}
	if w != b.Dx() || h != b.Dy() {
		var resized image.Image = imageutil.Resize(img, w, h)
		img = resized
		r.Scale = float64(w) / float64(b.Dx())
	}
	r.Image = ToRGBA(img)
	return r
}

// FitForDisplay computes the display size of a w x h image. Images whose
// sides both fit within threshold are kept; otherwise the longer side becomes
// target and the other follows the aspect ratio (truncated).
func FitForDisplay(w, h, target, threshold int) (int, int) {
	if w <= 0 || h <= 0 || target <= 0 {
		return w, h
	}
	if w <= threshold && h <= threshold {
		return w, h
	}
	aspect := float64(w) / float64(h)
	if w > h {
		return target, max(1, int(float64(target)/aspect))
	}
	return max(1, int(float64(target)*aspect)), target
}

// ToRGBA returns img as a zero-origin *image.RGBA, copying when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
