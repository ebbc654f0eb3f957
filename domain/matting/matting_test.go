package matting

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

// scene is a grey background with a red square at (20,20)-(40,40).
func scene() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			c := color.RGBA{120, 120, 120, 255}
			if x >= 20 && x < 40 && y >= 20 && y < 40 {
				c = color.RGBA{220, 10, 10, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestColorModel_SeparatesSquare(t *testing.T) {
	img := scene()
	res, err := NewColorModel(0).Extract(context.Background(), img, image.Rect(10, 10, 50, 50))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Mask.GrayAt(30, 30).Y != 255 {
		t.Fatalf("square centre should be foreground")
	}
	if res.Mask.GrayAt(12, 12).Y != 0 {
		t.Fatalf("grey inside the rectangle should be background")
	}
	if res.Mask.GrayAt(5, 5).Y != 0 {
		t.Fatalf("outside the rectangle is always background")
	}
	if got := res.Output.RGBAAt(5, 5); got != (color.RGBA{A: 255}) {
		t.Fatalf("masked output should be black, got %v", got)
	}
	if got := res.Output.RGBAAt(30, 30); got.R != 220 {
		t.Fatalf("foreground pixel lost: %v", got)
	}
	cov := Coverage(res.Mask)
	if cov < 0.10 || cov > 0.12 {
		t.Fatalf("unexpected coverage %v", cov)
	}
}

func TestColorModel_EmptyRect(t *testing.T) {
	_, err := NewColorModel(1).Extract(context.Background(), scene(), image.Rect(100, 100, 120, 120))
	if !errors.Is(err, ErrEmptyRect) {
		t.Fatalf("expected ErrEmptyRect, got %v", err)
	}
}

func TestColorModel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewColorModel(3).Extract(ctx, scene(), image.Rect(10, 10, 50, 50))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestComposite_ThreePanels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	res, err := NewColorModel(1).Extract(context.Background(), img, image.Rect(100, 100, 200, 200))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	out := Composite(img, res, 500)
	if out.Bounds() != image.Rect(0, 0, 1500, 250) {
		t.Fatalf("unexpected composite bounds %v", out.Bounds())
	}
}
