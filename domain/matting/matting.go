// Package matting separates the foreground inside a rectangle from the
// background around it.
package matting

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"

	"github.com/soocke/pixel-annotate-go/domain/imaging"
)

var ErrEmptyRect = errors.New("matting rectangle is empty")

// Result holds the binary mask (0 or 255) and the masked foreground, both in
// the coordinate space of the input image.
type Result struct {
	Mask   *image.Gray
	Output *image.RGBA
	Rect   image.Rectangle
}

// Engine extracts the foreground inside rect.
type Engine interface {
	Extract(ctx context.Context, img *image.RGBA, rect image.Rectangle) (Result, error)
}

// ApplyMask keeps the pixels of img where mask is non-zero and blacks out the rest.
func ApplyMask(img *image.RGBA, mask *image.Gray) *image.RGBA {
	if img == nil || mask == nil {
		return nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if mask.GrayAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).Y == 0 {
				out.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			out.SetRGBA(x, y, img.RGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// Composite renders input, mask and foreground side by side, each panel
// downscaled so its longer side is at most side.
func Composite(input *image.RGBA, res Result, side int) *image.RGBA {
	return imaging.HConcat(
		imaging.Preview(input, side),
		imaging.Preview(imaging.GrayToRGBA(res.Mask), side),
		imaging.Preview(res.Output, side),
	)
}

// Run extracts with e and logs the outcome.
func Run(ctx context.Context, e Engine, img *image.RGBA, rect image.Rectangle, logger *slog.Logger) (Result, error) {
	if e == nil {
		return Result{}, errors.New("no matting engine")
	}
	res, err := e.Extract(ctx, img, rect)
	if err != nil {
		if logger != nil {
			logger.Error("matting failed", "error", err, "rect", rect.String())
		}
		return Result{}, err
	}
	if logger != nil {
		logger.Info("matting done", "rect", rect.String(), "foreground", Coverage(res.Mask))
	}
	return res, nil
}

// Coverage returns the share of mask pixels marked foreground.
func Coverage(mask *image.Gray) float64 {
	if mask == nil || len(mask.Pix) == 0 {
		return 0
	}
	n := 0
	for _, v := range mask.Pix {
		if v != 0 {
			n++
		}
	}
	return float64(n) / float64(len(mask.Pix))
}
