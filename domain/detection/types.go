// Package detection produces labelled boxes for a loaded image.
package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

var (
	ErrNoEngine      = errors.New("no detection engine configured")
	ErrNoSidecarFile = errors.New("no detections file next to image")
)

// Box is one detection as exchanged with the detector sidecar.
type Box struct {
	Label   string  `json:"label"`
	ClassID int     `json:"class_id"`
	Conf    float64 `json:"conf"`
	X1      int     `json:"x1"`
	Y1      int     `json:"y1"`
	X2      int     `json:"x2"`
	Y2      int     `json:"y2"`
}

// Response is the sidecar reply body and the sidecar file format.
type Response struct {
	Boxes []Box `json:"boxes"`
}

// Request carries the image to analyse.
type Request struct {
	Image *image.RGBA
	// Source is the file the image came from, empty for screen captures.
	Source string
	// Scale maps original pixel coordinates to Image coordinates.
	Scale float64
}

// Engine turns an image into a detection set in Image coordinates.
type Engine interface {
	Detect(ctx context.Context, req Request) (annotate.DetectionSet, error)
}

// Thresholds filter engine output.
type Thresholds struct {
	Conf float64
	IoU  float64
}

// ToSet converts wire boxes into a detection set, scaling coordinates by
// scale and clamping them to bounds.
func ToSet(boxes []Box, scale float64, bounds image.Rectangle) annotate.DetectionSet {
	if scale <= 0 {
		scale = 1
	}
	out := make(annotate.DetectionSet, 0, len(boxes))
	clamp := annotate.BoxFromRect(bounds)
	for _, b := range boxes {
		box := annotate.Normalize(
			annotate.Pt(scaled(b.X1, scale), scaled(b.Y1, scale)),
			annotate.Pt(scaled(b.X2, scale), scaled(b.Y2, scale)),
		)
		if !bounds.Empty() {
			box = box.Clamp(clamp)
		}
		label := b.Label
		if label == "" {
			label = fmt.Sprintf("class %d", b.ClassID)
		}
		out = append(out, annotate.Detection{Box: box, Label: label, ClassID: b.ClassID, Score: b.Conf})
	}
	return out
}

func scaled(v int, scale float64) int {
	if scale == 1 {
		return v
	}
	return int(math.Round(float64(v) * scale))
}
