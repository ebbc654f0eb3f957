package imaging

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenSource is the name given to rasters grabbed from the display.
const ScreenSource = "screen"

// Grabber captures pixels from the display. Tests swap it out.
var Grabber = func(area image.Rectangle) (*image.RGBA, error) {
	if area.Empty() {
		return screenshot.CaptureScreen()
	}
	return screenshot.CaptureRect(area)
}

// CaptureScreen grabs the whole screen, or area when it is non-empty, and
// prepares it for display like Load does for files.
func CaptureScreen(area image.Rectangle, target, threshold int) (*Raster, error) {
	img, err := Grabber(area)
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w: %w", ErrIOFailure, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("capture screen: %w", ErrNotAnImage)
	}
	r := Prepare(img, target, threshold)
	r.Source = ScreenSource
	return r, nil
}
