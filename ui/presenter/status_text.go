package presenter

import (
	"fmt"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// Status line texts.
const (
	TextUploadFirst = "Upload an image first!"
	TextUploaded    = "Image Uploaded!"
	TextDrawRect    = "Draw a Rectangle!"
	TextProcessing  = "Processing started..."
	TextProcessed   = "Processing done! Hover over the image to find objects!"
	TextNoObjects   = "Processing done! No objects found."
	TextRemoving    = "Removing background..."
	TextRemoved     = "Background removed!"
	TextNoSegments  = "No detections to show yet!"
)

// StatusSink receives status line text.
type StatusSink interface{ SetText(string) }

// RegionText formats a committed region for the status line.
func RegionText(b annotate.Box) string {
	return fmt.Sprintf("Rectangle Coordinates: x0=%d, y0=%d, x1=%d, y1=%d", b.X0, b.Y0, b.X1, b.Y1)
}
