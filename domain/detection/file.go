package detection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// FileEngine reads precomputed detections stored next to the image as
// <image path><Suffix>. Coordinates in the file refer to the original image
// and are scaled to the display size.
type FileEngine struct {
	Suffix string
}

// NewFileEngine returns an engine reading <path><suffix>.
func NewFileEngine(suffix string) *FileEngine {
	if suffix == "" {
		suffix = ".detections.json"
	}
	return &FileEngine{Suffix: suffix}
}

// Path returns the sidecar file for an image.
func (e *FileEngine) Path(source string) string { return source + e.Suffix }

func (e *FileEngine) Detect(ctx context.Context, req Request) (annotate.DetectionSet, error) {
	if req.Source == "" {
		return nil, ErrNoSidecarFile
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := e.Path(req.Source)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoSidecarFile)
		}
		return nil, fmt.Errorf("read: %w", err)
	}
	var r Response
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	var bounds image.Rectangle
	if req.Image != nil {
		bounds = req.Image.Bounds()
	}
	return ToSet(r.Boxes, req.Scale, bounds), nil
}

var _ Engine = (*FileEngine)(nil)
