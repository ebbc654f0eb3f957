package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// Client talks to a detector sidecar over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	quality int
	thresh  Thresholds
}

// NewClient returns a client for the sidecar at baseURL.
func NewClient(baseURL string, timeout time.Duration, t Thresholds) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		quality: 90,
		thresh:  t,
	}
}

// DetectJPEG posts an encoded frame and returns the raw boxes.
func (c *Client) DetectJPEG(ctx context.Context, jpg []byte, conf, iou float64) ([]Box, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, err
	}
	if _, err = fw.Write(jpg); err != nil {
		return nil, err
	}
	_ = w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/detect?conf=%g&iou=%g", c.baseURL, conf, iou), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detector status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode detector response: %w", err)
	}
	return out.Boxes, nil
}

// Detect encodes the display image and maps the returned boxes onto it.
func (c *Client) Detect(ctx context.Context, req Request) (annotate.DetectionSet, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNoEngine
	}
	if req.Image == nil {
		return nil, fmt.Errorf("detect: nil image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, req.Image, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	boxes, err := c.DetectJPEG(ctx, buf.Bytes(), c.thresh.Conf, c.thresh.IoU)
	if err != nil {
		return nil, fmt.Errorf("detector %s: %w", c.baseURL, err)
	}
	return ToSet(boxes, 1, req.Image.Bounds()), nil
}

var _ Engine = (*Client)(nil)
