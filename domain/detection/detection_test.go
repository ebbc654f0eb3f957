package detection

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func frame() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 200, 100)) }

func TestClient_PostsMultipartJPEG(t *testing.T) {
	var gotConf, gotIoU string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/detect" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotConf, gotIoU = r.URL.Query().Get("conf"), r.URL.Query().Get("iou")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer f.Close()
		if hdr.Filename != "frame.jpg" {
			t.Errorf("unexpected filename %q", hdr.Filename)
		}
		head := make([]byte, 2)
		_, _ = io.ReadFull(f, head)
		if head[0] != 0xFF || head[1] != 0xD8 {
			t.Errorf("payload is not a jpeg")
		}
		_ = json.NewEncoder(w).Encode(Response{Boxes: []Box{
			{Label: "cat", ClassID: 15, Conf: 0.9, X1: 10, Y1: 10, X2: 50, Y2: 50},
			{ClassID: 16, Conf: 0.8, X1: 90, Y1: 90, X2: 40, Y2: 40},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, Thresholds{Conf: 0.25, IoU: 0.45})
	set, err := c.Detect(context.Background(), Request{Image: frame()})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if gotConf != "0.25" || gotIoU != "0.45" {
		t.Fatalf("unexpected query conf=%s iou=%s", gotConf, gotIoU)
	}
	if len(set) != 2 || set[0].Label != "cat" || set[1].Label != "class 16" {
		t.Fatalf("unexpected set %+v", set)
	}
	if set[1].Box != (annotate.Box{X0: 40, Y0: 40, X1: 90, Y1: 90}) {
		t.Fatalf("box not normalised: %v", set[1].Box)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	_, err := NewClient(srv.URL, time.Second, Thresholds{}).Detect(context.Background(), Request{Image: frame()})
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", 0, Thresholds{}).Detect(context.Background(), Request{Image: frame()})
	if !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
}

func TestFileEngine_ScalesToDisplay(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	body, _ := json.Marshal(Response{Boxes: []Box{{Label: "dog", Conf: 0.7, X1: 100, Y1: 0, X2: 500, Y2: 180}}})
	if err := os.WriteFile(src+".detections.json", body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	set, err := NewFileEngine("").Detect(context.Background(), Request{Image: frame(), Source: src, Scale: 0.5})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	want := annotate.Box{X0: 50, Y0: 0, X1: 200, Y1: 90}
	if len(set) != 1 || set[0].Box != want {
		t.Fatalf("unexpected set %+v", set)
	}
	if _, err := NewFileEngine("").Detect(context.Background(), Request{Source: filepath.Join(dir, "none.jpg")}); !errors.Is(err, ErrNoSidecarFile) {
		t.Fatalf("expected ErrNoSidecarFile, got %v", err)
	}
}

type stubEngine struct {
	set   annotate.DetectionSet
	err   error
	calls int
}

func (s *stubEngine) Detect(ctx context.Context, req Request) (annotate.DetectionSet, error) {
	s.calls++
	return s.set, s.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	a := &stubEngine{err: errors.New("a down")}
	b := &stubEngine{set: annotate.DetectionSet{{Label: "b"}}}
	c := &stubEngine{set: annotate.DetectionSet{{Label: "c"}}}
	set, err := NewChain(discardLogger, a, nil, b, c).Detect(context.Background(), Request{})
	if err != nil || len(set) != 1 || set[0].Label != "b" {
		t.Fatalf("unexpected result %+v %v", set, err)
	}
	if c.calls != 0 {
		t.Fatalf("later engines must not run")
	}
}

func TestChain_AllFail(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	_, err := NewChain(nil, &stubEngine{err: e1}, &stubEngine{err: e2}).Detect(context.Background(), Request{})
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	if _, err := NewChain(nil).Detect(context.Background(), Request{}); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
}
