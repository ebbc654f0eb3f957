package detection

import (
	"testing"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

func det(label string, score float64, x0, y0, x1, y1 int) annotate.Detection {
	return annotate.Detection{Label: label, Score: score, Box: annotate.Box{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

func TestFilter_ConfidenceThreshold(t *testing.T) {
	set := annotate.DetectionSet{det("a", 0.9, 0, 0, 10, 10), det("b", 0.1, 20, 20, 30, 30)}
	out := Filter(set, Thresholds{Conf: 0.25})
	if len(out) != 1 || out[0].Label != "a" {
		t.Fatalf("unexpected %+v", out)
	}
}

func TestFilter_NMSKeepsOriginalOrder(t *testing.T) {
	set := annotate.DetectionSet{
		det("low", 0.5, 0, 0, 100, 100),
		det("other", 0.6, 200, 200, 250, 250),
		det("high", 0.9, 2, 2, 100, 100),
	}
	out := Filter(set, Thresholds{Conf: 0, IoU: 0.5})
	if len(out) != 2 || out[0].Label != "other" || out[1].Label != "high" {
		t.Fatalf("unexpected %+v", out)
	}
}

func TestFilter_NMSPerClass(t *testing.T) {
	a := det("cat", 0.9, 0, 0, 100, 100)
	b := det("dog", 0.8, 0, 0, 100, 100)
	b.ClassID = 1
	out := Filter(annotate.DetectionSet{a, b}, Thresholds{IoU: 0.5})
	if len(out) != 2 {
		t.Fatalf("different classes must not suppress each other: %+v", out)
	}
}

func TestIoU(t *testing.T) {
	a := annotate.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := annotate.Box{X0: 5, Y0: 0, X1: 15, Y1: 10}
	if got := IoU(a, b); got < 0.333 || got > 0.334 {
		t.Fatalf("unexpected IoU %v", got)
	}
	if IoU(a, annotate.Box{X0: 20, Y0: 20, X1: 30, Y1: 30}) != 0 {
		t.Fatalf("disjoint boxes must have zero IoU")
	}
}
