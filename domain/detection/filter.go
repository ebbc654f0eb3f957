package detection

import (
	"sort"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// Filter drops detections below t.Conf and suppresses boxes overlapping a
// higher scoring box by more than t.IoU. Kept detections stay in their
// original order, which is the order hit-testing resolves overlaps in.
func Filter(set annotate.DetectionSet, t Thresholds) annotate.DetectionSet {
	cands := make([]int, 0, len(set))
	for i, d := range set {
		if d.Score >= t.Conf {
			cands = append(cands, i)
		}
	}
	if t.IoU > 0 && t.IoU < 1 {
		cands = nms(set, cands, t.IoU)
	}
	out := make(annotate.DetectionSet, 0, len(cands))
	for _, i := range cands {
		out = append(out, set[i])
	}
	return out
}

// nms returns the surviving indices in ascending order.
func nms(set annotate.DetectionSet, idx []int, iouThresh float64) []int {
	order := append([]int(nil), idx...)
	sort.SliceStable(order, func(a, b int) bool {
		return set[order[a]].Score > set[order[b]].Score
	})
	suppressed := make(map[int]bool, len(order))
	keep := make([]int, 0, len(order))
	for i, a := range order {
		if suppressed[a] {
			continue
		}
		keep = append(keep, a)
		for _, b := range order[i+1:] {
			if suppressed[b] || set[a].ClassID != set[b].ClassID {
				continue
			}
			if IoU(set[a].Box, set[b].Box) > iouThresh {
				suppressed[b] = true
			}
		}
	}
	sort.Ints(keep)
	return keep
}

// IoU is the intersection over union of two boxes.
func IoU(a, b annotate.Box) float64 {
	inter := a.Rect().Intersect(b.Rect())
	if inter.Empty() {
		return 0
	}
	ia := inter.Dx() * inter.Dy()
	union := a.Width()*a.Height() + b.Width()*b.Height() - ia
	if union <= 0 {
		return 0
	}
	return float64(ia) / float64(union)
}
