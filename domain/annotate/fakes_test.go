package annotate

import (
	"log/slog"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeRenderer records every draw and delete and tracks live handles.
type fakeRenderer struct {
	next    Handle
	live    map[Handle]string
	rects   []Box
	texts   []string
	styles  []TextStyle
	deletes int
}

func newFakeRenderer() *fakeRenderer { return &fakeRenderer{live: map[Handle]string{}} }

func (r *fakeRenderer) DrawRect(box Box, style RectStyle) Handle {
	r.next++
	r.live[r.next] = "rect:" + style.Color
	r.rects = append(r.rects, box)
	return r.next
}

func (r *fakeRenderer) DrawText(at Point, text string, style TextStyle) Handle {
	r.next++
	r.live[r.next] = "text:" + text
	r.texts = append(r.texts, text)
	r.styles = append(r.styles, style)
	return r.next
}

func (r *fakeRenderer) Delete(h Handle) {
	delete(r.live, h)
	r.deletes++
}

func (r *fakeRenderer) liveCount() int { return len(r.live) }

func (r *fakeRenderer) liveRects() []string {
	var out []string
	for _, v := range r.live {
		if len(v) > 5 && v[:5] == "rect:" {
			out = append(out, v)
		}
	}
	return out
}

// fakeScheduler queues callbacks and runs them only when told to. Cancelled
// callbacks stay reachable through fireCancelled so late timers can be
// simulated.
type fakeScheduler struct {
	timers []*fakeTimer
}

type fakeTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (s *fakeScheduler) After(delay time.Duration, fn func()) CancelFunc {
	t := &fakeTimer{delay: delay, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

// flush runs every live timer once.
func (s *fakeScheduler) flush() {
	for _, t := range s.timers {
		if !t.cancelled && !t.fired {
			t.fired = true
			t.fn()
		}
	}
}

// fireCancelled runs cancelled timers as if cancellation lost the race.
func (s *fakeScheduler) fireCancelled() {
	for _, t := range s.timers {
		if t.cancelled && !t.fired {
			t.fired = true
			t.fn()
		}
	}
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// fixedStyle always returns the same colors.
type fixedStyle struct{ outline, primary, shadow string }

func (f fixedStyle) OutlineColor() string          { return f.outline }
func (f fixedStyle) LabelColors() (string, string) { return f.primary, f.shadow }

func newFixedStyle() fixedStyle { return fixedStyle{"blue", "black", "white"} }

func catDog() DetectionSet {
	return DetectionSet{
		{Box: Box{X0: 10, Y0: 10, X1: 50, Y1: 50}, Label: "cat"},
		{Box: Box{X0: 40, Y0: 40, X1: 90, Y1: 90}, Label: "dog"},
	}
}
