package model

import (
	"testing"
	"time"
)

func TestStatusModel_ProcessingLifecycle(t *testing.T) {
	m := NewStatusModel()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(2*time.Second))
	last, total, runs := m.Values()
	if last != 2*time.Second || total != 2*time.Second || runs != 0 {
		t.Fatalf("running: last=%v total=%v runs=%d", last, total, runs)
	}

	m.OnTick(false, base.Add(3*time.Second))
	last, total, runs = m.Values()
	if last != 3*time.Second || total != 3*time.Second || runs != 1 {
		t.Fatalf("after stop: last=%v total=%v runs=%d", last, total, runs)
	}

	// idle ticks change nothing
	m.OnTick(false, base.Add(9*time.Second))
	if l2, t2, r2 := m.Values(); l2 != last || t2 != total || r2 != runs {
		t.Fatalf("idle tick changed values: %v %v %d", l2, t2, r2)
	}

	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(11*time.Second))
	last, total, _ = m.Values()
	if last != time.Second || total != 4*time.Second {
		t.Fatalf("second run: last=%v total=%v", last, total)
	}
	m.OnTick(false, base.Add(11*time.Second))
	if _, total, runs = m.Values(); total != 4*time.Second || runs != 2 {
		t.Fatalf("final: total=%v runs=%d", total, runs)
	}
}

func TestStatusModel_TakeText(t *testing.T) {
	m := NewStatusModel()
	if _, changed := m.TakeText(); changed {
		t.Fatalf("zero model should not report a change")
	}
	m.SetText("Image Uploaded!")
	if s, changed := m.TakeText(); !changed || s != "Image Uploaded!" {
		t.Fatalf("got %q changed=%v", s, changed)
	}
	if _, changed := m.TakeText(); changed {
		t.Fatalf("change must be consumed")
	}
	m.SetText("Image Uploaded!")
	if _, changed := m.TakeText(); changed {
		t.Fatalf("same text is not a change")
	}
}

func TestAffordanceModel_Changes(t *testing.T) {
	var m AffordanceModel
	if m.ActionEnabled() || m.SegmentsEnabled() || m.TakeChanged() {
		t.Fatalf("zero value must be disabled and clean")
	}
	m.SetAction(true)
	m.SetAction(true)
	if !m.ActionEnabled() || !m.TakeChanged() || m.TakeChanged() {
		t.Fatalf("expected a single change for action")
	}
	m.SetSegments(false)
	if m.TakeChanged() {
		t.Fatalf("no-op set must not mark a change")
	}
	var nilModel *AffordanceModel
	nilModel.SetAction(true)
	if nilModel.ActionEnabled() {
		t.Fatalf("nil model reports disabled")
	}
}
