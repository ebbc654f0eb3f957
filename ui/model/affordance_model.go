package model

import (
	"sync/atomic"
)

// AffordanceModel tracks which session actions are currently available. The
// zero value has everything disabled and is usable.
// Session callbacks run on the UI thread but the status server reads it too.
type AffordanceModel struct {
	action   atomic.Bool
	segments atomic.Bool
	dirty    atomic.Bool
}

// ActionEnabled reports whether a committed region can be consumed.
func (m *AffordanceModel) ActionEnabled() bool {
	if m == nil {
		return false
	}
	return m.action.Load()
}

// SegmentsEnabled reports whether detections can be viewed.
func (m *AffordanceModel) SegmentsEnabled() bool {
	if m == nil {
		return false
	}
	return m.segments.Load()
}

// SetAction stores the action flag.
func (m *AffordanceModel) SetAction(b bool) {
	if m == nil {
		return
	}
	if m.action.Swap(b) != b {
		m.dirty.Store(true)
	}
}

// SetSegments stores the segments flag.
func (m *AffordanceModel) SetSegments(b bool) {
	if m == nil {
		return
	}
	if m.segments.Swap(b) != b {
		m.dirty.Store(true)
	}
}

// TakeChanged reports whether a flag changed since the last call and resets
// the marker.
func (m *AffordanceModel) TakeChanged() bool {
	if m == nil {
		return false
	}
	return m.dirty.Swap(false)
}
