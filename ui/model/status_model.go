package model

import (
	"time"
)

// StatusModel holds the status line text and times detection runs.
// It is decoupled from the UI; presenters poll it on the tick.
// The zero value is ready to use.
type StatusModel struct {
	text    string
	changed bool

	processing bool
	started    time.Time
	last       time.Duration
	total      time.Duration
	runs       int
}

// NewStatusModel returns a pointer to a ready-to-use StatusModel.
func NewStatusModel() *StatusModel { return &StatusModel{} }

// SetText replaces the status text. Setting the same text again is not a change.
func (m *StatusModel) SetText(s string) {
	if m == nil || s == m.text {
		return
	}
	m.text = s
	m.changed = true
}

// Text returns the current status text.
func (m *StatusModel) Text() string {
	if m == nil {
		return ""
	}
	return m.text
}

// TakeText returns the text and whether it changed since the previous call.
func (m *StatusModel) TakeText() (string, bool) {
	if m == nil {
		return "", false
	}
	changed := m.changed
	m.changed = false
	return m.text, changed
}

// OnTick advances the processing clock using the current detection state.
func (m *StatusModel) OnTick(processing bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case processing && !m.processing: // idle -> running
		m.processing = true
		m.started = now
		m.last = 0
	case processing:
		m.last = now.Sub(m.started)
	case m.processing: // running -> idle
		m.last = now.Sub(m.started)
		m.total += m.last
		m.runs++
		m.processing = false
	}
}

// Values returns the duration of the current or last run, the accumulated
// duration of finished runs plus the ongoing one, and the finished run count.
func (m *StatusModel) Values() (last, total time.Duration, runs int) {
	if m == nil {
		return 0, 0, 0
	}
	total = m.total
	if m.processing {
		total += m.last
	}
	return m.last, total, m.runs
}
