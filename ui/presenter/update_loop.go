package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It drains background results, refreshes the views and invokes a scheduler
// callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Detect   *DetectionPresenter
	Action   *ActionPresenter
	State    *StatePresenter
	Status   *StatusPresenter
	Afford   *AffordancePresenter
	Refresh  *RefreshPresenter
	Publish  func()
	Schedule func()
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Detect != nil {
		l.Detect.ProcessFrame()
	}
	if l.Action != nil {
		l.Action.Process()
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Afford != nil {
		l.Afford.Tick()
	}
	if l.Refresh != nil {
		l.Refresh.Tick()
	}
	if l.Publish != nil {
		l.Publish()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
