package presenter

import (
	"time"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives selector transitions and reflects the latest one.
type StatePresenter struct {
	view    StateView
	latest  annotate.SelectorState
	shown   bool
	pending []annotate.SelectorState
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transition; it matches the selector listener signature.
//
// The latest queued state will be reflected on the next Tick.
func (p *StatePresenter) OnState(prev, next annotate.SelectorState) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick processes queued states and updates the view with the most recent one.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if p.shown && last == p.latest {
		return
	}
	p.latest, p.shown = last, true
	p.view.SetStateLabel("State: " + last.String())
}
