package presenter

import "github.com/soocke/pixel-annotate-go/ui/model"

// AffordanceView enables or disables the session action buttons.
type AffordanceView interface {
	SetActionEnabled(bool)
	SetSegmentsEnabled(bool)
}

// AffordancePresenter reflects affordance changes on the tick.
type AffordancePresenter struct {
	model *model.AffordanceModel
	view  AffordanceView
}

func NewAffordancePresenter(m *model.AffordanceModel, view AffordanceView) *AffordancePresenter {
	return &AffordancePresenter{model: m, view: view}
}

func (p *AffordancePresenter) Tick() {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	if !p.model.TakeChanged() {
		return
	}
	p.view.SetActionEnabled(p.model.ActionEnabled())
	p.view.SetSegmentsEnabled(p.model.SegmentsEnabled())
}
