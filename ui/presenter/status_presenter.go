package presenter

import (
	"time"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
	"github.com/soocke/pixel-annotate-go/ui/model"
)

// DetectionStatusSource reports whether detection is running.
type DetectionStatusSource interface {
	DetectionStatus() (annotate.DetectionStatus, error)
}

// StatusView displays the status line and detection timings.
type StatusView interface {
	SetStatus(text string)
	SetProcessing(last, total time.Duration, runs int)
}

// StatusPresenter pushes the status model to the view.
type StatusPresenter struct {
	status *model.StatusModel
	det    DetectionStatusSource
	view   StatusView
}

// NewStatusPresenter returns a new StatusPresenter.
func NewStatusPresenter(status *model.StatusModel, det DetectionStatusSource, view StatusView) *StatusPresenter {
	return &StatusPresenter{status: status, det: det, view: view}
}

// Tick advances the processing clock and refreshes the view.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.status == nil || p.view == nil {
		return
	}
	if text, changed := p.status.TakeText(); changed {
		p.view.SetStatus(text)
	}
	processing := false
	if p.det != nil {
		st, _ := p.det.DetectionStatus()
		processing = st == annotate.DetectionsPending
	}
	p.status.OnTick(processing, now)
	p.view.SetProcessing(p.status.Values())
}
