package presenter

import (
	"fmt"
	"log/slog"

	"github.com/soocke/pixel-annotate-go/domain/annotate"
	"github.com/soocke/pixel-annotate-go/domain/detection"
)

// DetectionSource yields finished detection runs without blocking.
type DetectionSource interface {
	Poll() (detection.Result, bool)
}

// DetectionSession is the part of the annotation session that accepts detections.
type DetectionSession interface {
	AttachDetections(seq uint64, set annotate.DetectionSet) error
	DetectionsFailed(seq uint64, err error) error
}

// DetectionPresenter moves detection results from the background runner onto
// the UI thread and into the session.
type DetectionPresenter struct {
	source  DetectionSource
	session DetectionSession
	status  StatusSink
	logger  *slog.Logger

	// OnResult, when set, observes every result the session accepted.
	OnResult func(detection.Result)
}

// NewDetectionPresenter constructs a detection presenter.
func NewDetectionPresenter(source DetectionSource, session DetectionSession, status StatusSink, logger *slog.Logger) *DetectionPresenter {
	return &DetectionPresenter{source: source, session: session, status: status, logger: logger}
}

// ProcessFrame drains pending results and returns how many were applied.
// Results for a previously loaded image are dropped.
func (p *DetectionPresenter) ProcessFrame() int {
	if p == nil || p.source == nil || p.session == nil {
		return 0
	}
	applied := 0
	for {
		res, ok := p.source.Poll()
		if !ok {
			return applied
		}
		if p.handleResult(res) {
			applied++
		}
	}
}

func (p *DetectionPresenter) handleResult(res detection.Result) bool {
	if res.Err != nil {
		if err := p.session.DetectionsFailed(res.Sequence, res.Err); err != nil {
			p.debug("detection failure dropped", res, err)
			return false
		}
		if p.logger != nil {
			p.logger.Error("detection", "error", res.Err, "sequence", res.Sequence)
		}
		p.setStatus(fmt.Sprintf("Processing failed: %v. %s", res.Err, TextDrawRect))
		p.notify(res)
		return true
	}
	if err := p.session.AttachDetections(res.Sequence, res.Set); err != nil {
		p.debug("detections dropped", res, err)
		return false
	}
	if p.logger != nil {
		p.logger.Info("detections attached", "sequence", res.Sequence, "count", len(res.Set), "duration", res.Duration)
	}
	if len(res.Set) == 0 {
		p.setStatus(TextNoObjects)
	} else {
		p.setStatus(TextProcessed)
	}
	p.notify(res)
	return true
}

func (p *DetectionPresenter) setStatus(s string) {
	if p.status != nil {
		p.status.SetText(s)
	}
}

func (p *DetectionPresenter) notify(res detection.Result) {
	if p.OnResult != nil {
		p.OnResult(res)
	}
}

func (p *DetectionPresenter) debug(msg string, res detection.Result, err error) {
	if p.logger != nil {
		p.logger.Debug(msg, "sequence", res.Sequence, "error", err)
	}
}
