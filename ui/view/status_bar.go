package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// StatusBar shows the status line and detection timings.
type StatusBar interface {
	SetStatus(text string)
	SetProcessing(last, total time.Duration, runs int)
}

type statusBar struct {
	statusLbl *LabelWidget
	timingLbl *LabelWidget
}

// NewStatusBar places the status label at (row, 0) spanning cols-1 columns
// and the timing label in the last column.
func NewStatusBar(row, cols int) StatusBar {
	s := &statusBar{
		statusLbl: Label(Txt("Upload an image first!"), Anchor("w"), Borderwidth(1), Relief("sunken")),
		timingLbl: Label(Width(26), Anchor("e")),
	}
	Grid(s.statusLbl, Row(row), Column(0), Columnspan(max(1, cols-1)), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	Grid(s.timingLbl, Row(row), Column(max(1, cols-1)), Sticky("e"), Padx("0.2m"))
	s.SetProcessing(0, 0, 0)
	return s
}

func (s *statusBar) SetStatus(text string) {
	if s == nil || s.statusLbl == nil {
		return
	}
	s.statusLbl.Configure(Txt(text))
}

func (s *statusBar) SetProcessing(last, total time.Duration, runs int) {
	if s == nil || s.timingLbl == nil {
		return
	}
	s.timingLbl.Configure(Txt(fmt.Sprintf("Last: %.1fs  Total: %.1fs  Runs: %d", last.Seconds(), total.Seconds(), runs)))
}
