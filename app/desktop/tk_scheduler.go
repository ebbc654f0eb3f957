package desktop

import (
	"sync"
	"time"

	"github.com/soocke/pixel-annotate-go/domain/annotate"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// TkScheduler runs callbacks on the Tk event loop through "after".
type TkScheduler struct{}

func (TkScheduler) After(delay time.Duration, fn func()) annotate.CancelFunc {
	id := TclAfter(delay, fn)
	var once sync.Once
	return func() { once.Do(func() { TclAfterCancel(id) }) }
}

var _ annotate.Scheduler = TkScheduler{}
