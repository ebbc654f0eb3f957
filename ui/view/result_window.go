package view

import (
	"image"
	"log/slog"

	"github.com/soocke/pixel-annotate-go/domain/imaging"
	"github.com/soocke/pixel-annotate-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// ResultWindows opens one top-level window per result title. Showing a
// result under an open title replaces its image.
type ResultWindows interface {
	ShowResult(title string, img image.Image)
	CloseAll()
}

type resultWindow struct {
	win   *ToplevelWidget
	label *LabelWidget
	photo *Img
}

type resultWindows struct {
	logger *slog.Logger
	open   map[string]*resultWindow
}

// NewResultWindows returns an empty window set.
func NewResultWindows(logger *slog.Logger) ResultWindows {
	return &resultWindows{logger: logger, open: make(map[string]*resultWindow)}
}

func (v *resultWindows) ShowResult(title string, img image.Image) {
	if v == nil || img == nil {
		return
	}
	pngBytes := imaging.EncodePNG(img)
	if rw, ok := v.open[title]; ok {
		if rw.photo != nil {
			rw.photo.Delete()
		}
		rw.photo = NewPhoto(Data(pngBytes))
		rw.label.Configure(Image(rw.photo))
		return
	}
	win := App.Toplevel(Borderwidth(2), Background(theme.CurrentPalette().Surface))
	win.WmTitle(title)
	photo := NewPhoto(Data(pngBytes))
	lbl := win.Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(lbl, Row(0), Column(0), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	closeBtn := win.Button(Txt("Close [Esc]"), Command(func() { v.close(title) }))
	Grid(closeBtn, Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Escape>", Command(func() { v.close(title) }))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", func() { v.close(title) })
	v.open[title] = &resultWindow{win: win, label: lbl, photo: photo}
	if v.logger != nil {
		b := img.Bounds()
		v.logger.Debug("result window opened", "title", title, "width", b.Dx(), "height", b.Dy())
	}
}

func (v *resultWindows) close(title string) {
	rw, ok := v.open[title]
	if !ok {
		return
	}
	delete(v.open, title)
	if rw.photo != nil {
		rw.photo.Delete()
	}
	Destroy(rw.win)
}

func (v *resultWindows) CloseAll() {
	if v == nil {
		return
	}
	for title := range v.open {
		v.close(title)
	}
}
