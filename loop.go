package alerta

import (
	"github.com/alerta-go/alerta/ui"
	"github.com/alerta-go/alerta/x11"
)

// eventWindow is the part of *x11.Window the event loop drives.
type eventWindow interface {
	WaitForEvent() (ui.Event, error)
	PollForEvent() (ui.Event, error)
	SetContents(*ui.Canvas) error
	StartDrag() error
}

// runLoop feeds window events to the Ui until it produces an answer.
// Events that have already arrived are processed together, so a burst of
// pointer motion costs one redraw and one upload.
func runLoop(win eventWindow, u *ui.Ui) (Answer, error) {
	var drag dragTracker
	for {
		ev, err := win.WaitForEvent()
		if err != nil {
			return Closed, err
		}
		for ev != nil {
			drag.observe(ev, u, win)
			if answer, ok := u.ProcessEvent(ev); ok {
				return answer, nil
			}
			if ev, err = win.PollForEvent(); err != nil {
				return Closed, err
			}
		}

		u.Redraw()
		if err := win.SetContents(u.Canvas); err != nil {
			return Closed, err
		}
	}
}

// dragTracker hands window moves to the window manager. A left press on the
// dialog background followed by motion outside every button starts one
// move; presses on a button never do.
type dragTracker struct {
	armed    bool // left button went down outside every button
	dragging bool // StartDrag was issued for this press
}

// observe must see each event before the Ui does, so that Hovered still
// describes the pointer at the time of a press.
func (d *dragTracker) observe(ev ui.Event, u *ui.Ui, win eventWindow) {
	switch ev := ev.(type) {
	case ui.ButtonPress:
		if ev.Button == ui.Left {
			_, onButton := u.Hovered()
			d.armed, d.dragging = !onButton, false
		}
	case ui.ButtonRelease:
		if ev.Button == ui.Left {
			d.armed, d.dragging = false, false
		}
	case ui.CursorMove:
		if !d.armed || d.dragging {
			return
		}
		if _, over := u.ButtonAt(ev.Pos); over {
			return
		}
		d.dragging = true
		if err := win.StartDrag(); err != nil {
			x11.Logger.Printf("starting drag: %v", err)
		}
	}
}
