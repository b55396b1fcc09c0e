package x11

import (
	"image"

	"github.com/alerta-go/alerta/ui"
)

// translateEvent turns a raw event into a ui.Event. It returns nil for
// events the dialog ignores. When the event carries a pointer position, the
// root-relative position is returned with ok set.
func translateEvent(buf []byte, window, wmProtocols, wmDeleteWindow uint32) (ev ui.Event, root image.Point, ok bool) {
	if len(buf) < 32 {
		return nil, root, false
	}
	code := buf[0] & 0x7f

	switch code {
	case ButtonPress, ButtonRelease, MotionNotify, EnterNotify, LeaveNotify:
		if get32(buf[12:]) != window {
			return nil, root, false
		}
		root = image.Pt(int(int16(get16(buf[20:]))), int(int16(get16(buf[22:]))))
		pos := image.Pt(int(int16(get16(buf[24:]))), int(int16(get16(buf[26:]))))
		ok = true
		switch code {
		case MotionNotify:
			ev = ui.CursorMove{Pos: pos}
		case EnterNotify:
			ev = ui.CursorEnter{Pos: pos}
		case LeaveNotify:
			ev = ui.CursorLeave{}
		default:
			button, known := mouseButton(buf[1])
			if !known {
				return nil, root, ok
			}
			if code == ButtonPress {
				ev = ui.ButtonPress{Button: button}
			} else {
				ev = ui.ButtonRelease{Button: button}
			}
		}
		return ev, root, ok
	case Expose:
		if get32(buf[4:]) == window {
			return ui.RedrawRequested{}, root, false
		}
	case ClientMessage:
		if buf[1] == 32 && get32(buf[4:]) == window &&
			get32(buf[8:]) == wmProtocols && get32(buf[12:]) == wmDeleteWindow {
			return ui.CloseRequested{}, root, false
		}
	}
	return nil, root, false
}

func mouseButton(detail byte) (ui.MouseButton, bool) {
	switch detail {
	case 1:
		return ui.Left, true
	case 2:
		return ui.Middle, true
	case 3:
		return ui.Right, true
	}
	return 0, false
}
