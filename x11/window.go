package x11

import (
	"fmt"
	"image"

	"github.com/alerta-go/alerta/ui"
)

// atoms a dialog window needs, interned once per window.
var atomNames = [...]string{
	"WM_PROTOCOLS",
	"WM_DELETE_WINDOW",
	"UTF8_STRING",
	"_NET_WM_NAME",
	"_NET_WM_MOVERESIZE",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DIALOG",
}

type atoms struct {
	wmProtocols     uint32
	wmDeleteWindow  uint32
	utf8String      uint32
	netWMName       uint32
	netMoveResize   uint32
	netActiveWindow uint32
	netWMType       uint32
	netWMTypeDialog uint32
}

// Window is a top-level, fixed-size, non-resizable window on the default
// screen.
type Window struct {
	conn   *Conn
	id     uint32
	gc     uint32
	root   uint32
	width  uint16
	height uint16
	depth  byte
	format Format
	atoms  atoms

	mapped  bool
	title   string
	rootPos image.Point // last pointer position in root coordinates
}

// CreateWindow creates a window of exactly width x height pixels. The window
// manager is told it cannot be resized, that it is a dialog, and that it
// should send WM_DELETE_WINDOW instead of killing the client.
func CreateWindow(c *Conn, width, height uint16) (*Window, error) {
	screen := c.DefaultScreen()
	visual, depth, ok := screen.Visual(screen.RootVisual)
	if !ok {
		return nil, &ProtocolError{Msg: fmt.Sprintf("root visual 0x%x not listed by the server", screen.RootVisual)}
	}
	format, err := imageFormat(&c.Setup, visual, depth)
	if err != nil {
		return nil, err
	}

	w := &Window{
		conn:   c,
		root:   screen.Root,
		width:  width,
		height: height,
		depth:  depth,
		format: format,
	}
	if err := w.internAtoms(); err != nil {
		return nil, err
	}
	if w.id, err = c.NewId(); err != nil {
		return nil, err
	}
	if w.gc, err = c.NewId(); err != nil {
		return nil, err
	}

	eventMask := uint32(EventMaskExposure | EventMaskButtonPress | EventMaskButtonRelease |
		EventMaskEnterWindow | EventMaskLeaveWindow | EventMaskPointerMotion)
	create := c.sendChecked(createWindowRequest(w.id, screen.Root, depth, screen.RootVisual,
		width, height, screen.BlackPixel, eventMask))
	if err := create.Check(); err != nil {
		return nil, err
	}

	hints := make([]uint32, 18)
	hints[0] = sizeHintPMinSize | sizeHintPMaxSize
	hints[5], hints[6] = uint32(width), uint32(height)
	hints[7], hints[8] = uint32(width), uint32(height)

	reqs := [][]byte{
		changeProperty32(w.id, w.atoms.wmProtocols, atomAtom, w.atoms.wmDeleteWindow),
		changeProperty32(w.id, atomWMNormalHints, atomWMSizeHints, hints...),
		changeProperty8(w.id, atomWMClass, atomString, []byte("alerta\x00Alerta\x00")),
		changeProperty32(w.id, w.atoms.netWMType, atomAtom, w.atoms.netWMTypeDialog),
		createGCRequest(w.gc, w.id),
	}
	for _, req := range reqs {
		if err := c.send(req); err != nil {
			return nil, err
		}
	}
	// The GC is needed by every upload; make sure the server took it.
	if _, err := c.sendWithReply(newRequest(opGetInputFocus, 0, 4)).Reply(); err != nil {
		return nil, err
	}
	return w, nil
}

// imageFormat checks that alerta can encode pixels for the visual: 24 or 32
// bit TrueColor with 8 bits per channel stored in 32-bit pixels.
func imageFormat(s *SetupInfo, v VisualInfo, depth byte) (Format, error) {
	if v.Class != visualClassTrueColor || v.RedMask != 0xff0000 || v.GreenMask != 0xff00 || v.BlueMask != 0xff {
		return Format{}, &ProtocolError{Msg: fmt.Sprintf(
			"unsupported visual 0x%x (class %d, masks %06x/%06x/%06x)",
			v.VisualId, v.Class, v.RedMask, v.GreenMask, v.BlueMask)}
	}
	f, ok := s.PixmapFormat(depth)
	if !ok || f.BitsPerPixel != 32 || (depth != 24 && depth != 32) {
		return Format{}, &ProtocolError{Msg: fmt.Sprintf("unsupported pixmap format for depth %d", depth)}
	}
	return f, nil
}

func (w *Window) internAtoms() error {
	cookies := make([]*cookie, len(atomNames))
	for i, name := range atomNames {
		cookies[i] = w.conn.sendWithReply(internAtomRequest(name))
	}
	values := make([]uint32, len(atomNames))
	for i, ck := range cookies {
		reply, err := ck.Reply()
		if err != nil {
			return err
		}
		values[i] = get32(reply[8:])
	}
	w.atoms = atoms{
		wmProtocols:     values[0],
		wmDeleteWindow:  values[1],
		utf8String:      values[2],
		netWMName:       values[3],
		netMoveResize:   values[4],
		netActiveWindow: values[5],
		netWMType:       values[6],
		netWMTypeDialog: values[7],
	}
	return nil
}

// Id returns the window's resource id.
func (w *Window) Id() uint32 { return w.id }

// Size returns the size the window was created with.
func (w *Window) Size() (width, height uint16) { return w.width, w.height }

// Title returns the last title set with WithTitle.
func (w *Window) Title() string { return w.title }

// Mapped reports whether Show has been called.
func (w *Window) Mapped() bool { return w.mapped }

// WithTitle sets the window title. Window managers are free to ignore it.
func (w *Window) WithTitle(title string) (*Window, error) {
	if err := w.conn.send(changeProperty8(w.id, atomWMName, atomString, []byte(title))); err != nil {
		return w, err
	}
	if err := w.conn.send(changeProperty8(w.id, w.atoms.netWMName, w.atoms.utf8String, []byte(title))); err != nil {
		return w, err
	}
	w.title = title
	return w, nil
}

// SetContents uploads the canvas. The canvas must have the window's size.
func (w *Window) SetContents(c *ui.Canvas) error {
	if c.Width() != int(w.width) || c.Height() != int(w.height) {
		return fmt.Errorf("x11: canvas is %dx%d, window is %dx%d",
			c.Width(), c.Height(), w.width, w.height)
	}
	pixels := encodePixels(c.Image(), w.conn.Setup.ImageByteOrder)

	stride := int(w.width) * int(w.format.BitsPerPixel) / 8
	maxBytes := int(w.conn.Setup.MaximumRequestLength)*4 - putImageHeader
	rows := maxBytes / stride
	if rows < 1 {
		return &ProtocolError{Msg: fmt.Sprintf("window row of %d bytes exceeds the maximum request length", stride)}
	}
	for y := 0; y < int(w.height); y += rows {
		n := min(rows, int(w.height)-y)
		req := putImageRequest(w.id, w.gc, w.width, uint16(n), int16(y), w.depth,
			pixels[y*stride:(y+n)*stride])
		if err := w.conn.send(req); err != nil {
			return err
		}
	}
	return nil
}

// encodePixels converts premultiplied RGBA into 32-bit ZPixmap pixels in the
// server's image byte order.
func encodePixels(img *image.RGBA, byteOrder byte) []byte {
	out := make([]byte, len(img.Pix))
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, b, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
		if byteOrder == imageOrderMSBFirst {
			out[i], out[i+1], out[i+2], out[i+3] = a, r, g, b
		} else {
			out[i], out[i+1], out[i+2], out[i+3] = b, g, r, a
		}
	}
	return out
}

// Show maps the window and asks the window manager to focus it.
func (w *Window) Show() error {
	if err := w.conn.send(windowRequest(opMapWindow, w.id)); err != nil {
		return err
	}
	w.mapped = true
	ev := clientMessageEvent(w.id, w.atoms.netActiveWindow,
		ClientMessageData{sourceApplication, 0, 0})
	return w.conn.send(sendEventRequest(w.root,
		EventMaskSubstructureRedirect|EventMaskSubstructureNotify, ev))
}

// StartDrag asks the window manager to move the window with the pointer,
// following the _NET_WM_MOVERESIZE convention. The implicit pointer grab
// from the button press is released first so the window manager can take
// over.
func (w *Window) StartDrag() error {
	if err := w.conn.send(newRequest(opUngrabPointer, 0, 8)); err != nil {
		return err
	}
	ev := clientMessageEvent(w.id, w.atoms.netMoveResize, ClientMessageData{
		uint32(int32(w.rootPos.X)),
		uint32(int32(w.rootPos.Y)),
		moveResizeMove,
		1, // left button
		sourceApplication,
	})
	return w.conn.send(sendEventRequest(w.root,
		EventMaskSubstructureRedirect|EventMaskSubstructureNotify, ev))
}

// Destroy frees the window's server resources.
func (w *Window) Destroy() error {
	if err := w.conn.send(windowRequest(opFreeGC, w.gc)); err != nil {
		return err
	}
	w.mapped = false
	return w.conn.send(windowRequest(opDestroyWindow, w.id))
}

// WaitForEvent blocks until the next event the dialog cares about arrives.
func (w *Window) WaitForEvent() (ui.Event, error) {
	for {
		buf, err := w.conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		if ev := w.translate(buf); ev != nil {
			return ev, nil
		}
	}
}

// PollForEvent returns the next already received event the dialog cares
// about, or nil if there is none.
func (w *Window) PollForEvent() (ui.Event, error) {
	for {
		buf, err := w.conn.PollForEvent()
		if err != nil || buf == nil {
			return nil, err
		}
		if ev := w.translate(buf); ev != nil {
			return ev, nil
		}
	}
}

func (w *Window) translate(buf []byte) ui.Event {
	ev, root, ok := translateEvent(buf, w.id, w.atoms.wmProtocols, w.atoms.wmDeleteWindow)
	if ok {
		w.rootPos = root
	}
	return ev
}
