package x11

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/alerta-go/alerta/ui"
)

// Atoms handed out by the dummy server, in atomNames order.
const (
	testWMProtocols = 301 + iota
	testWMDeleteWindow
	testUTF8String
	testNetWMName
	testNetMoveResize
	testNetActiveWindow
	testNetWMType
	testNetWMTypeDialog
)

func newTestWindow(t *testing.T, s *dummyServer, width, height uint16) (*Conn, *Window) {
	t.Helper()
	c := s.dial(t)
	w, err := CreateWindow(c, width, height)
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	return c, w
}

func TestCreateWindow(t *testing.T) {
	s := newDummyServer(nil)
	_, w := newTestWindow(t, s, 300, 200)

	if w.Id() != testIdBase|1 {
		t.Errorf("window id = 0x%x, want 0x%x", w.Id(), testIdBase|1)
	}
	if w.atoms.wmDeleteWindow != testWMDeleteWindow || w.atoms.netWMTypeDialog != testNetWMTypeDialog {
		t.Errorf("atoms = %+v", w.atoms)
	}

	creates := s.requestsWithOpcode(opCreateWindow)
	if len(creates) != 1 {
		t.Fatalf("got %d CreateWindow requests, want 1", len(creates))
	}
	cw := creates[0]
	if get32(cw[4:]) != w.Id() || get32(cw[8:]) != testRoot || get16(cw[16:]) != 300 || get16(cw[18:]) != 200 {
		t.Errorf("CreateWindow = % x", cw)
	}
	if mask := get32(cw[36:]); mask&EventMaskPointerMotion == 0 || mask&EventMaskExposure == 0 {
		t.Errorf("event mask = 0x%x, want pointer motion and exposure", mask)
	}

	var hints []byte
	for _, p := range s.requestsWithOpcode(opChangeProp) {
		if get32(p[8:]) == atomWMNormalHints {
			hints = p[24:]
		}
	}
	if hints == nil {
		t.Fatal("WM_NORMAL_HINTS not set")
	}
	if get32(hints[0:]) != sizeHintPMinSize|sizeHintPMaxSize {
		t.Errorf("size hint flags = 0x%x", get32(hints[0:]))
	}
	for _, off := range []int{20, 28} {
		if get32(hints[off:]) != 300 || get32(hints[off+4:]) != 200 {
			t.Errorf("size hint at %d = %dx%d, want 300x200", off, get32(hints[off:]), get32(hints[off+4:]))
		}
	}
	if len(s.requestsWithOpcode(opCreateGC)) != 1 {
		t.Error("no graphics context created")
	}
}

func TestCreateWindowRejected(t *testing.T) {
	s := newDummyServer(func(s *dummyServer, seq uint16, req []byte) [][]byte {
		if req[0] == opCreateWindow {
			return [][]byte{dummyError(seq, 11, opCreateWindow, 0)}
		}
		return nil
	})
	c := s.dial(t)

	_, err := CreateWindow(c, 10, 10)
	var oerr *OperationError
	if !errors.As(err, &oerr) || oerr.Request != "CreateWindow" || oerr.Name() != "BadAlloc" {
		t.Fatalf("CreateWindow error = %v, want BadAlloc for CreateWindow", err)
	}
}

func TestWindowTitleAndShow(t *testing.T) {
	s := newDummyServer(nil)
	c, w := newTestWindow(t, s, 100, 100)

	if _, err := w.WithTitle("Grüße"); err != nil {
		t.Fatalf("WithTitle: %v", err)
	}
	if err := w.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	s.sync(t, c)

	if w.Title() != "Grüße" || !w.Mapped() {
		t.Errorf("title %q, mapped %v", w.Title(), w.Mapped())
	}
	var sawName bool
	for _, p := range s.requestsWithOpcode(opChangeProp) {
		if get32(p[8:]) == testNetWMName {
			sawName = true
			if typ, n := get32(p[12:]), get32(p[20:]); typ != testUTF8String || string(p[24:24+n]) != "Grüße" {
				t.Errorf("_NET_WM_NAME = %q of type %d", p[24:24+n], typ)
			}
		}
	}
	if !sawName {
		t.Error("_NET_WM_NAME not set")
	}

	maps := s.requestsWithOpcode(opMapWindow)
	if len(maps) != 1 || get32(maps[0][4:]) != w.Id() {
		t.Errorf("MapWindow requests = %v", maps)
	}
	sends := s.requestsWithOpcode(opSendEvent)
	if len(sends) != 1 {
		t.Fatalf("got %d SendEvent requests, want 1", len(sends))
	}
	ev := sends[0][12:]
	if get32(sends[0][4:]) != testRoot || ev[0] != ClientMessage || get32(ev[8:]) != testNetActiveWindow {
		t.Errorf("activation request = % x", sends[0])
	}
}

func TestStartDragUsesLastPointerPosition(t *testing.T) {
	s := newDummyServer(nil)
	c, w := newTestWindow(t, s, 100, 100)

	s.inject(t,
		dummyPointerEvent(ButtonPress, 1, w.Id(), 500, 400, 10, 10),
		dummyPointerEvent(MotionNotify, 0, w.Id(), 512, 415, 22, 25),
	)
	for _, want := range []ui.Event{ui.ButtonPress{Button: ui.Left}, ui.CursorMove{Pos: image.Pt(22, 25)}} {
		ev, err := w.WaitForEvent()
		if err != nil {
			t.Fatalf("WaitForEvent: %v", err)
		}
		if ev != want {
			t.Errorf("event = %#v, want %#v", ev, want)
		}
	}

	if err := w.StartDrag(); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	s.sync(t, c)

	if n := len(s.requestsWithOpcode(opUngrabPointer)); n != 1 {
		t.Errorf("got %d UngrabPointer requests, want 1", n)
	}
	sends := s.requestsWithOpcode(opSendEvent)
	if len(sends) != 1 {
		t.Fatalf("got %d SendEvent requests, want 1", len(sends))
	}
	req := sends[0]
	if mask := get32(req[8:]); mask != EventMaskSubstructureRedirect|EventMaskSubstructureNotify {
		t.Errorf("event mask = 0x%x", mask)
	}
	ev := req[12:]
	if get32(ev[4:]) != w.Id() || get32(ev[8:]) != testNetMoveResize {
		t.Errorf("client message window 0x%x type %d", get32(ev[4:]), get32(ev[8:]))
	}
	want := ClientMessageData{512, 415, moveResizeMove, 1, sourceApplication}
	for i, v := range want {
		if got := get32(ev[12+4*i:]); got != v {
			t.Errorf("data[%d] = %d, want %d", i, got, v)
		}
	}
}

func TestWindowSkipsForeignEvents(t *testing.T) {
	s := newDummyServer(nil)
	_, w := newTestWindow(t, s, 100, 100)

	if ev, err := w.PollForEvent(); ev != nil || err != nil {
		t.Fatalf("PollForEvent = %v, %v; want nil, nil", ev, err)
	}

	s.inject(t,
		dummyExpose(w.Id()+100),
		dummyPointerEvent(ButtonPress, 4, w.Id(), 0, 0, 0, 0), // wheel
		dummyExpose(w.Id()),
	)
	ev, err := w.WaitForEvent()
	if err != nil {
		t.Fatalf("WaitForEvent: %v", err)
	}
	if _, ok := ev.(ui.RedrawRequested); !ok {
		t.Errorf("event = %#v, want RedrawRequested", ev)
	}
}

func TestSetContentsSplitsLargeImages(t *testing.T) {
	s := newDummyServer(nil)
	// 16 words leave room for 40 bytes of pixels, i.e. two rows of 5 pixels.
	s.maxReq = 16
	c, w := newTestWindow(t, s, 5, 7)

	canvas := ui.NewCanvas(5, 7)
	for y := 0; y < 7; y++ {
		for x := 0; x < 5; x++ {
			canvas.Image().SetRGBA(x, y, color.RGBA{R: byte(x), G: byte(y), B: 0x80, A: 0xff})
		}
	}
	if err := w.SetContents(canvas); err != nil {
		t.Fatalf("SetContents: %v", err)
	}
	s.sync(t, c)

	puts := s.requestsWithOpcode(opPutImage)
	if len(puts) != 4 {
		t.Fatalf("got %d PutImage requests, want 4", len(puts))
	}
	row := 0
	for _, p := range puts {
		if len(p) > int(s.maxReq)*4 {
			t.Errorf("PutImage of %d bytes exceeds the maximum request length", len(p))
		}
		if p[1] != imageFormatZPixmap || p[21] != 24 {
			t.Errorf("PutImage format %d depth %d", p[1], p[21])
		}
		if dstY := int(get16(p[18:])); dstY != row {
			t.Errorf("PutImage at row %d, want %d", dstY, row)
		}
		h := int(get16(p[14:]))
		// first pixel of the band: B, G, R, A
		if px := p[putImageHeader : putImageHeader+4]; !bytes.Equal(px, []byte{0x80, byte(row), 0, 0xff}) {
			t.Errorf("first pixel of row %d = % x", row, px)
		}
		row += h
	}
	if row != 7 {
		t.Errorf("PutImage covered %d rows, want 7", row)
	}

	if err := w.SetContents(ui.NewCanvas(6, 7)); err == nil {
		t.Error("SetContents accepted a canvas of the wrong size")
	}
}

func TestEncodePixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	img.SetRGBA(1, 0, color.RGBA{R: 0x40, G: 0x20, B: 0x00, A: 0x80})

	lsb := encodePixels(img, imageOrderLSBFirst)
	if want := []byte{0x33, 0x22, 0x11, 0xff, 0x00, 0x20, 0x40, 0x80}; !bytes.Equal(lsb, want) {
		t.Errorf("LSB first = % x, want % x", lsb, want)
	}
	msb := encodePixels(img, imageOrderMSBFirst)
	if want := []byte{0xff, 0x11, 0x22, 0x33, 0x80, 0x40, 0x20, 0x00}; !bytes.Equal(msb, want) {
		t.Errorf("MSB first = % x, want % x", msb, want)
	}
}

func TestTranslateEvent(t *testing.T) {
	const (
		window = 0x400001
		other  = 0x500001
	)
	closeMsg := clientMessageEvent(window, testWMProtocols, ClientMessageData{testWMDeleteWindow})
	pingMsg := clientMessageEvent(window, testWMProtocols, ClientMessageData{999})
	sent := dummyExpose(window)
	sent[0] |= 0x80

	testCases := []struct {
		name   string
		buf    []byte
		want   ui.Event
		root   image.Point
		hasPos bool
	}{
		{"press", dummyPointerEvent(ButtonPress, 1, window, 100, 200, 3, 4), ui.ButtonPress{Button: ui.Left}, image.Pt(100, 200), true},
		{"release right", dummyPointerEvent(ButtonRelease, 3, window, 1, 2, 3, 4), ui.ButtonRelease{Button: ui.Right}, image.Pt(1, 2), true},
		{"wheel", dummyPointerEvent(ButtonPress, 5, window, 7, 8, 0, 0), nil, image.Pt(7, 8), true},
		{"motion", dummyPointerEvent(MotionNotify, 0, window, 10, 20, -1, 6), ui.CursorMove{Pos: image.Pt(-1, 6)}, image.Pt(10, 20), true},
		{"enter", dummyPointerEvent(EnterNotify, 0, window, 0, 0, 5, 5), ui.CursorEnter{Pos: image.Pt(5, 5)}, image.Pt(0, 0), true},
		{"leave", dummyPointerEvent(LeaveNotify, 0, window, 0, 0, 0, 0), ui.CursorLeave{}, image.Pt(0, 0), true},
		{"other window", dummyPointerEvent(MotionNotify, 0, other, 1, 1, 1, 1), nil, image.Point{}, false},
		{"expose", dummyExpose(window), ui.RedrawRequested{}, image.Point{}, false},
		{"sent expose", sent, ui.RedrawRequested{}, image.Point{}, false},
		{"expose other", dummyExpose(other), nil, image.Point{}, false},
		{"delete window", closeMsg, ui.CloseRequested{}, image.Point{}, false},
		{"other protocol", pingMsg, nil, image.Point{}, false},
		{"short", []byte{Expose}, nil, image.Point{}, false},
	}
	for _, tc := range testCases {
		ev, root, ok := translateEvent(tc.buf, window, testWMProtocols, testWMDeleteWindow)
		if ev != tc.want || ok != tc.hasPos || (ok && root != tc.root) {
			t.Errorf("%s: got %#v, %v, %v; want %#v, %v, %v",
				tc.name, ev, root, ok, tc.want, tc.root, tc.hasPos)
		}
	}
}

func writeAuthEntry(buf *bytes.Buffer, family uint16, address, display, name string, data []byte) {
	binary.Write(buf, binary.BigEndian, family)
	for _, s := range [][]byte{[]byte(address), []byte(display), []byte(name), data} {
		binary.Write(buf, binary.BigEndian, uint16(len(s)))
		buf.Write(s)
	}
}

func TestFindAuthority(t *testing.T) {
	var buf bytes.Buffer
	writeAuthEntry(&buf, familyLocal, "elsewhere", "0", "MIT-MAGIC-COOKIE-1", []byte{1})
	writeAuthEntry(&buf, familyLocal, "box", "1", "MIT-MAGIC-COOKIE-1", []byte{2})
	writeAuthEntry(&buf, familyLocal, "box", "0", "MIT-MAGIC-COOKIE-1", []byte{3, 4})
	writeAuthEntry(&buf, familyWild, "", "", "XDM-AUTHORIZATION-1", []byte{5})
	data := buf.Bytes()

	name, cookie, err := findAuthority(bytes.NewReader(data), "box", "0")
	if err != nil || name != "MIT-MAGIC-COOKIE-1" || !bytes.Equal(cookie, []byte{3, 4}) {
		t.Errorf("findAuthority(box, 0) = %q, %v, %v", name, cookie, err)
	}

	name, cookie, err = findAuthority(bytes.NewReader(data), "box", "7")
	if err != nil || name != "XDM-AUTHORIZATION-1" || !bytes.Equal(cookie, []byte{5}) {
		t.Errorf("findAuthority(box, 7) = %q, %v, %v; want the wildcard entry", name, cookie, err)
	}

	if _, _, err := findAuthority(bytes.NewReader(data[:40]), "nowhere", "0"); err == nil {
		t.Error("findAuthority found an entry for an unknown host")
	} else if err != io.EOF && err != io.ErrUnexpectedEOF {
		t.Errorf("findAuthority error = %v", err)
	}
}
