package x11

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SetupInfo is the part of the server's connection setup reply alerta uses.
type SetupInfo struct {
	ProtocolMajorVersion uint16
	ProtocolMinorVersion uint16
	ResourceIdBase       uint32
	ResourceIdMask       uint32
	MaximumRequestLength uint16 // in 4-byte units
	ImageByteOrder       byte
	Vendor               string
	PixmapFormats        []Format
	Roots                []ScreenInfo
}

// Format describes how pixels of one depth are laid out in an image.
type Format struct {
	Depth        byte
	BitsPerPixel byte
	ScanlinePad  byte
}

type ScreenInfo struct {
	Root            uint32
	DefaultColormap uint32
	WhitePixel      uint32
	BlackPixel      uint32
	WidthInPixels   uint16
	HeightInPixels  uint16
	RootVisual      uint32
	RootDepth       byte
	AllowedDepths   []DepthInfo
}

type DepthInfo struct {
	Depth   byte
	Visuals []VisualInfo
}

type VisualInfo struct {
	VisualId   uint32
	Class      byte
	BitsPerRgb byte
	RedMask    uint32
	GreenMask  uint32
	BlueMask   uint32
}

// Visual looks up a visual of the screen and the depth it belongs to.
func (s *ScreenInfo) Visual(id uint32) (VisualInfo, byte, bool) {
	for _, d := range s.AllowedDepths {
		for _, v := range d.Visuals {
			if v.VisualId == id {
				return v, d.Depth, true
			}
		}
	}
	return VisualInfo{}, 0, false
}

// PixmapFormat returns the image format for a depth.
func (s *SetupInfo) PixmapFormat(depth byte) (Format, bool) {
	for _, f := range s.PixmapFormats {
		if f.Depth == depth {
			return f, true
		}
	}
	return Format{}, false
}

// displayAddr is a parsed DISPLAY string.
type displayAddr struct {
	network string
	address string
	host    string
	display string // display number, as used in Xauthority
	screen  int
}

func parseDisplay(display string) (displayAddr, error) {
	if display == "" {
		return displayAddr{}, errors.New("$DISPLAY is not set")
	}
	colon := strings.LastIndex(display, ":")
	if colon < 0 {
		return displayAddr{}, fmt.Errorf("bad display string %q", display)
	}
	host, rest := display[:colon], display[colon+1:]

	var d displayAddr
	d.display = rest
	if dot := strings.Index(rest, "."); dot >= 0 {
		d.display = rest[:dot]
		screen, err := strconv.Atoi(rest[dot+1:])
		if err != nil || screen < 0 {
			return displayAddr{}, fmt.Errorf("bad screen number in display %q", display)
		}
		d.screen = screen
	}
	num, err := strconv.Atoi(d.display)
	if err != nil || num < 0 {
		return displayAddr{}, fmt.Errorf("bad display number in display %q", display)
	}

	if strings.HasPrefix(host, "/") {
		d.network, d.address = "unix", display
		return d, nil
	}
	protocol := ""
	if slash := strings.Index(host, "/"); slash >= 0 {
		protocol, host = host[:slash], host[slash+1:]
	}
	d.host = host

	switch {
	case protocol == "unix", protocol == "" && host == "":
		d.network, d.address = "unix", "/tmp/.X11-unix/X"+d.display
	case protocol == "tcp", protocol == "":
		d.network, d.address = "tcp", fmt.Sprintf("%s:%d", host, 6000+num)
	default:
		return displayAddr{}, fmt.Errorf("unsupported protocol %q in display %q", protocol, display)
	}
	return d, nil
}

// handshake sends the connection setup request and reads the server's
// answer into c.Setup.
func (c *Conn) handshake(authName string, authData []byte) error {
	nameLen, dataLen := pad(len(authName)), pad(len(authData))
	buf := make([]byte, 12+nameLen+dataLen)
	buf[0] = 'l' // little-endian
	put16(buf[2:], 11)
	put16(buf[4:], 0)
	put16(buf[6:], uint16(len(authName)))
	put16(buf[8:], uint16(len(authData)))
	copy(buf[12:], authName)
	copy(buf[12+nameLen:], authData)
	if _, err := c.conn.Write(buf); err != nil {
		return &ConnectionError{Display: c.display, Err: err}
	}

	head := make([]byte, 8)
	if err := readFull(c.conn, head); err != nil {
		return &ConnectionError{Display: c.display, Err: err}
	}
	data := make([]byte, int(get16(head[6:]))*4)
	if err := readFull(c.conn, data); err != nil {
		return &ProtocolError{Msg: "reading setup reply", Err: err}
	}

	switch head[0] {
	case 0:
		reason := data
		if n := int(head[1]); n < len(reason) {
			reason = reason[:n]
		}
		return &ConnectionError{Display: c.display,
			Err: fmt.Errorf("server refused connection: %s", reason)}
	case 2:
		return &ConnectionError{Display: c.display,
			Err: fmt.Errorf("server requires authentication: %s", strings.TrimRight(string(data), "\x00"))}
	case 1:
		setup, err := parseSetup(data)
		if err != nil {
			return err
		}
		setup.ProtocolMajorVersion = get16(head[2:])
		setup.ProtocolMinorVersion = get16(head[4:])
		c.Setup = setup
		return nil
	default:
		return &ProtocolError{Msg: fmt.Sprintf("unknown setup status %d", head[0])}
	}
}

// setupReader walks the setup reply and turns any overrun into a
// ProtocolError instead of a panic.
type setupReader struct {
	b   []byte
	off int
	err error
}

func (r *setupReader) take(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if n < 0 || r.off+n > len(r.b) {
		r.err = &ProtocolError{Msg: fmt.Sprintf("setup reply truncated at byte %d", r.off)}
		return make([]byte, n)
	}
	b := r.b[r.off : r.off+n]
	r.off += n
	return b
}

func parseSetup(data []byte) (SetupInfo, error) {
	r := &setupReader{b: data}
	var s SetupInfo

	fixed := r.take(32)
	s.ResourceIdBase = get32(fixed[4:])
	s.ResourceIdMask = get32(fixed[8:])
	vendorLen := int(get16(fixed[16:]))
	s.MaximumRequestLength = get16(fixed[18:])
	numScreens := int(fixed[20])
	numFormats := int(fixed[21])
	s.ImageByteOrder = fixed[22]

	s.Vendor = string(r.take(vendorLen))
	r.take(pad(vendorLen) - vendorLen)

	for i := 0; i < numFormats; i++ {
		f := r.take(8)
		s.PixmapFormats = append(s.PixmapFormats, Format{Depth: f[0], BitsPerPixel: f[1], ScanlinePad: f[2]})
	}

	for i := 0; i < numScreens; i++ {
		b := r.take(40)
		scr := ScreenInfo{
			Root:            get32(b[0:]),
			DefaultColormap: get32(b[4:]),
			WhitePixel:      get32(b[8:]),
			BlackPixel:      get32(b[12:]),
			WidthInPixels:   get16(b[20:]),
			HeightInPixels:  get16(b[22:]),
			RootVisual:      get32(b[32:]),
			RootDepth:       b[38],
		}
		numDepths := int(b[39])
		for j := 0; j < numDepths; j++ {
			db := r.take(8)
			depth := DepthInfo{Depth: db[0]}
			numVisuals := int(get16(db[2:]))
			for k := 0; k < numVisuals; k++ {
				vb := r.take(24)
				depth.Visuals = append(depth.Visuals, VisualInfo{
					VisualId:   get32(vb[0:]),
					Class:      vb[4],
					BitsPerRgb: vb[5],
					RedMask:    get32(vb[8:]),
					GreenMask:  get32(vb[12:]),
					BlueMask:   get32(vb[16:]),
				})
			}
			scr.AllowedDepths = append(scr.AllowedDepths, depth)
		}
		s.Roots = append(s.Roots, scr)
	}

	if r.err != nil {
		return SetupInfo{}, r.err
	}
	if len(s.Roots) == 0 {
		return SetupInfo{}, &ProtocolError{Msg: "server reported no screens"}
	}
	return s, nil
}
