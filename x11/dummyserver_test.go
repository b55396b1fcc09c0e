package x11

import (
	"io"
	"net"
	"sync"
	"testing"
)

const (
	testRoot   = 0x100
	testVisual = 0x21
	testIdBase = 0x00400000
	testIdMask = 0x001fffff
)

// dummyHandler answers one request. seq is the sequence number the client
// assigned to it. The returned packets are written back in order, so a
// handler can interleave events with its reply.
type dummyHandler func(s *dummyServer, seq uint16, req []byte) [][]byte

// dummyServer is an in-process X server on the other end of a net.Pipe. It
// answers the connection setup, InternAtom and GetInputFocus, and records
// every request it receives.
type dummyServer struct {
	conn    net.Conn
	handler dummyHandler
	maxReq  uint16
	setup   []byte // raw setup answer, nil for the default one

	mu       sync.Mutex
	requests [][]byte
	nextAtom uint32

	done chan struct{}
}

func newDummyServer(handler dummyHandler) *dummyServer {
	return &dummyServer{handler: handler, maxReq: 65535, nextAtom: 300, done: make(chan struct{})}
}

// dial starts the server and connects a client to it.
func (s *dummyServer) dial(t *testing.T) *Conn {
	t.Helper()
	client, server := net.Pipe()
	s.conn = server
	go s.serve()

	c, err := newConn(client, ":0", 0, "", nil)
	if err != nil {
		server.Close()
		t.Fatalf("connect error: %v", err)
	}
	t.Cleanup(func() {
		c.Close()
		s.conn.Close()
		<-s.done
	})
	return c
}

func (s *dummyServer) serve() {
	defer close(s.done)

	head := make([]byte, 12)
	if _, err := io.ReadFull(s.conn, head); err != nil {
		return
	}
	auth := make([]byte, pad(int(get16(head[6:])))+pad(int(get16(head[8:]))))
	if _, err := io.ReadFull(s.conn, auth); err != nil {
		return
	}
	setup := s.setup
	if setup == nil {
		setup = dummySetup(s.maxReq)
	}
	if _, err := s.conn.Write(setup); err != nil {
		return
	}

	var seq uint16
	for {
		hdr := make([]byte, 4)
		if _, err := io.ReadFull(s.conn, hdr); err != nil {
			return
		}
		req := make([]byte, int(get16(hdr[2:]))*4)
		copy(req, hdr)
		if _, err := io.ReadFull(s.conn, req[4:]); err != nil {
			return
		}
		seq++

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		var packets [][]byte
		if s.handler != nil {
			packets = s.handler(s, seq, req)
		}
		if packets == nil {
			packets = s.defaultAnswer(seq, req)
		}
		for _, p := range packets {
			if _, err := s.conn.Write(p); err != nil {
				return
			}
		}
	}
}

func (s *dummyServer) defaultAnswer(seq uint16, req []byte) [][]byte {
	switch req[0] {
	case opInternAtom:
		s.mu.Lock()
		s.nextAtom++
		atom := s.nextAtom
		s.mu.Unlock()
		r := dummyReply(seq, 0)
		put32(r[8:], atom)
		return [][]byte{r}
	case opGetInputFocus:
		return [][]byte{dummyReply(seq, 0)}
	}
	return nil
}

// inject writes raw packets to the client, e.g. unsolicited events.
func (s *dummyServer) inject(t *testing.T, packets ...[]byte) {
	t.Helper()
	for _, p := range packets {
		if _, err := s.conn.Write(p); err != nil {
			t.Fatalf("inject: %v", err)
		}
	}
}

// sync makes a round trip, after which every earlier request is recorded.
func (s *dummyServer) sync(t *testing.T, c *Conn) {
	t.Helper()
	if _, err := c.sendWithReply(newRequest(opGetInputFocus, 0, 4)).Reply(); err != nil {
		t.Fatalf("sync: %v", err)
	}
}

func (s *dummyServer) requestsWithOpcode(op byte) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out [][]byte
	for _, r := range s.requests {
		if r[0] == op {
			out = append(out, r)
		}
	}
	return out
}

func dummyReply(seq uint16, extraWords uint32) []byte {
	r := make([]byte, 32+extraWords*4)
	r[0] = 1
	put16(r[2:], seq)
	put32(r[4:], extraWords)
	return r
}

func dummyError(seq uint16, code, major byte, bad uint32) []byte {
	e := make([]byte, 32)
	e[1] = code
	put16(e[2:], seq)
	put32(e[4:], bad)
	e[10] = major
	return e
}

// dummyPointerEvent builds a ButtonPress/Release, MotionNotify,
// EnterNotify or LeaveNotify event.
func dummyPointerEvent(code, detail byte, window uint32, rootX, rootY, x, y int16) []byte {
	ev := make([]byte, 32)
	ev[0] = code
	ev[1] = detail
	put32(ev[8:], testRoot)
	put32(ev[12:], window)
	put16(ev[20:], uint16(rootX))
	put16(ev[22:], uint16(rootY))
	put16(ev[24:], uint16(x))
	put16(ev[26:], uint16(y))
	return ev
}

func dummyExpose(window uint32) []byte {
	ev := make([]byte, 32)
	ev[0] = Expose
	put32(ev[4:], window)
	return ev
}

// dummySetup is a successful setup answer with one 1920x1080 screen whose
// root visual is 24-bit TrueColor.
func dummySetup(maxReq uint16) []byte {
	vendor := "dummy"
	data := make([]byte, 32)
	put32(data[4:], testIdBase)
	put32(data[8:], testIdMask)
	put16(data[16:], uint16(len(vendor)))
	put16(data[18:], maxReq)
	data[20] = 1 // screens
	data[21] = 1 // formats
	data = append(data, vendor...)
	data = append(data, make([]byte, pad(len(vendor))-len(vendor))...)
	data = append(data, 24, 32, 32, 0, 0, 0, 0, 0)

	screen := make([]byte, 40)
	put32(screen[0:], testRoot)
	put32(screen[8:], 0xffffff)
	put16(screen[20:], 1920)
	put16(screen[22:], 1080)
	put32(screen[32:], testVisual)
	screen[38] = 24
	screen[39] = 1
	data = append(data, screen...)

	depth := make([]byte, 8)
	depth[0] = 24
	put16(depth[2:], 1)
	data = append(data, depth...)

	visual := make([]byte, 24)
	put32(visual[0:], testVisual)
	visual[4] = visualClassTrueColor
	visual[5] = 8
	put16(visual[6:], 256)
	put32(visual[8:], 0xff0000)
	put32(visual[12:], 0xff00)
	put32(visual[16:], 0xff)
	data = append(data, visual...)

	head := make([]byte, 8)
	head[0] = 1
	put16(head[2:], 11)
	put16(head[6:], uint16(len(data)/4))
	return append(head, data...)
}
