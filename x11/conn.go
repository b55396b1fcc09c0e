// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package x11 implements the small part of the X11 core protocol that a
// message dialog needs: the connection setup, resource ids, a handful of
// requests, and the demultiplexing of replies, errors and events that the
// server interleaves on one byte stream.
//
// The design follows XCB: every request gets a sequence number, requests that
// expect an answer return a cookie, and a single reader goroutine hands each
// reply or error to the cookie with the matching sequence number while
// queueing everything else, in order, as events.
package x11

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// maxReplyWords bounds the length field of a reply. Nothing alerta asks for
// comes close; a larger value means the stream is out of sync.
const maxReplyWords = 1 << 20

var errClosed = errors.New("x11: connection closed")

// A Conn represents a connection to an X server.
type Conn struct {
	conn          net.Conn
	display       string
	defaultScreen int
	Setup         SetupInfo

	writeLock sync.Mutex // serializes sequence numbers and writes
	nextSeq   uint16

	cookieLock sync.Mutex
	cookies    map[uint16]*cookie

	newIdLock sync.Mutex
	lastId    uint32

	events    *queue
	eventChan chan struct{}

	errLock   sync.Mutex
	err       error
	done      chan struct{} // closed when the reader goroutine exits
	closeOnce sync.Once
}

// NewConn connects to the display named by $DISPLAY.
func NewConn() (*Conn, error) {
	return NewConnDisplay("")
}

// NewConnDisplay is just like NewConn, but allows a specific DISPLAY
// string to be used.
// If 'display' is empty it will be taken from os.Getenv("DISPLAY").
//
// Examples:
//
//	NewConnDisplay(":1") -> net.Dial("unix", "/tmp/.X11-unix/X1")
//	NewConnDisplay("/tmp/launch-123/:0") -> net.Dial("unix", "/tmp/launch-123/:0")
//	NewConnDisplay("hostname:2.1") -> net.Dial("tcp", "hostname:6002")
//	NewConnDisplay("tcp/hostname:1.0") -> net.Dial("tcp", "hostname:6001")
func NewConnDisplay(display string) (*Conn, error) {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	addr, err := parseDisplay(display)
	if err != nil {
		return nil, &ConnectionError{Display: display, Err: err}
	}
	nc, err := net.Dial(addr.network, addr.address)
	if err != nil {
		return nil, &ConnectionError{Display: display, Err: err}
	}

	authName, authData, err := readAuthority(addr.host, addr.display)
	if err != nil || authName != "MIT-MAGIC-COOKIE-1" {
		// Servers without access control accept an empty authorization.
		authName, authData = "", nil
	}

	c, err := newConn(nc, display, addr.screen, authName, authData)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

// newConn performs the handshake over an already established transport and
// starts the reader.
func newConn(nc net.Conn, display string, screen int, authName string, authData []byte) (*Conn, error) {
	c := &Conn{
		conn:          nc,
		display:       display,
		defaultScreen: screen,
		cookies:       make(map[uint16]*cookie),
		events:        newQueue(100),
		eventChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	if err := c.handshake(authName, authData); err != nil {
		return nil, err
	}
	if c.defaultScreen >= len(c.Setup.Roots) {
		return nil, &ConnectionError{Display: display,
			Err: fmt.Errorf("screen %d does not exist", c.defaultScreen)}
	}
	go c.readLoop()
	return c, nil
}

// Close closes the connection to the X server and waits for the reader to
// stop. It is safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.fail(errClosed)
		<-c.done
	})
}

// Err returns the error that made the connection unusable, if any.
func (c *Conn) Err() error {
	c.errLock.Lock()
	defer c.errLock.Unlock()
	return c.err
}

// fail records the first fatal error and shuts the transport down, which in
// turn stops the reader.
func (c *Conn) fail(err error) {
	c.errLock.Lock()
	first := c.err == nil
	if first {
		c.err = err
	}
	c.errLock.Unlock()
	if first && err != errClosed {
		Logger.Printf("connection to %q is unusable: %v", c.display, err)
	}
	c.conn.Close()
}

// DefaultScreen returns the Screen info for the default screen, which is
// 0 or the one given in the display string.
func (c *Conn) DefaultScreen() *ScreenInfo { return &c.Setup.Roots[c.defaultScreen] }

// NewId generates a new unused ID for use with requests like CreateWindow.
// If no new ids can be generated, the id returned is 0 and error is non-nil.
func (c *Conn) NewId() (uint32, error) {
	c.newIdLock.Lock()
	defer c.newIdLock.Unlock()

	mask := c.Setup.ResourceIdMask
	inc := mask & -mask
	if inc == 0 || c.lastId > mask-inc {
		return 0, errors.New("x11: there are no more available resource identifiers")
	}
	c.lastId += inc
	return c.lastId | c.Setup.ResourceIdBase, nil
}

// send writes a request that expects neither a reply nor a reported error.
func (c *Conn) send(buf []byte) error {
	return c.sendRequest(buf, cookieVoid).err
}

// sendChecked writes a request without a reply whose error, if any, is
// reported by the returned cookie's Check.
func (c *Conn) sendChecked(buf []byte) *cookie {
	return c.sendRequest(buf, cookieChecked)
}

// sendWithReply writes a request and returns the cookie its reply arrives on.
func (c *Conn) sendWithReply(buf []byte) *cookie {
	return c.sendRequest(buf, cookieReply)
}

func (c *Conn) sendRequest(buf []byte, kind cookieKind) *cookie {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	ck := newCookie(c, kind, buf[0])
	if err := c.Err(); err != nil {
		ck.err = err
		return ck
	}
	c.nextSeq++
	ck.Sequence = c.nextSeq
	if kind != cookieVoid {
		c.cookieLock.Lock()
		c.cookies[ck.Sequence] = ck
		c.cookieLock.Unlock()
	}
	if _, err := c.conn.Write(buf); err != nil {
		c.fail(fmt.Errorf("x11: write %s: %w", ck.request, err))
		ck.err = c.Err()
	}
	return ck
}

func (c *Conn) takeCookie(seq uint16) *cookie {
	c.cookieLock.Lock()
	defer c.cookieLock.Unlock()
	ck, ok := c.cookies[seq]
	if ok {
		delete(c.cookies, seq)
	}
	return ck
}

func (c *Conn) forgetCookie(seq uint16) {
	c.cookieLock.Lock()
	delete(c.cookies, seq)
	c.cookieLock.Unlock()
}

// readFull is io.ReadFull that retries reads interrupted by a signal. The
// net package already retries EINTR on sockets; the check matters for
// transports handed to newConn that read from a file descriptor directly.
func readFull(r io.Reader, buf []byte) error {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err == nil {
			continue
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if n == len(buf) {
			return nil
		}
		if err == io.EOF && n > 0 {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// readLoop classifies every packet the server sends. Errors and replies go to
// the cookie with the matching sequence number, everything else is queued as
// an event. Errors nobody waits for are queued too, so WaitForEvent reports
// them in the order they happened.
func (c *Conn) readLoop() {
	defer close(c.done)
	defer c.notify()

	for {
		buf := make([]byte, 32)
		if err := readFull(c.conn, buf); err != nil {
			c.fail(&ProtocolError{Msg: "reading from server", Err: err})
			return
		}

		switch buf[0] {
		case 0:
			xerr := newOperationError(buf)
			if ck := c.takeCookie(xerr.Sequence); ck != nil {
				xerr.Request = ck.request
				ck.errc <- xerr
				continue
			}
			xerr.Request = opcodeNames[xerr.Major]
			c.events.push(item{err: xerr})
			c.notify()
		case 1:
			var err error
			if buf, err = c.readExtra(buf); err != nil {
				c.fail(err)
				return
			}
			seq := get16(buf[2:])
			ck := c.takeCookie(seq)
			if ck == nil || ck.reply == nil {
				c.fail(&ProtocolError{Msg: fmt.Sprintf("reply with unexpected sequence number %d", seq)})
				return
			}
			ck.reply <- buf
		default:
			if buf[0]&0x7f == GenericEvent {
				var err error
				if buf, err = c.readExtra(buf); err != nil {
					c.fail(err)
					return
				}
			}
			c.events.push(item{buf: buf})
			c.notify()
		}
	}
}

// readExtra reads the 4*length bytes that follow a reply or generic event.
func (c *Conn) readExtra(buf []byte) ([]byte, error) {
	size := get32(buf[4:])
	if size == 0 {
		return buf, nil
	}
	if size > maxReplyWords {
		return nil, &ProtocolError{Msg: fmt.Sprintf("packet length %d words out of range", size)}
	}
	big := make([]byte, 32+int(size)*4)
	copy(big, buf)
	if err := readFull(c.conn, big[32:]); err != nil {
		return nil, &ProtocolError{Msg: "reading from server", Err: err}
	}
	return big, nil
}

func (c *Conn) notify() {
	select {
	case c.eventChan <- struct{}{}:
	default:
	}
}

// WaitForEvent returns the next raw event from the server.
// It will block until an event is available. An X error for a request
// nobody checked is returned as an *OperationError in its place.
func (c *Conn) WaitForEvent() ([]byte, error) {
	for {
		if it, ok := c.events.dequeue(); ok {
			return it.buf, it.err
		}
		select {
		case <-c.eventChan:
		case <-c.done:
			if it, ok := c.events.dequeue(); ok {
				return it.buf, it.err
			}
			return nil, c.Err()
		}
	}
}

// PollForEvent returns the next event the reader has already received, or
// nil, nil when there is none. It never blocks.
func (c *Conn) PollForEvent() ([]byte, error) {
	if it, ok := c.events.dequeue(); ok {
		return it.buf, it.err
	}
	select {
	case <-c.done:
		return nil, c.Err()
	default:
	}
	return nil, nil
}

// item is a queued event or an unchecked X error.
type item struct {
	buf []byte
	err error
}

// A simple queue used to stow away events.
type queue struct {
	mu   sync.Mutex
	data []item
	a, b int
}

func newQueue(n int) *queue {
	return &queue{data: make([]item, n)}
}

func (q *queue) push(it item) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.b == len(q.data) {
		if q.a > 0 {
			copy(q.data, q.data[q.a:q.b])
			q.a, q.b = 0, q.b-q.a
		} else {
			newData := make([]item, (len(q.data)*3)/2)
			copy(newData, q.data)
			q.data = newData
		}
	}
	q.data[q.b] = it
	q.b++
}

func (q *queue) dequeue() (item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.a < q.b {
		it := q.data[q.a]
		q.data[q.a] = item{}
		q.a++
		return it, true
	}
	return item{}, false
}
