// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x11

import "fmt"

type cookieKind int

const (
	// cookieVoid: no reply, errors surface from WaitForEvent.
	cookieVoid cookieKind = iota
	// cookieChecked: no reply, the error is reported by Check.
	cookieChecked
	// cookieReply: a reply or an error.
	cookieReply
)

// A cookie is the sequence number of a request together with the channels
// its answer is delivered on.
type cookie struct {
	conn     *Conn
	Sequence uint16
	request  string

	reply chan []byte
	errc  chan error
	err   error // the request could not be sent
}

func newCookie(c *Conn, kind cookieKind, opcode byte) *cookie {
	ck := &cookie{conn: c, request: opcodeNames[opcode]}
	if ck.request == "" {
		ck.request = fmt.Sprintf("request %d", opcode)
	}
	switch kind {
	case cookieChecked:
		ck.errc = make(chan error, 1)
	case cookieReply:
		ck.errc = make(chan error, 1)
		ck.reply = make(chan []byte, 1)
	}
	return ck
}

// Reply blocks until the reply to the request arrives. An X error for the
// request is returned as an *OperationError; a connection that dies first
// returns its fatal error.
func (ck *cookie) Reply() ([]byte, error) {
	if ck.err != nil {
		return nil, ck.err
	}
	if ck.reply == nil {
		return nil, fmt.Errorf("x11: %s has no reply", ck.request)
	}

	select {
	case reply := <-ck.reply:
		return reply, nil
	case err := <-ck.errc:
		return nil, err
	case <-ck.conn.done:
	}
	// The reader may have delivered the answer right before it stopped.
	select {
	case reply := <-ck.reply:
		return reply, nil
	case err := <-ck.errc:
		return nil, err
	default:
		return nil, ck.conn.Err()
	}
}

// Check blocks until the server has processed a checked request and returns
// its error, if any. Requests without replies are never acknowledged, so
// Check forces a round trip: once the reply to a later GetInputFocus arrives,
// any error for this request has been delivered already.
func (ck *cookie) Check() error {
	if ck.err != nil {
		return ck.err
	}
	if ck.errc == nil || ck.reply != nil {
		return fmt.Errorf("x11: %s is not a checked request", ck.request)
	}

	_, syncErr := ck.conn.sendWithReply(newRequest(opGetInputFocus, 0, 4)).Reply()
	select {
	case err := <-ck.errc:
		return err
	default:
	}
	ck.conn.forgetCookie(ck.Sequence)
	return syncErr
}
