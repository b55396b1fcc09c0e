// Copyright 2009 The XGB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x11

// Pad a length to align on 4 bytes.
func pad(n int) int { return (n + 3) & ^3 }

func put16(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}

func put32(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

func get16(buf []byte) uint16 {
	v := uint16(buf[0])
	v |= uint16(buf[1]) << 8
	return v
}

func get32(buf []byte) uint32 {
	v := uint32(buf[0])
	v |= uint32(buf[1]) << 8
	v |= uint32(buf[2]) << 16
	v |= uint32(buf[3]) << 24
	return v
}

// newRequest allocates a request buffer of n bytes (rounded up to 4) and
// fills in the opcode, the data byte and the length in 4-byte units.
func newRequest(opcode, data byte, n int) []byte {
	buf := make([]byte, pad(n))
	buf[0] = opcode
	buf[1] = data
	put16(buf[2:], uint16(len(buf)/4))
	return buf
}

// ClientMessageData holds the 20 data bytes of a ClientMessage event in its
// 32-bit form, which is the only form alerta sends.
type ClientMessageData [5]uint32

func clientMessageEvent(window, typ uint32, data ClientMessageData) []byte {
	ev := make([]byte, 32)
	ev[0] = ClientMessage
	ev[1] = 32 // format
	put32(ev[4:], window)
	put32(ev[8:], typ)
	for i, v := range data {
		put32(ev[12+i*4:], v)
	}
	return ev
}
