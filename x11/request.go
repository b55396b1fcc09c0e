package x11

// Request encoders. Every request is little-endian, matching the byte order
// announced in the setup request.

const putImageHeader = 24

const gcGraphicsExposures = 1 << 16

func windowRequest(opcode byte, id uint32) []byte {
	buf := newRequest(opcode, 0, 8)
	put32(buf[4:], id)
	return buf
}

func createWindowRequest(wid, parent uint32, depth byte, visual uint32, width, height uint16, backPixel, eventMask uint32) []byte {
	buf := newRequest(opCreateWindow, depth, 40)
	put32(buf[4:], wid)
	put32(buf[8:], parent)
	// x, y and border width stay 0; the window manager places the window.
	put16(buf[16:], width)
	put16(buf[18:], height)
	put16(buf[22:], windowClassInputOutput)
	put32(buf[24:], visual)
	put32(buf[28:], cwBackPixel|cwEventMask)
	// values must be in the order of their bits in the value mask
	put32(buf[32:], backPixel)
	put32(buf[36:], eventMask)
	return buf
}

func internAtomRequest(name string) []byte {
	buf := newRequest(opInternAtom, 0, 8+len(name))
	put16(buf[4:], uint16(len(name)))
	copy(buf[8:], name)
	return buf
}

func changeProperty8(window, property, typ uint32, data []byte) []byte {
	buf := newRequest(opChangeProp, propModeReplace, 24+len(data))
	put32(buf[4:], window)
	put32(buf[8:], property)
	put32(buf[12:], typ)
	buf[16] = 8
	put32(buf[20:], uint32(len(data)))
	copy(buf[24:], data)
	return buf
}

func changeProperty32(window, property, typ uint32, values ...uint32) []byte {
	buf := newRequest(opChangeProp, propModeReplace, 24+4*len(values))
	put32(buf[4:], window)
	put32(buf[8:], property)
	put32(buf[12:], typ)
	buf[16] = 32
	put32(buf[20:], uint32(len(values)))
	for i, v := range values {
		put32(buf[24+4*i:], v)
	}
	return buf
}

func createGCRequest(gc, drawable uint32) []byte {
	buf := newRequest(opCreateGC, 0, 20)
	put32(buf[4:], gc)
	put32(buf[8:], drawable)
	put32(buf[12:], gcGraphicsExposures)
	put32(buf[16:], 0)
	return buf
}

func sendEventRequest(destination, eventMask uint32, event []byte) []byte {
	buf := newRequest(opSendEvent, 0, 44)
	put32(buf[4:], destination)
	put32(buf[8:], eventMask)
	copy(buf[12:], event)
	return buf
}

func putImageRequest(drawable, gc uint32, width, height uint16, dstY int16, depth byte, data []byte) []byte {
	buf := newRequest(opPutImage, imageFormatZPixmap, putImageHeader+len(data))
	put32(buf[4:], drawable)
	put32(buf[8:], gc)
	put16(buf[12:], width)
	put16(buf[14:], height)
	put16(buf[18:], uint16(dstY))
	buf[21] = depth
	copy(buf[putImageHeader:], data)
	return buf
}
