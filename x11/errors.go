package x11

import "fmt"

// ConnectionError is returned when the X server cannot be reached or
// rejects the connection setup. No window exists when it is returned.
type ConnectionError struct {
	Display string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("x11: cannot connect to display %q: %v", e.Display, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError reports a malformed or out-of-sequence message from the
// server, or a pixel format alerta cannot encode. The connection is unusable
// afterwards.
type ProtocolError struct {
	Msg string
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("x11: protocol error: %s: %v", e.Msg, e.Err)
	}
	return "x11: protocol error: " + e.Msg
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// OperationError is an X error packet: the server refused one request.
type OperationError struct {
	Request  string // set when the failing request is known
	Code     byte
	Sequence uint16
	BadValue uint32
	Major    byte
	Minor    uint16
}

func newOperationError(buf []byte) *OperationError {
	return &OperationError{
		Code:     buf[1],
		Sequence: get16(buf[2:]),
		BadValue: get32(buf[4:]),
		Minor:    get16(buf[8:]),
		Major:    buf[10],
	}
}

var errorNames = [...]string{
	1: "BadRequest", 2: "BadValue", 3: "BadWindow", 4: "BadPixmap",
	5: "BadAtom", 6: "BadCursor", 7: "BadFont", 8: "BadMatch",
	9: "BadDrawable", 10: "BadAccess", 11: "BadAlloc", 12: "BadColormap",
	13: "BadGContext", 14: "BadIDChoice", 15: "BadName", 16: "BadLength",
	17: "BadImplementation",
}

// Name returns the symbolic name of the error code.
func (e *OperationError) Name() string {
	if int(e.Code) < len(errorNames) && errorNames[e.Code] != "" {
		return errorNames[e.Code]
	}
	return fmt.Sprintf("Error%d", e.Code)
}

func (e *OperationError) Error() string {
	req := e.Request
	if req == "" {
		req = fmt.Sprintf("opcode %d", e.Major)
	}
	return fmt.Sprintf("x11: %s refused with %s (sequence %d, bad value 0x%x)",
		req, e.Name(), e.Sequence, e.BadValue)
}
