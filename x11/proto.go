package x11

// Request opcodes of the core protocol used by alerta.
const (
	opCreateWindow  = 1
	opDestroyWindow = 4
	opMapWindow     = 8
	opInternAtom    = 16
	opChangeProp    = 18
	opSendEvent     = 25
	opUngrabPointer = 27
	opGetInputFocus = 43
	opCreateGC      = 55
	opFreeGC        = 60
	opPutImage      = 72
)

var opcodeNames = map[byte]string{
	opCreateWindow:  "CreateWindow",
	opDestroyWindow: "DestroyWindow",
	opMapWindow:     "MapWindow",
	opInternAtom:    "InternAtom",
	opChangeProp:    "ChangeProperty",
	opSendEvent:     "SendEvent",
	opUngrabPointer: "UngrabPointer",
	opGetInputFocus: "GetInputFocus",
	opCreateGC:      "CreateGC",
	opFreeGC:        "FreeGC",
	opPutImage:      "PutImage",
}

// Event codes.
const (
	ButtonPress   = 4
	ButtonRelease = 5
	MotionNotify  = 6
	EnterNotify   = 7
	LeaveNotify   = 8
	Expose        = 12
	ClientMessage = 33
	GenericEvent  = 35
)

// Event masks.
const (
	EventMaskButtonPress          = 1 << 2
	EventMaskButtonRelease        = 1 << 3
	EventMaskEnterWindow          = 1 << 4
	EventMaskLeaveWindow          = 1 << 5
	EventMaskPointerMotion        = 1 << 6
	EventMaskExposure             = 1 << 15
	EventMaskSubstructureNotify   = 1 << 19
	EventMaskSubstructureRedirect = 1 << 20
)

const (
	windowClassInputOutput = 1
	cwBackPixel            = 1 << 1
	cwEventMask            = 1 << 11

	imageFormatZPixmap = 2
	imageOrderLSBFirst = 0
	imageOrderMSBFirst = 1

	visualClassTrueColor = 4
)

// Predefined atoms.
const (
	atomAtom          = 4
	atomString        = 31
	atomWMName        = 39
	atomWMNormalHints = 40
	atomWMSizeHints   = 41
	atomWMClass       = 67
)

const (
	propModeReplace = 0

	// WM_NORMAL_HINTS flags (ICCCM 4.1.2.3).
	sizeHintPMinSize = 1 << 4
	sizeHintPMaxSize = 1 << 5

	// _NET_WM_MOVERESIZE direction for a keyboard-less move.
	moveResizeMove = 8
	// Source indication: a normal application.
	sourceApplication = 1
)
