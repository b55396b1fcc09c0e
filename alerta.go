package alerta

import (
	"fmt"
	"math"

	"github.com/alerta-go/alerta/theme"
	"github.com/alerta-go/alerta/ui"
	"github.com/alerta-go/alerta/x11"
)

// Answer is the user's response to a dialog: Closed, or the 0-based index of
// the clicked button.
type Answer = ui.Answer

// Closed is returned when the window was closed by the window manager, for
// example through the close button of the frame or Alt+F4.
const Closed = ui.Closed

// Icon is the symbol displayed next to the message.
type Icon = ui.Icon

const (
	Info     = ui.Info
	Warning  = ui.Warning
	Error    = ui.Error
	Question = ui.Question
)

// Theme is the dialog's color theme.
type Theme = ui.Theme

const (
	Light = ui.Light
	Dark  = ui.Dark
)

// ErrInvalidValue is returned when parsing an unknown preset, icon or theme
// name.
var ErrInvalidValue = ui.ErrInvalidValue

// ParseIcon parses "error", "warning", "info" or "question".
func ParseIcon(s string) (Icon, error) { return ui.ParseIcon(s) }

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) { return ui.ParseTheme(s) }

// A Builder configures and shows a dialog.
type Builder struct {
	title     string
	hasTitle  bool
	message   string
	icon      Icon
	themeFunc func() Theme
	labels    []string
	display   string
}

// New returns a Builder for an Info dialog with a single Close button.
//
//	answer, err := alerta.New().
//		Title("Dialog Title").
//		Message("This text will appear inside the dialog window.").
//		Icon(alerta.Warning).
//		ButtonPreset(alerta.YesNoCancel).
//		Show()
func New() *Builder {
	return &Builder{
		icon:      Info,
		themeFunc: theme.Detect,
		labels:    Close.Labels(),
	}
}

// Title sets the window title. By default the title names the icon.
func (b *Builder) Title(title string) *Builder {
	b.title, b.hasTitle = title, true
	return b
}

// Message sets the message body. It may contain line breaks and is wrapped
// to fit the dialog.
func (b *Builder) Message(message string) *Builder {
	b.message = message
	return b
}

// Icon sets the icon.
func (b *Builder) Icon(icon Icon) *Builder {
	b.icon = icon
	return b
}

// Theme sets the color theme instead of asking the desktop.
func (b *Builder) Theme(t Theme) *Builder {
	return b.ThemeFunc(func() Theme { return t })
}

// ThemeFunc sets the function asked for the color theme when the dialog is
// shown. The default is theme.Detect.
func (b *Builder) ThemeFunc(f func() Theme) *Builder {
	b.themeFunc = f
	return b
}

// ButtonPreset uses one of the standard button rows.
func (b *Builder) ButtonPreset(p ButtonPreset) *Builder {
	b.labels = p.Labels()
	return b
}

// Buttons sets custom button labels, left to right. The Answer of a click
// is the label's index.
func (b *Builder) Buttons(labels ...string) *Builder {
	b.labels = append([]string(nil), labels...)
	return b
}

// Display selects the X display instead of $DISPLAY.
func (b *Builder) Display(display string) *Builder {
	b.display = display
	return b
}

func (b *Builder) windowTitle() string {
	if b.hasTitle {
		return b.title
	}
	return b.icon.Title()
}

// Show displays the dialog and blocks until the user answers or the window
// is closed. Errors come from talking to the X server: *x11.ConnectionError,
// *x11.ProtocolError or *x11.OperationError. A dialog too large for an X11
// window is rejected before connecting. The window and the connection are
// released on every return path.
func (b *Builder) Show() (Answer, error) {
	t := Light
	if b.themeFunc != nil {
		t = b.themeFunc()
	}
	u := ui.New(b.icon.Bitmap(), t, b.message, b.labels)
	width, height, err := windowSize(u.Canvas)
	if err != nil {
		return Closed, err
	}

	conn, err := x11.NewConnDisplay(b.display)
	if err != nil {
		return Closed, err
	}
	defer conn.Close()

	win, err := x11.CreateWindow(conn, width, height)
	if err != nil {
		return Closed, err
	}
	defer func() {
		if err := win.Destroy(); err != nil {
			x11.Logger.Printf("destroying window: %v", err)
		}
	}()

	if _, err := win.WithTitle(b.windowTitle()); err != nil {
		x11.Logger.Printf("setting title: %v", err)
	}
	if err := win.SetContents(u.Canvas); err != nil {
		return Closed, err
	}
	if err := win.Show(); err != nil {
		return Closed, err
	}
	return runLoop(win, u)
}

// windowSize checks that the dialog fits the 16-bit window geometry of X11.
func windowSize(c *ui.Canvas) (width, height uint16, err error) {
	if c.Width() > math.MaxUint16 || c.Height() > math.MaxUint16 {
		return 0, 0, fmt.Errorf("alerta: dialog of %dx%d pixels is too large for a window", c.Width(), c.Height())
	}
	return uint16(c.Width()), uint16(c.Height()), nil
}
