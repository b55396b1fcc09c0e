// Package ui lays out, paints and drives a message dialog: an icon,
// word-wrapped text and a row of buttons in a fixed-size pixel buffer.
//
// Nothing in this package talks to a display server. The caller feeds it
// Events and uploads Canvas after Redraw; ProcessEvent turns the events into
// an Answer.
package ui

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Layout metrics, in pixels.
const (
	Margin        = 16
	IconGap       = 16
	MaxTextWidth  = 360
	MaxTextHeight = 2048
	ButtonMinW    = 80
	ButtonPadding = 16
	ButtonHeight  = 28
	ButtonSpacing = 8
	BarPadding    = 12
	BarHeight     = ButtonHeight + 2*BarPadding

	fontSize     = 13
	buttonRadius = 4
)

var (
	faceOnce sync.Once
	textFace font.Face
)

// Face returns the font used for the message and the button labels.
func Face() font.Face {
	faceOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			panic("ui: bundled font: " + err.Error())
		}
		textFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: fontSize, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			panic("ui: bundled font: " + err.Error())
		}
	})
	return textFace
}

// Measure returns the advance width of s in the dialog font, rounded up.
func Measure(s string) int {
	return font.MeasureString(Face(), s).Ceil()
}

// ButtonRect is one clickable button. Index is its position in the label list.
type ButtonRect struct {
	Rect  image.Rectangle
	Label string
	Index int

	labelWidth int
}

// Ui is the dialog's state: the layout computed by New, the canvas and the
// pointer interaction state.
type Ui struct {
	Canvas *Canvas

	palette palette
	icon    image.Image
	iconPos image.Point
	lines   []Line
	textPos image.Point
	buttons []ButtonRect

	lineHeight int
	ascent     int

	hovered int // -1 when no button is hovered
	pressed int // -1 when no button is pressed
	dirty   bool
}

// New lays out a dialog and paints it. icon may be nil. It never fails: an
// empty message and no labels give a small empty dialog.
func New(icon image.Image, theme Theme, message string, labels []string) *Ui {
	face := Face()
	m := face.Metrics()
	u := &Ui{
		palette:    theme.palette(),
		icon:       icon,
		lineHeight: m.Height.Ceil(),
		ascent:     m.Ascent.Ceil(),
		hovered:    -1,
		pressed:    -1,
	}

	var iconW, iconH int
	if icon != nil {
		iconW, iconH = icon.Bounds().Dx(), icon.Bounds().Dy()
	}
	u.lines = clampLines(Wrap(message, MaxTextWidth, Measure), MaxTextHeight/u.lineHeight)
	textW, textH := 0, len(u.lines)*u.lineHeight
	for _, l := range u.lines {
		textW = max(textW, l.Width)
	}

	contentW := iconW + textW
	if iconW > 0 && textW > 0 {
		contentW += IconGap
	}
	contentH := max(iconH, textH)

	buttonsW := 0
	for i, label := range labels {
		lw := Measure(label)
		b := ButtonRect{Label: label, Index: i, labelWidth: lw}
		b.Rect.Max.X = max(ButtonMinW, lw+2*ButtonPadding)
		u.buttons = append(u.buttons, b)
		if i > 0 {
			buttonsW += ButtonSpacing
		}
		buttonsW += b.Rect.Max.X
	}

	width := max(contentW, buttonsW) + 2*Margin
	height := contentH + 2*Margin + BarHeight
	u.Canvas = NewCanvas(width, height)

	u.iconPos = image.Pt(Margin, Margin+(contentH-iconH)/2)
	u.textPos = image.Pt(Margin, Margin+(contentH-textH)/2)
	if iconW > 0 {
		u.textPos.X += iconW + IconGap
	}

	x := width - Margin - buttonsW
	y := height - BarHeight + BarPadding
	for i := range u.buttons {
		w := u.buttons[i].Rect.Max.X
		u.buttons[i].Rect = image.Rect(x, y, x+w, y+ButtonHeight)
		x += w + ButtonSpacing
	}

	u.dirty = true
	u.Redraw()
	return u
}

// clampLines keeps at most n lines and marks the cut with an ellipsis.
func clampLines(lines []Line, n int) []Line {
	if len(lines) <= n || n < 1 {
		return lines
	}
	lines = append([]Line(nil), lines[:n]...)
	last := &lines[n-1]
	limit := max(MaxTextWidth, last.Width)
	text := strings.TrimRight(last.Text, " ")
	for text != "" && Measure(text+"…") > limit {
		_, size := utf8.DecodeLastRuneInString(text)
		text = text[:len(text)-size]
	}
	last.Text = text + "…"
	last.Width = Measure(last.Text)
	return lines
}

// Buttons returns the button layout in label order.
func (u *Ui) Buttons() []ButtonRect { return u.buttons }

// Lines returns the wrapped message.
func (u *Ui) Lines() []Line { return u.lines }

// ButtonAt returns the index of the button containing p.
func (u *Ui) ButtonAt(p image.Point) (int, bool) {
	for i, b := range u.buttons {
		if p.In(b.Rect) {
			return i, true
		}
	}
	return -1, false
}

// Hovered returns the button under the pointer.
func (u *Ui) Hovered() (int, bool) { return u.hovered, u.hovered >= 0 }

// Pressed returns the button the left mouse button went down on.
func (u *Ui) Pressed() (int, bool) { return u.pressed, u.pressed >= 0 }

// Dirty reports whether the next Redraw will repaint.
func (u *Ui) Dirty() bool { return u.dirty }

// ProcessEvent updates the interaction state and reports an answer once the
// user has decided. A button is clicked when the left mouse button is
// pressed and released over it. Releasing it anywhere else, or releasing
// another mouse button, cancels the press.
func (u *Ui) ProcessEvent(ev Event) (Answer, bool) {
	switch ev := ev.(type) {
	case CloseRequested:
		return Closed, true
	case RedrawRequested:
		u.dirty = true
	case CursorEnter:
		u.hover(ev.Pos)
	case CursorMove:
		u.hover(ev.Pos)
	case CursorLeave:
		u.setHovered(-1)
	case ButtonPress:
		if ev.Button == Left && u.hovered >= 0 {
			u.pressed = u.hovered
			u.dirty = true
		}
	case ButtonRelease:
		if u.pressed < 0 {
			break
		}
		// Any release ends the press; only the left button clicks.
		pressed := u.pressed
		u.pressed = -1
		u.dirty = true
		if ev.Button == Left && u.hovered == pressed {
			return Button(pressed), true
		}
	}
	return 0, false
}

func (u *Ui) hover(p image.Point) {
	i, _ := u.ButtonAt(p)
	u.setHovered(i)
}

func (u *Ui) setHovered(i int) {
	if u.hovered != i {
		u.hovered = i
		u.dirty = true
	}
}

// Redraw repaints the canvas if the state changed since the last paint.
func (u *Ui) Redraw() {
	if !u.dirty {
		return
	}
	u.dirty = false

	img := u.Canvas.Image()
	b := img.Bounds()
	draw.Draw(img, b, image.NewUniform(u.palette.background), image.Point{}, draw.Src)
	bar := image.Rect(b.Min.X, b.Max.Y-BarHeight, b.Max.X, b.Max.Y)
	draw.Draw(img, bar, image.NewUniform(u.palette.bar), image.Point{}, draw.Src)

	if u.icon != nil {
		ib := u.icon.Bounds()
		draw.Draw(img, ib.Sub(ib.Min).Add(u.iconPos), u.icon, ib.Min, draw.Over)
	}

	d := font.Drawer{Dst: img, Src: image.NewUniform(u.palette.text), Face: Face()}
	for i, l := range u.lines {
		d.Dot = fixed.P(u.textPos.X, u.textPos.Y+i*u.lineHeight+u.ascent)
		d.DrawString(l.Text)
	}

	for i := range u.buttons {
		u.paintButton(img, &u.buttons[i])
	}
}

func (u *Ui) paintButton(img *image.RGBA, b *ButtonRect) {
	fill := u.palette.button
	switch {
	case b.Index == u.pressed && b.Index == u.hovered:
		fill = u.palette.buttonPressed
	case b.Index == u.hovered && u.pressed < 0:
		fill = u.palette.buttonHover
	}

	fillRoundRect(img, b.Rect, buttonRadius, u.palette.buttonBorder)
	fillRoundRect(img, b.Rect.Inset(1), buttonRadius-1, fill)

	d := font.Drawer{Dst: img, Src: image.NewUniform(u.palette.buttonText), Face: Face()}
	x := b.Rect.Min.X + (b.Rect.Dx()-b.labelWidth)/2
	y := b.Rect.Min.Y + (b.Rect.Dy()-u.lineHeight)/2 + u.ascent
	d.Dot = fixed.P(x, y)
	d.DrawString(b.Label)
}

// fillRoundRect paints r with rounded corners of radius rad.
func fillRoundRect(img *image.RGBA, r image.Rectangle, rad int, c color.RGBA) {
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	w, h, k := float32(r.Dx()), float32(r.Dy()), float32(rad)
	z.MoveTo(k, 0)
	z.LineTo(w-k, 0)
	z.QuadTo(w, 0, w, k)
	z.LineTo(w, h-k)
	z.QuadTo(w, h, w-k, h)
	z.LineTo(k, h)
	z.QuadTo(0, h, 0, h-k)
	z.LineTo(0, k)
	z.QuadTo(0, 0, k, 0)
	z.ClosePath()
	z.Draw(img, r, image.NewUniform(c), image.Point{})
}
