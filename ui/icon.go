package ui

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Icon is the symbol shown next to the message.
type Icon int

const (
	Info Icon = iota
	Warning
	Error
	Question
)

// IconSize is the width and height of every icon bitmap.
const IconSize = 48

// ParseIcon parses "error", "warning", "info" or "question".
func ParseIcon(s string) (Icon, error) {
	switch s {
	case "error":
		return Error, nil
	case "warning":
		return Warning, nil
	case "info":
		return Info, nil
	case "question":
		return Question, nil
	}
	return Info, ErrInvalidValue
}

func (i Icon) String() string {
	switch i {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Question:
		return "question"
	}
	return "info"
}

// Title is the window title used when the caller does not set one.
func (i Icon) Title() string {
	switch i {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Question:
		return "Question"
	}
	return "Info"
}

type iconSpec struct {
	fill  color.RGBA
	glyph string
}

var iconSpecs = map[Icon]iconSpec{
	Error:    {color.RGBA{0xe0, 0x1b, 0x24, 0xff}, "×"},
	Warning:  {color.RGBA{0xe5, 0xa5, 0x0a, 0xff}, "!"},
	Info:     {color.RGBA{0x35, 0x84, 0xe4, 0xff}, "i"},
	Question: {color.RGBA{0x35, 0x84, 0xe4, 0xff}, "?"},
}

var (
	iconsOnce sync.Once
	icons     map[Icon]*image.RGBA
)

// Bitmap returns the decoded, premultiplied icon. The table is built once
// and the returned images must not be modified.
func (i Icon) Bitmap() *image.RGBA {
	iconsOnce.Do(func() {
		icons = make(map[Icon]*image.RGBA, len(iconSpecs))
		face := glyphFace()
		for kind, spec := range iconSpecs {
			icons[kind] = renderIcon(spec, face)
		}
	})
	if b, ok := icons[i]; ok {
		return b
	}
	return icons[Info]
}

func glyphFace() font.Face {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		panic("ui: bundled font: " + err.Error())
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		panic("ui: bundled font: " + err.Error())
	}
	return face
}

func renderIcon(spec iconSpec, face font.Face) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))

	r := vector.NewRasterizer(IconSize, IconSize)
	r.DrawOp = draw.Over
	circle(r, IconSize/2, IconSize/2, IconSize/2-1)
	r.Draw(img, img.Bounds(), image.NewUniform(spec.fill), image.Point{})

	m := face.Metrics()
	w := font.MeasureString(face, spec.glyph)
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot: fixed.Point26_6{
			X: (fixed.I(IconSize) - w) / 2,
			Y: (fixed.I(IconSize) + m.Ascent - m.Descent) / 2,
		},
	}
	d.DrawString(spec.glyph)
	return img
}

// circle adds a circle made of quadratic arcs to the rasterizer path.
func circle(r *vector.Rasterizer, cx, cy, radius float32) {
	const segments = 16
	r.MoveTo(cx+radius, cy)
	for i := 1; i <= segments; i++ {
		a0 := float64(i-1) * 2 * math.Pi / segments
		a1 := float64(i) * 2 * math.Pi / segments
		mid := (a0 + a1) / 2
		k := float32(1 / math.Cos((a1-a0)/2))
		r.QuadTo(
			cx+radius*k*float32(math.Cos(mid)), cy+radius*k*float32(math.Sin(mid)),
			cx+radius*float32(math.Cos(a1)), cy+radius*float32(math.Sin(a1)),
		)
	}
	r.ClosePath()
}
