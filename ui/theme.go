package ui

import (
	"errors"
	"image/color"
)

// ErrInvalidValue is returned by the Parse functions for unknown names.
var ErrInvalidValue = errors.New("invalid value")

// Theme selects the dialog's colors.
type Theme int

const (
	Light Theme = iota
	Dark
)

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch s {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, ErrInvalidValue
}

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

type palette struct {
	background    color.RGBA
	text          color.RGBA
	bar           color.RGBA
	button        color.RGBA
	buttonHover   color.RGBA
	buttonPressed color.RGBA
	buttonBorder  color.RGBA
	buttonText    color.RGBA
}

var palettes = map[Theme]palette{
	Light: {
		background:    color.RGBA{0xfa, 0xfa, 0xfa, 0xff},
		text:          color.RGBA{0x24, 0x24, 0x24, 0xff},
		bar:           color.RGBA{0xeb, 0xeb, 0xeb, 0xff},
		button:        color.RGBA{0xff, 0xff, 0xff, 0xff},
		buttonHover:   color.RGBA{0xe3, 0xee, 0xfa, 0xff},
		buttonPressed: color.RGBA{0xc4, 0xd9, 0xf2, 0xff},
		buttonBorder:  color.RGBA{0xb8, 0xb8, 0xb8, 0xff},
		buttonText:    color.RGBA{0x24, 0x24, 0x24, 0xff},
	},
	Dark: {
		background:    color.RGBA{0x24, 0x24, 0x24, 0xff},
		text:          color.RGBA{0xee, 0xee, 0xee, 0xff},
		bar:           color.RGBA{0x1b, 0x1b, 0x1b, 0xff},
		button:        color.RGBA{0x3a, 0x3a, 0x3a, 0xff},
		buttonHover:   color.RGBA{0x45, 0x4d, 0x57, 0xff},
		buttonPressed: color.RGBA{0x2d, 0x4a, 0x6e, 0xff},
		buttonBorder:  color.RGBA{0x55, 0x55, 0x55, 0xff},
		buttonText:    color.RGBA{0xee, 0xee, 0xee, 0xff},
	},
}

func (t Theme) palette() palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Light]
}
