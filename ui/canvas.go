package ui

import "image"

// Canvas is the dialog's pixel buffer: width*height premultiplied pixels,
// stored contiguously as R, G, B, A bytes.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a transparent canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (c *Canvas) Width() int  { return c.img.Rect.Dx() }
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Image returns the backing image. Its Pix has no padding between rows.
func (c *Canvas) Image() *image.RGBA { return c.img }

// ARGB returns the pixel at (x, y) as premultiplied 0xAARRGGBB.
func (c *Canvas) ARGB(x, y int) uint32 {
	i := c.img.PixOffset(x, y)
	p := c.img.Pix[i : i+4 : i+4]
	return uint32(p[3])<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
}
