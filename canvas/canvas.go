package canvas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/flavioheleno/abstractplatform/bits"
)

// Canvas is a draw.Image over a packed pixel buffer.
type Canvas struct {
	Pix    []byte
	layout *Layout
}

// New allocates a blank canvas of format f covering r.
func New(r image.Rectangle, f Format, opts *Opts) (*Canvas, error) {
	l, err := NewLayout(r, f, opts)
	if err != nil {
		return nil, err
	}
	return &Canvas{Pix: make([]byte, l.BufferSize()), layout: l}, nil
}

// Wrap returns a canvas drawing into buf, which must hold at least
// Layout.BufferSize bytes. Extra bytes are left alone.
func Wrap(buf []byte, r image.Rectangle, f Format, opts *Opts) (*Canvas, error) {
	l, err := NewLayout(r, f, opts)
	if err != nil {
		return nil, err
	}
	if len(buf) < l.BufferSize() {
		return nil, errors.Errorf("canvas: buffer too short for %v: %d < %d bytes", l, len(buf), l.BufferSize())
	}
	return &Canvas{Pix: buf[:l.BufferSize()], layout: l}, nil
}

// Layout returns the pixel layout of the canvas.
func (c *Canvas) Layout() *Layout {
	return c.layout
}

// Format returns the pixel format.
func (c *Canvas) Format() Format {
	return c.layout.format
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model {
	return c.layout.format.Model()
}

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle {
	return c.layout.rect
}

// At implements image.Image. Points outside the bounds read as the zero value.
func (c *Canvas) At(x, y int) color.Color {
	return c.layout.format.Decode(c.Value(x, y))
}

// Set implements draw.Image. Points outside the bounds are ignored.
func (c *Canvas) Set(x, y int, col color.Color) {
	c.SetValue(x, y, c.layout.format.Encode(col))
}

// Value returns the raw value of pixel (x, y), 0 outside the bounds.
func (c *Canvas) Value(x, y int) uint32 {
	if !(image.Point{X: x, Y: y}.In(c.layout.rect)) {
		return 0
	}
	off, shift := c.layout.Offset(x, y)
	if c.layout.ppb > 1 {
		return uint32(bits.Field(c.Pix[off], shift, uint(c.layout.bpp)))
	}
	var v uint32
	for _, b := range c.Pix[off : off+c.layout.bytes] {
		v = v<<bits.BitsPerByte | uint32(b)
	}
	return v
}

// SetValue stores the raw value v at pixel (x, y). Bits of v that do not fit
// the format are dropped and points outside the bounds are ignored.
func (c *Canvas) SetValue(x, y int, v uint32) {
	if !(image.Point{X: x, Y: y}.In(c.layout.rect)) {
		return
	}
	off, shift := c.layout.Offset(x, y)
	if c.layout.ppb > 1 {
		c.Pix[off] = bits.SetField(c.Pix[off], shift, uint(c.layout.bpp), uint8(v))
		return
	}
	for i := c.layout.bytes - 1; i >= 0; i-- {
		c.Pix[off+i] = byte(v)
		v >>= bits.BitsPerByte
	}
}

// Fill paints every pixel with col.
func (c *Canvas) Fill(col color.Color) {
	v := c.layout.format.Encode(col)
	if v == 0 {
		c.Clear()
		return
	}
	if c.layout.ppb > 1 {
		// Replicate the value in every slot of a byte.
		var b uint8
		for s := 0; s < c.layout.ppb; s++ {
			b = bits.SetField(b, uint(s*c.layout.bpp), uint(c.layout.bpp), uint8(v))
		}
		for i := range c.Pix {
			c.Pix[i] = b
		}
		return
	}
	r := c.layout.rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.SetValue(x, y, v)
		}
	}
}

// Clear sets every pixel to 0.
func (c *Canvas) Clear() {
	clear(c.Pix)
}

// Window returns a view of the part of the canvas inside r. The view shares
// the pixels of the canvas.
func (c *Canvas) Window(r image.Rectangle) *View {
	return &View{c: c, rect: r.Intersect(c.layout.rect)}
}

// SubImage is Window returning an image.Image, as image.Gray and friends do.
func (c *Canvas) SubImage(r image.Rectangle) image.Image {
	return c.Window(r)
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	l, _ := NewLayout(c.layout.rect, c.layout.format, &c.layout.opts)
	return &Canvas{Pix: append([]byte(nil), c.Pix...), layout: l}
}

func (c *Canvas) String() string {
	return fmt.Sprintf("canvas.Canvas{%dx%d %v}", c.layout.rect.Dx(), c.layout.rect.Dy(), c.layout.format)
}
