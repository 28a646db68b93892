package canvas

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// View is a rectangular window into a Canvas. Pixels outside the window
// can't be read or written through the view.
type View struct {
	c    *Canvas
	rect image.Rectangle
}

// Canvas returns the canvas the view looks into.
func (v *View) Canvas() *Canvas {
	return v.c
}

// ColorModel implements image.Image.
func (v *View) ColorModel() color.Model {
	return v.c.ColorModel()
}

// Bounds implements image.Image. It is in the coordinates of the canvas.
func (v *View) Bounds() image.Rectangle {
	return v.rect
}

// At implements image.Image.
func (v *View) At(x, y int) color.Color {
	return v.c.layout.format.Decode(v.Value(x, y))
}

// Set implements draw.Image.
func (v *View) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(v.rect) {
		v.c.Set(x, y, col)
	}
}

// Value returns the raw value of pixel (x, y), 0 outside the view.
func (v *View) Value(x, y int) uint32 {
	if !image.Pt(x, y).In(v.rect) {
		return 0
	}
	return v.c.Value(x, y)
}

// SetValue stores a raw value, ignoring points outside the view.
func (v *View) SetValue(x, y int, val uint32) {
	if image.Pt(x, y).In(v.rect) {
		v.c.SetValue(x, y, val)
	}
}

// Fill paints every pixel of the view with col.
func (v *View) Fill(col color.Color) {
	val := v.c.layout.format.Encode(col)
	for y := v.rect.Min.Y; y < v.rect.Max.Y; y++ {
		for x := v.rect.Min.X; x < v.rect.Max.X; x++ {
			v.c.SetValue(x, y, val)
		}
	}
}

// Window returns a smaller window into the same canvas.
func (v *View) Window(r image.Rectangle) *View {
	return &View{c: v.c, rect: r.Intersect(v.rect)}
}

func (v *View) SubImage(r image.Rectangle) image.Image {
	return v.Window(r)
}

// ReadOnly is an image.Image over a buffer owned by someone else, such as a
// frame received from a device. It never writes to the buffer.
type ReadOnly struct {
	c Canvas
}

// NewReadOnly returns an image decoding buf with the given layout.
func NewReadOnly(buf []byte, r image.Rectangle, f Format, opts *Opts) (*ReadOnly, error) {
	c, err := Wrap(buf, r, f, opts)
	if err != nil {
		return nil, errors.WithMessage(err, "canvas: read-only view")
	}
	return &ReadOnly{c: *c}, nil
}

// ColorModel implements image.Image.
func (r *ReadOnly) ColorModel() color.Model {
	return r.c.ColorModel()
}

// Bounds implements image.Image.
func (r *ReadOnly) Bounds() image.Rectangle {
	return r.c.Bounds()
}

// At implements image.Image.
func (r *ReadOnly) At(x, y int) color.Color {
	return r.c.At(x, y)
}

// Value returns the raw value of pixel (x, y).
func (r *ReadOnly) Value(x, y int) uint32 {
	return r.c.Value(x, y)
}
