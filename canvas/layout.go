package canvas

import (
	"fmt"
	"image"

	"github.com/pkg/errors"

	"github.com/flavioheleno/abstractplatform/bits"
	"github.com/flavioheleno/abstractplatform/tensor"
)

// PixelLayout selects along which axis pixels narrower than a byte are
// packed.
type PixelLayout int

const (
	// Horizontal packs neighbouring pixels of a row in a byte. Bytes follow
	// each other along the row, then rows follow each other.
	Horizontal PixelLayout = iota
	// Vertical packs neighbouring pixels of a column in a byte. The bytes of a
	// page (a band of rows one byte high) follow each other along x, then pages
	// follow each other. This is the SSD1306 style.
	Vertical
)

func (p PixelLayout) String() string {
	switch p {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("PixelLayout(%d)", int(p))
	}
}

// BitOrder is the order of sub-byte pixels within a byte.
type BitOrder int

const (
	// MSBFirst stores the first pixel of a byte in its most significant bits.
	MSBFirst BitOrder = iota
	// LSBFirst stores the first pixel of a byte in its least significant bits.
	LSBFirst
)

func (b BitOrder) String() string {
	if b == LSBFirst {
		return "lsb-first"
	}
	return "msb-first"
}

// Opts configures how pixels are laid out in a buffer. A nil *Opts is the
// zero value: horizontal, MSB first, not mirrored.
type Opts struct {
	Pixel PixelLayout
	Order BitOrder
	// FlipX and FlipY mirror the image in the buffer.
	FlipX bool
	FlipY bool
}

// Layout maps the points of a rectangle to a byte offset and a bit shift in a
// packed buffer.
//
// The mapping is a composite tensor.Indexer:
//
//	outer = [sub, inner[column, row]]
//
// sub is the slot of a pixel inside its byte (size 1 for formats of 8 bits
// and more), inner enumerates the byte groups of the buffer. A Layout keeps
// the positions of its axes between calls, so it must not be used
// concurrently.
type Layout struct {
	rect   image.Rectangle
	format Format
	opts   Opts

	bpp   int // bits per pixel
	bytes int // bytes per pixel, 1 for packed formats
	ppb   int // pixels per byte, 1 for formats of 8 bits and more

	// Logical axes, Backward when mirrored.
	x, y *tensor.Dimension

	sub, column, row *tensor.Dimension
	inner, outer     *tensor.Indexer
}

// NewLayout returns the layout of an image of format f covering r.
func NewLayout(r image.Rectangle, f Format, opts *Opts) (*Layout, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if !f.Valid() {
		return nil, errors.Errorf("canvas: invalid format %v", f)
	}
	if opts.Pixel != Horizontal && opts.Pixel != Vertical {
		return nil, errors.Errorf("canvas: invalid pixel layout %v", opts.Pixel)
	}
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("canvas: empty rectangle %v", r)
	}
	l := &Layout{rect: r, format: f, opts: *opts, bpp: f.Bits(), bytes: 1, ppb: 1}
	if l.bpp < bits.BitsPerByte {
		l.ppb = bits.BitsPerByte / l.bpp
	} else {
		l.bytes = l.bpp / bits.BitsPerByte
	}

	dir := func(flip bool) tensor.Direction {
		if flip {
			return tensor.Backward
		}
		return tensor.Forward
	}
	l.x = tensor.NewDimension("x", w, dir(opts.FlipX))
	l.y = tensor.NewDimension("y", h, dir(opts.FlipY))

	// The first pixel of a byte sits at slot 0 for LSBFirst, so MSBFirst runs
	// the slots backwards.
	subDir := tensor.Forward
	if opts.Order == MSBFirst {
		subDir = tensor.Backward
	}
	l.sub = tensor.NewDimension("sub", l.ppb, subDir)

	switch opts.Pixel {
	case Horizontal:
		if w%l.ppb != 0 {
			return nil, errors.Errorf("canvas: width %d must be a multiple of %d for %v", w, l.ppb, f)
		}
		l.column = tensor.NewDimension("column", w/l.ppb, tensor.Forward)
		l.row = tensor.NewDimension("row", h, tensor.Forward)
	case Vertical:
		if h%l.ppb != 0 {
			return nil, errors.Errorf("canvas: height %d must be a multiple of %d for %v", h, l.ppb, f)
		}
		l.column = tensor.NewDimension("column", w, tensor.Forward)
		l.row = tensor.NewDimension("page", h/l.ppb, tensor.Forward)
	}
	l.inner = tensor.NewNamed("cell", l.column, l.row)
	l.outer = tensor.New(l.sub, l.inner)
	return l, nil
}

// Rect returns the rectangle covered by the layout.
func (l *Layout) Rect() image.Rectangle {
	return l.rect
}

// Format returns the pixel format.
func (l *Layout) Format() Format {
	return l.format
}

// Opts returns a copy of the options the layout was built with.
func (l *Layout) Opts() Opts {
	return l.opts
}

// BufferSize returns the number of bytes needed to hold the image.
func (l *Layout) BufferSize() int {
	return l.inner.Size() * l.bytes
}

// Stride returns the distance in bytes between two rows (Horizontal) or two
// pages (Vertical).
func (l *Layout) Stride() int {
	return l.column.Size() * l.bytes
}

// PixelsPerByte returns how many pixels share a byte, 1 for formats of 8 bits
// and more.
func (l *Layout) PixelsPerByte() int {
	return l.ppb
}

// Offset returns the index of the first byte holding pixel (x, y) and the
// shift of the pixel inside it. The point must be inside Rect.
func (l *Layout) Offset(x, y int) (int, uint) {
	l.x.SetPosition(x - l.rect.Min.X)
	l.y.SetPosition(y - l.rect.Min.Y)
	px, py := l.x.DirectionalPosition(), l.y.DirectionalPosition()

	var slot int
	switch l.opts.Pixel {
	case Horizontal:
		slot = py*l.x.Size() + px
	default:
		slot = py%l.ppb + l.ppb*(px+l.column.Size()*(py/l.ppb))
	}
	l.outer.SetPosition(slot)
	return l.inner.Position() * l.bytes, uint(l.sub.DirectionalPosition() * l.bpp)
}

// Point is the inverse of Offset.
func (l *Layout) Point(offset int, shift uint) image.Point {
	l.inner.SetPosition(offset / l.bytes)
	l.sub.SetDirectionalPosition(int(shift) / l.bpp)
	slot := l.outer.Position()

	var px, py int
	switch l.opts.Pixel {
	case Horizontal:
		px, py = slot%l.x.Size(), slot/l.x.Size()
	default:
		px = l.column.Position()
		py = l.row.Position()*l.ppb + l.sub.Position()
	}
	l.x.SetDirectionalPosition(px)
	l.y.SetDirectionalPosition(py)
	return image.Point{X: l.x.Position() + l.rect.Min.X, Y: l.y.Position() + l.rect.Min.Y}
}

func (l *Layout) String() string {
	return fmt.Sprintf("canvas.Layout{%dx%d %v %v %v}", l.rect.Dx(), l.rect.Dy(), l.format, l.opts.Pixel, l.opts.Order)
}
