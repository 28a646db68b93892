package canvas

import (
	"image/color"
)

// Gray4 represents a 4-bit grayscale color (0-15 intensity levels).
// Only the lower 4 bits of Y are used.
type Gray4 struct {
	Y uint8
}

// RGBA converts the Gray4 color to standard RGBA.
func (c Gray4) RGBA() (r, g, b, a uint32) {
	// 0xF * 0x1111 = 0xFFFF
	y := uint32(c.Y&0x0F) * 0x1111
	return y, y, y, 0xFFFF
}

// luma returns the 16-bit luminance of c.
func luma(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (299*r + 587*g + 114*b + 500) / 1000
}

func toGray4(c color.Color) color.Color {
	if g, ok := c.(Gray4); ok {
		return g
	}
	return Gray4{Y: uint8(luma(c) >> 12)}
}

// Gray4Model converts colors to Gray4.
var Gray4Model = color.ModelFunc(toGray4)

// Bit is a monochrome pixel: lit or not.
type Bit bool

// RGBA implements color.Color.
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	return Bit(luma(c) >= 0x8000)
}

// BitModel converts colors to Bit. Anything at least half as bright as white
// is lit.
var BitModel = color.ModelFunc(toBit)
