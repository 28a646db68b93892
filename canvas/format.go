package canvas

import (
	"fmt"
	"image/color"
)

// Format is a pixel format.
type Format int

const (
	// FormatMono is 1 bit per pixel, with Bit colors.
	FormatMono Format = iota
	// FormatGray4 is 4 bits per pixel, with Gray4 colors.
	FormatGray4
	// FormatGray8 is 8 bits per pixel, with color.Gray colors.
	FormatGray8
	// FormatRGB is 24 bits per pixel stored as R, G, B bytes.
	FormatRGB
)

func (f Format) String() string {
	switch f {
	case FormatMono:
		return "mono"
	case FormatGray4:
		return "gray4"
	case FormatGray8:
		return "gray8"
	case FormatRGB:
		return "rgb"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f >= FormatMono && f <= FormatRGB
}

// Bits returns the number of bits per pixel.
func (f Format) Bits() int {
	switch f {
	case FormatMono:
		return 1
	case FormatGray4:
		return 4
	case FormatGray8:
		return 8
	case FormatRGB:
		return 24
	default:
		return 0
	}
}

// Model returns the color model of the format.
func (f Format) Model() color.Model {
	switch f {
	case FormatMono:
		return BitModel
	case FormatGray4:
		return Gray4Model
	case FormatGray8:
		return color.GrayModel
	default:
		return color.RGBAModel
	}
}

// Encode converts c to the raw value stored in a buffer.
func (f Format) Encode(c color.Color) uint32 {
	switch f {
	case FormatMono:
		if toBit(c).(Bit) {
			return 1
		}
		return 0
	case FormatGray4:
		return uint32(toGray4(c).(Gray4).Y & 0x0F)
	case FormatGray8:
		return uint32(color.GrayModel.Convert(c).(color.Gray).Y)
	default:
		v := color.RGBAModel.Convert(c).(color.RGBA)
		return uint32(v.R)<<16 | uint32(v.G)<<8 | uint32(v.B)
	}
}

// Decode converts a raw value back to a color of the format's model.
func (f Format) Decode(v uint32) color.Color {
	switch f {
	case FormatMono:
		return Bit(v&1 != 0)
	case FormatGray4:
		return Gray4{Y: uint8(v & 0x0F)}
	case FormatGray8:
		return color.Gray{Y: uint8(v)}
	default:
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
	}
}
