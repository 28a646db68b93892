// Package canvas provides packed pixel buffers for small displays.
//
// A Layout describes how the pixels of a rectangle are stored in bytes: the
// pixel format (1, 4, 8 or 24 bits), whether sub-byte pixels are packed along
// rows or along columns (pages), the order of pixels inside a byte and
// optional mirroring. The address arithmetic is done by a tensor.Indexer.
//
// Memory layout of a 4 pixel Gray4 row, Horizontal and MSBFirst, which is what
// the SSD1322 expects:
//
//	Pixels: 0  1  2  3
//	Values: 5  10 3  12
//	Bytes:  0x5A     0x3C
//
// The same row with LSBFirst is stored as 0xA5 0xC3.
//
// Canvas implements draw.Image, so it works with the standard image/draw
// package:
//
//	c, err := canvas.New(image.Rect(0, 0, 256, 64), canvas.FormatGray4, nil)
//	if err != nil {
//		return err
//	}
//	draw.Draw(c, c.Bounds(), image.NewUniform(canvas.Gray4{Y: 15}), image.Point{}, draw.Src)
//
// View is a window into a Canvas and ReadOnly decodes a buffer owned by
// someone else.
//
// None of the types in this package are safe for concurrent use, even for
// reading.
package canvas
