package ssd1322

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/flavioheleno/abstractplatform/canvas"
)

// The controller RAM is 480 pixels wide and one column address covers 4
// pixels.
const (
	ramColumns      = 480
	pixelsPerColumn = 4
	maxRows         = 128
)

var errHalted = errors.New("ssd1322: halted")

// Opts is the configuration for the SSD1322 display.
type Opts struct {
	W int // Width (default: 256, must be a multiple of 4 and ≤480)
	H int // Height (default: 64, must be ≤128)

	Rotated       bool // 180° rotation
	Sequential    bool // Sequential COM pin configuration
	SwapTopBottom bool // Swap top/bottom display halves

	// RST is the optional hardware reset pin.
	RST gpio.PinIO
}

// Dev is the device handle for the SSD1322 display.
type Dev struct {
	c   conn.Conn
	dc  gpio.PinOut
	rst gpio.PinIO

	rect         image.Rectangle
	columnOffset int // Centers on the 480-column RAM, rounded down to a column address

	// shown mirrors the display RAM, next is the lazily allocated draw
	// target used for differential updates.
	shown *canvas.Canvas
	next  *canvas.Canvas

	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// NewSPI creates a new SSD1322 device connected via SPI.
//
// The SPI port is configured for 10MHz, Mode0, 8-bit transfers. The dc
// (Data/Command) pin must be provided.
//
// opts can be nil to use defaults (256x64 display).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: 256, H: 64}
	}
	if opts.W <= 0 || opts.W%pixelsPerColumn != 0 || opts.W > ramColumns {
		return nil, errors.New("ssd1322: width must be a multiple of 4 between 4 and 480")
	}
	if opts.H <= 0 || opts.H > maxRows {
		return nil, errors.New("ssd1322: height must be between 1 and 128")
	}

	// The controller accepts Mode0 or Mode3.
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Wrap(err, "ssd1322: connect")
	}
	d, err := newDev(c, dc, opts)
	if err != nil {
		return nil, err
	}
	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

func newDev(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	rect := image.Rect(0, 0, opts.W, opts.H)
	shown, err := canvas.New(rect, canvas.FormatGray4, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "ssd1322")
	}
	return &Dev{
		c:            c,
		dc:           dc,
		rst:          opts.RST,
		rect:         rect,
		columnOffset: ((ramColumns - opts.W) / 2) &^ (pixelsPerColumn - 1),
		shown:        shown,
	}, nil
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return errors.Wrap(err, "ssd1322: failed to pull RST low")
		}
		time.Sleep(200 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return errors.Wrap(err, "ssd1322: failed to pull RST high")
		}
		time.Sleep(200 * time.Millisecond)
	}

	if err := d.sendCommands(initSequence(opts)); err != nil {
		return err
	}
	if err := d.writeRect(d.rect, make([]byte, len(d.shown.Pix))); err != nil {
		return err
	}
	return d.sendCommand(0xAF) // Display ON
}

// initSequence returns the commands configuring the controller for opts,
// leaving the display off.
func initSequence(opts *Opts) []byte {
	cmds := []byte{
		0xFD, 0x12, // Unlock command codes
		0xAE,       // Display OFF
		0xB3, 0xF2, // Clock divider and oscillator frequency
		0xCA, byte(opts.H - 1), // MUX ratio
		0xA2, 0x00, // Display offset
		0xA1, 0x00, // Start line
	}

	remap1, remap2 := byte(0x14), byte(0x11)
	if opts.Rotated {
		remap1 = 0x06
	}
	if opts.Sequential {
		remap2 |= 0x01
	}
	if opts.SwapTopBottom {
		remap2 |= 0x02
	}

	return append(cmds,
		0xA0, remap1, remap2, // Remap and dual COM mode
		0xAB, 0x01, // Function selection (enable internal VDD)
		0xB4, 0xA0, 0xFD, // VSL (display enhancement)
		0xC1, 0xFF, // Contrast (max)
		0xC7, 0x0F, // Master contrast
		0xB9,       // Use default grayscale table
		0xB1, 0xE2, // Phase length
		0xD1, 0x82, 0x20, // Display enhancements
		0xBB, 0x1F, // Pre-charge voltage
		0xB6, 0x08, // Second pre-charge period
		0xBE, 0x07, // VCOMH voltage
		0xA6, // Normal display mode
		0xA9, // Exit partial display mode
	)
}

func (d *Dev) sendCommand(cmd byte) error {
	return d.sendCommands([]byte{cmd})
}

func (d *Dev) sendCommands(cmds []byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx(cmds, nil)
}

func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}

// writeRect writes pixels to r, whose horizontal edges must be aligned on
// column addresses.
func (d *Dev) writeRect(r image.Rectangle, pixels []byte) error {
	colStart := byte((r.Min.X + d.columnOffset) / pixelsPerColumn)
	colEnd := byte((r.Max.X - 1 + d.columnOffset) / pixelsPerColumn)
	klog.V(2).Infof("ssd1322: writing %v, columns %#x-%#x, %d bytes", r, colStart, colEnd, len(pixels))
	cmds := []byte{
		0x15, colStart, colEnd, // Column address
		0x75, byte(r.Min.Y), byte(r.Max.Y - 1), // Row address
		0x5C, // Enable write to RAM
	}
	if err := d.sendCommands(cmds); err != nil {
		return err
	}
	return d.sendData(pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return canvas.Gray4Model
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// NewCanvas returns a blank canvas in the display native format. Drawing it
// with Show or Draw sends it without conversion.
func (d *Dev) NewCanvas() *canvas.Canvas {
	c, _ := canvas.New(d.rect, canvas.FormatGray4, nil)
	return c
}

// Write writes raw pixel data to the display, two pixels per byte, high
// nibble first. The data must be exactly W*H/2 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != len(d.shown.Pix) {
		return 0, errors.New("ssd1322: invalid buffer size")
	}
	if err := d.writeRect(d.rect, pixels); err != nil {
		return 0, err
	}
	d.remember(pixels)
	return len(pixels), nil
}

// Show sends the whole canvas c to the display. c must have been returned by
// NewCanvas.
func (d *Dev) Show(c *canvas.Canvas) error {
	if !d.native(c) {
		return errors.Errorf("ssd1322: %v doesn't match the display", c)
	}
	_, err := d.Write(c.Pix)
	return err
}

func (d *Dev) native(c *canvas.Canvas) bool {
	return c.Bounds() == d.rect && c.Format() == canvas.FormatGray4 && c.Layout().Opts() == (canvas.Opts{})
}

// remember records pixels as the content of the display RAM.
func (d *Dev) remember(pixels []byte) {
	copy(d.shown.Pix, pixels)
	if d.next != nil {
		copy(d.next.Pix, pixels)
	}
}

// Draw draws an image onto the display, only sending the smallest rectangle
// that changed.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	if c, ok := src.(*canvas.Canvas); ok && dst == d.rect && sp == (image.Point{}) && d.native(c) {
		_, err := d.Write(c.Pix)
		return err
	}

	if d.next == nil {
		d.next = d.shown.Clone()
	}
	draw.Draw(d.next, dst, src, sp, draw.Src)

	r := d.diff()
	if r.Empty() {
		return nil
	}
	if err := d.writeRect(r, d.extract(r)); err != nil {
		return err
	}
	copy(d.shown.Pix, d.next.Pix)
	return nil
}

// diff returns the smallest rectangle, aligned on column addresses, holding
// every pixel that differs between shown and next. It is empty when nothing
// changed.
func (d *Dev) diff() image.Rectangle {
	l := d.shown.Layout()
	stride := l.Stride()
	var r image.Rectangle
	for row := 0; row*stride < len(d.shown.Pix); row++ {
		start := row * stride
		old, cur := d.shown.Pix[start:start+stride], d.next.Pix[start:start+stride]
		if bytes.Equal(old, cur) {
			continue
		}
		for i := range old {
			if old[i] == cur[i] {
				continue
			}
			// Shift 4 is the first pixel of the byte.
			p := l.Point(start+i, 4)
			r = r.Union(image.Rect(p.X, p.Y, p.X+l.PixelsPerByte(), p.Y+1))
		}
	}
	if r.Empty() {
		return r
	}
	r.Min.X -= r.Min.X % pixelsPerColumn
	if m := r.Max.X % pixelsPerColumn; m != 0 {
		r.Max.X += pixelsPerColumn - m
	}
	return r
}

// extract returns the bytes of next covering r.
func (d *Dev) extract(r image.Rectangle) []byte {
	l := d.next.Layout()
	n := r.Dx() / l.PixelsPerByte()
	out := make([]byte, 0, n*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off, _ := l.Offset(r.Min.X, y)
		out = append(out, d.next.Pix[off:off+n]...)
	}
	return out
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return errHalted
	}
	return d.sendCommands([]byte{0xC1, contrast})
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	mode := byte(0xA6)
	if invert {
		mode = 0xA7
	}
	return d.sendCommand(mode)
}

// Halt turns the display off. The device can't be used afterwards.
func (d *Dev) Halt() error {
	d.halted = true
	return d.sendCommand(0xAE)
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1322.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ScrollSpeed defines the horizontal scroll frame rate.
type ScrollSpeed byte

// Scroll intervals, in display refresh cycles.
const (
	Speed6Frames   ScrollSpeed = 0x00
	Speed10Frames  ScrollSpeed = 0x01
	Speed100Frames ScrollSpeed = 0x02
	Speed200Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts horizontal scrolling of rows startRow to endRow.
// If right is true it scrolls right, otherwise left.
func (d *Dev) ScrollHorizontal(startRow, endRow byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return errHalted
	}
	if int(startRow) >= d.rect.Dy() || int(endRow) >= d.rect.Dy() {
		return errors.New("ssd1322: scroll row out of range")
	}
	cmd := byte(0x26)
	if right {
		cmd = 0x27
	}
	return d.sendCommands([]byte{
		cmd,
		0x00, // Dummy
		startRow,
		byte(speed),
		endRow,
		0x00, 0x00, // Dummy
		0x2F, // Activate scroll
	})
}

// StopScroll stops scrolling.
func (d *Dev) StopScroll() error {
	if d.halted {
		return errHalted
	}
	return d.sendCommand(0x2E)
}
