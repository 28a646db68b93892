package ssd1322

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/flavioheleno/abstractplatform/canvas"
)

// newTestDev returns an initialized-looking device recording what is sent to
// it.
func newTestDev(t *testing.T, w, h int) (*Dev, *conntest.Record, *gpiotest.Pin) {
	t.Helper()
	rec := &conntest.Record{}
	dc := &gpiotest.Pin{N: "DC"}
	d, err := newDev(rec, dc, &Opts{W: w, H: h})
	if err != nil {
		t.Fatal(err)
	}
	return d, rec, dc
}

func TestNewSPI(t *testing.T) {
	port := &spitest.Record{}
	dc := &gpiotest.Pin{N: "DC"}
	dev, err := NewSPI(port, dc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := dev.Bounds(); got != image.Rect(0, 0, 256, 64) {
		t.Errorf("Bounds() = %v", got)
	}
	if len(port.Ops) != 4 {
		t.Fatalf("got %d transfers, want 4", len(port.Ops))
	}
	if !bytes.Equal(port.Ops[0].W, initSequence(&Opts{W: 256, H: 64})) {
		t.Errorf("init sequence = % X", port.Ops[0].W)
	}
	// 256 pixels centered in 480 columns start at pixel 112, address 0x1C.
	window := []byte{0x15, 0x1C, 0x5B, 0x75, 0x00, 0x3F, 0x5C}
	if !bytes.Equal(port.Ops[1].W, window) {
		t.Errorf("window = % X, want % X", port.Ops[1].W, window)
	}
	if len(port.Ops[2].W) != 256*64/2 {
		t.Errorf("cleared %d bytes, want %d", len(port.Ops[2].W), 256*64/2)
	}
	if !bytes.Equal(port.Ops[3].W, []byte{0xAF}) {
		t.Errorf("last command = % X, want AF", port.Ops[3].W)
	}
	if dc.L != gpio.Low {
		t.Error("DC should be low after a command")
	}
}

func TestNewSPIReset(t *testing.T) {
	rst := &gpiotest.Pin{N: "RST"}
	if _, err := NewSPI(&spitest.Record{}, &gpiotest.Pin{N: "DC"}, &Opts{W: 128, H: 64, RST: rst}); err != nil {
		t.Fatal(err)
	}
	if rst.L != gpio.High {
		t.Error("RST should be released after init")
	}
}

func TestOptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, false},
		{"valid 256x64", &Opts{W: 256, H: 64}, false},
		{"valid 128x64", &Opts{W: 128, H: 64}, false},
		{"valid 4x1 (minimum)", &Opts{W: 4, H: 1}, false},
		{"width not a multiple of 4", &Opts{W: 254, H: 64}, true},
		{"odd width", &Opts{W: 255, H: 64}, true},
		{"width zero", &Opts{W: 0, H: 64}, true},
		{"width > 480", &Opts{W: 512, H: 64}, true},
		{"height zero", &Opts{W: 256, H: 0}, true},
		{"height > 128", &Opts{W: 256, H: 200}, true},
		{"rotated (valid)", &Opts{W: 256, H: 64, Rotated: true}, false},
		{"sequential (valid)", &Opts{W: 256, H: 64, Sequential: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSPI(&spitest.Record{}, &gpiotest.Pin{N: "DC"}, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSPI() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitSequenceRemap(t *testing.T) {
	tests := []struct {
		name         string
		opts         Opts
		remap1, remap2 byte
	}{
		{"default", Opts{W: 256, H: 64}, 0x14, 0x11},
		{"rotated", Opts{W: 256, H: 64, Rotated: true}, 0x06, 0x11},
		{"swap", Opts{W: 256, H: 64, SwapTopBottom: true}, 0x14, 0x13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := initSequence(&tt.opts)
			i := bytes.IndexByte(cmds, 0xA0)
			if i < 0 || cmds[i+1] != tt.remap1 || cmds[i+2] != tt.remap2 {
				t.Errorf("remap = % X, want %02X %02X", cmds[i:i+3], tt.remap1, tt.remap2)
			}
			if cmds[6] != 63 {
				t.Errorf("MUX ratio = %d, want 63", cmds[6])
			}
		})
	}
}

func TestDevBounds(t *testing.T) {
	dev, _, _ := newTestDev(t, 256, 64)
	want := image.Rect(0, 0, 256, 64)
	if got := dev.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestDevColorModel(t *testing.T) {
	dev := &Dev{}
	if dev.ColorModel() != canvas.Gray4Model {
		t.Error("ColorModel() did not return Gray4Model")
	}
}

func TestDevString(t *testing.T) {
	dev := &Dev{rect: image.Rect(0, 0, 256, 64)}
	want := "ssd1322.Dev{256x64}"
	if got := dev.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDevHalt(t *testing.T) {
	dev, rec, _ := newTestDev(t, 256, 64)
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 1 || !bytes.Equal(rec.Ops[0].W, []byte{0xAE}) {
		t.Errorf("Halt sent %v, want AE", rec.Ops)
	}

	if err := dev.SetContrast(100); err == nil {
		t.Error("SetContrast should fail when halted")
	}
	if err := dev.Invert(true); err == nil {
		t.Error("Invert should fail when halted")
	}
	if _, err := dev.Write(make([]byte, 256*64/2)); err == nil {
		t.Error("Write should fail when halted")
	}
	if err := dev.Draw(dev.Bounds(), image.NewRGBA(dev.Bounds()), image.Point{}); err == nil {
		t.Error("Draw should fail when halted")
	}
	if err := dev.Show(dev.NewCanvas()); err == nil {
		t.Error("Show should fail when halted")
	}
	if err := dev.ScrollHorizontal(0, 63, Speed10Frames, false); err == nil {
		t.Error("ScrollHorizontal should fail when halted")
	}
	if err := dev.StopScroll(); err == nil {
		t.Error("StopScroll should fail when halted")
	}
	if len(rec.Ops) != 1 {
		t.Errorf("halted device sent %d transfers", len(rec.Ops)-1)
	}
}

func TestDevColumnOffset(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		wantOffset int
	}{
		{"256 width", 256, 112},
		{"128 width", 128, 176},
		{"480 width (full)", 480, 0},
		{"64 width", 64, 208},
		{"252 width (rounded down)", 252, 112},
		{"124 width (rounded down)", 124, 176},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, _, _ := newTestDev(t, tt.width, 64)
			if dev.columnOffset != tt.wantOffset {
				t.Errorf("Column offset for width %d = %d, want %d", tt.width, dev.columnOffset, tt.wantOffset)
			}
		})
	}
}

func TestWriteColumnWindow(t *testing.T) {
	tests := []struct {
		width            int
		colStart, colEnd byte
	}{
		{256, 0x1C, 0x5B},
		{252, 0x1C, 0x5A},
		{124, 0x2C, 0x4A},
		{480, 0x00, 0x77},
	}

	for _, tt := range tests {
		dev, rec, _ := newTestDev(t, tt.width, 64)
		if _, err := dev.Write(make([]byte, tt.width*64/2)); err != nil {
			t.Fatal(err)
		}
		cmd := rec.Ops[0].W
		if cmd[0] != 0x15 || cmd[1] != tt.colStart || cmd[2] != tt.colEnd {
			t.Errorf("width %d: column command = % X, want 15 %02X %02X", tt.width, cmd[:3], tt.colStart, tt.colEnd)
		}
		// Each row of data must fill the column window exactly.
		if cols := int(cmd[2]-cmd[1]) + 1; cols*pixelsPerColumn != tt.width {
			t.Errorf("width %d: window covers %d pixels", tt.width, cols*pixelsPerColumn)
		}
	}
}

func TestWriteBufferSizeValidation(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		bufferSize int
	}{
		{"256x64 too small", 256, 64, 256*64/2 - 1},
		{"256x64 too large", 256, 64, 256*64/2 + 1},
		{"128x64 too small", 128, 64, 128*64/2 - 1},
		{"way too small", 256, 64, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, _, _ := newTestDev(t, tt.width, tt.height)
			_, err := dev.Write(make([]byte, tt.bufferSize))
			if err == nil {
				t.Fatal("Write should fail with invalid buffer size")
			}
			if err.Error() != "ssd1322: invalid buffer size" {
				t.Errorf("Write error = %v, want 'ssd1322: invalid buffer size'", err)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	dev, rec, dc := newTestDev(t, 8, 2)
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	n, err := dev.Write(pix)
	if err != nil || n != len(pix) {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if len(rec.Ops) != 2 || !bytes.Equal(rec.Ops[1].W, pix) {
		t.Errorf("Write sent %v", rec.Ops)
	}
	if dc.L != gpio.High {
		t.Error("DC should be high after data")
	}
	if !bytes.Equal(dev.shown.Pix, pix) {
		t.Errorf("shown = % X, want % X", dev.shown.Pix, pix)
	}
}

func TestDiffNoChanges(t *testing.T) {
	dev, _, _ := newTestDev(t, 4, 2)
	dev.next = dev.shown.Clone()
	if r := dev.diff(); !r.Empty() {
		t.Errorf("diff() = %v, want empty", r)
	}
}

func TestDiffWithChanges(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		pix  []byte
		want image.Rectangle
	}{
		{"first row", 4, 2, []byte{0xAB, 0xCD, 0x00, 0x00}, image.Rect(0, 0, 4, 1)},
		{"single nibble", 8, 2, []byte{0, 0, 0, 0, 0, 0, 0x0F, 0}, image.Rect(4, 1, 8, 2)},
		{"two rows", 8, 3, []byte{0, 0, 0, 0, 0x10, 0, 0, 0, 0, 0, 0, 0x01}, image.Rect(0, 1, 8, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, _, _ := newTestDev(t, tt.w, tt.h)
			dev.next = dev.shown.Clone()
			copy(dev.next.Pix, tt.pix)
			if got := dev.diff(); got != tt.want {
				t.Errorf("diff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	dev, _, _ := newTestDev(t, 8, 2)
	dev.next = dev.shown.Clone()
	copy(dev.next.Pix, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77})

	tests := []struct {
		r    image.Rectangle
		want []byte
	}{
		{image.Rect(4, 0, 8, 1), []byte{0x22, 0x33}},
		{image.Rect(0, 1, 4, 2), []byte{0x44, 0x55}},
		{image.Rect(4, 0, 8, 2), []byte{0x22, 0x33, 0x66, 0x77}},
	}
	for _, tt := range tests {
		if got := dev.extract(tt.r); !bytes.Equal(got, tt.want) {
			t.Errorf("extract(%v) = % X, want % X", tt.r, got, tt.want)
		}
	}
}

func TestDrawDifferential(t *testing.T) {
	dev, rec, _ := newTestDev(t, 8, 2)
	img := image.NewGray(dev.Bounds())
	img.SetGray(5, 1, color.Gray{Y: 0xFF})

	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 2 {
		t.Fatalf("got %d transfers, want 2", len(rec.Ops))
	}
	// (480-8)/2 = 236, pixels 4-7 are column address 60.
	window := []byte{0x15, 0x3C, 0x3C, 0x75, 0x01, 0x01, 0x5C}
	if !bytes.Equal(rec.Ops[0].W, window) {
		t.Errorf("window = % X, want % X", rec.Ops[0].W, window)
	}
	if !bytes.Equal(rec.Ops[1].W, []byte{0x0F, 0x00}) {
		t.Errorf("data = % X, want 0F 00", rec.Ops[1].W)
	}
	if v := dev.shown.Value(5, 1); v != 15 {
		t.Errorf("shown(5, 1) = %d, want 15", v)
	}

	// Same content: nothing to send.
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 2 {
		t.Errorf("redraw sent %d transfers", len(rec.Ops)-2)
	}

	// Outside the display: nothing to send.
	if err := dev.Draw(image.Rect(100, 100, 110, 110), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 2 {
		t.Errorf("clipped draw sent %d transfers", len(rec.Ops)-2)
	}
}

func TestDrawCanvasFastPath(t *testing.T) {
	dev, rec, _ := newTestDev(t, 8, 2)
	c := dev.NewCanvas()
	c.SetValue(0, 0, 0xA)
	if err := dev.Draw(dev.Bounds(), c, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 2 || !bytes.Equal(rec.Ops[1].W, c.Pix) {
		t.Fatalf("fast path sent %v", rec.Ops)
	}

	// A later differential draw starts from what the fast path sent.
	img := image.NewGray(dev.Bounds())
	img.SetGray(0, 0, color.Gray{Y: 0xAA})
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 2 {
		t.Errorf("unchanged draw sent %d transfers", len(rec.Ops)-2)
	}
}

func TestShow(t *testing.T) {
	dev, rec, _ := newTestDev(t, 8, 2)
	c := dev.NewCanvas()
	c.Fill(canvas.Gray4{Y: 3})
	if err := dev.Show(c); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 2 || !bytes.Equal(rec.Ops[1].W, bytes.Repeat([]byte{0x33}, 8)) {
		t.Errorf("Show sent %v", rec.Ops)
	}

	other, err := canvas.New(image.Rect(0, 0, 8, 2), canvas.FormatGray4, &canvas.Opts{Order: canvas.LSBFirst})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Show(other); err == nil {
		t.Error("Show should reject a canvas with another layout")
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		run  func(d *Dev) error
		want []byte
	}{
		{"contrast", func(d *Dev) error { return d.SetContrast(0x80) }, []byte{0xC1, 0x80}},
		{"invert", func(d *Dev) error { return d.Invert(true) }, []byte{0xA7}},
		{"normal", func(d *Dev) error { return d.Invert(false) }, []byte{0xA6}},
		{"scroll left", func(d *Dev) error { return d.ScrollHorizontal(0, 63, Speed10Frames, false) },
			[]byte{0x26, 0x00, 0x00, 0x01, 0x3F, 0x00, 0x00, 0x2F}},
		{"scroll right", func(d *Dev) error { return d.ScrollHorizontal(8, 15, Speed200Frames, true) },
			[]byte{0x27, 0x00, 0x08, 0x03, 0x0F, 0x00, 0x00, 0x2F}},
		{"stop scroll", func(d *Dev) error { return d.StopScroll() }, []byte{0x2E}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, rec, _ := newTestDev(t, 256, 64)
			if err := tt.run(dev); err != nil {
				t.Fatal(err)
			}
			if len(rec.Ops) != 1 || !bytes.Equal(rec.Ops[0].W, tt.want) {
				t.Errorf("sent %v, want % X", rec.Ops, tt.want)
			}
		})
	}
}

func TestScrollOutOfRange(t *testing.T) {
	dev, _, _ := newTestDev(t, 256, 64)
	if err := dev.ScrollHorizontal(0, 64, Speed6Frames, false); err == nil {
		t.Error("ScrollHorizontal should reject rows past the display")
	}
}

func TestScrollSpeed(t *testing.T) {
	for _, s := range []ScrollSpeed{Speed6Frames, Speed10Frames, Speed100Frames, Speed200Frames} {
		if byte(s) >= 4 {
			t.Errorf("scroll speed %d out of range", byte(s))
		}
	}
}
