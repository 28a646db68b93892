// Package ssd1322 controls a SSD1322 OLED display via SPI.
//
// The SSD1322 is a 4-bit grayscale OLED controller supporting up to 480×128 pixels.
// This driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 4-bit grayscale with 16 intensity levels (0-15)
// - Support for various resolutions (typically 256×64 or 128×64)
// - Hardware scrolling support (horizontal only)
// - Adjustable contrast (0-255)
// - 480-column internal RAM with automatic centering for smaller displays
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select (or GND if always selected)
//	RES         → Optional: GPIO for hardware reset
//
// # Basic Usage
//
//	dev, err := ssd1322.NewSPI(spiPort, dcPin, &ssd1322.Opts{W: 256, H: 64})
//	if err != nil {
//		return err
//	}
//	defer dev.Halt()
//
//	c := dev.NewCanvas()
//	for y := 0; y < 64; y++ {
//		for x := 0; x < 256; x++ {
//			c.SetValue(x, y, uint32(x/16))
//		}
//	}
//	if err := dev.Show(c); err != nil {
//		return err
//	}
//
// # Drawing Modes
//
// Show and Write send a whole frame. Draw accepts any image.Image, renders it
// into an internal canvas and only sends the smallest rectangle that changed,
// aligned on the 4 pixel column addresses of the controller. A canvas from
// NewCanvas drawn over the full display takes the full frame path.
//
// Standard Go colors are converted to canvas.Gray4.
//
// # Hardware Scrolling
//
//	dev.ScrollHorizontal(0, 63, ssd1322.Speed10Frames, false)
//	time.Sleep(5 * time.Second)
//	dev.StopScroll()
//
// # Logging
//
// Updates are logged with klog at verbosity 2.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/SSD1322.pdf
package ssd1322
