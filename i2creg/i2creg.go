// Package i2creg reads and writes the registers of an I²C device.
//
// Most I²C peripherals expose a register file: a write of the register
// address followed by a read returns the register content, a write of the
// address followed by the value updates it. This package encodes that
// convention on top of a periph i2c.Bus; it doesn't add any bus semantics.
package i2creg

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"periph.io/x/conn/v3/i2c"

	"github.com/flavioheleno/abstractplatform/bits"
)

// Opts configures the register encoding of a device.
type Opts struct {
	// AddrWidth is the size of a register address in bytes, 1 (default) or 2.
	AddrWidth int
	// Order is the byte order of register addresses and multi-byte values,
	// big endian unless set.
	Order bits.Endianness
}

// DefaultOpts is used when nil is passed to New.
var DefaultOpts = Opts{AddrWidth: 1, Order: bits.Big}

// Dev is a device on an I²C bus exposing registers.
type Dev struct {
	c         i2c.Dev
	addrWidth int
	order     bits.Endianness
}

// New returns a handle to the device at addr on b.
func New(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	w := opts.AddrWidth
	if w == 0 {
		w = 1
	}
	if w != 1 && w != 2 {
		return nil, errors.Errorf("i2creg: register address width must be 1 or 2, got %d", opts.AddrWidth)
	}
	if addr > 0x3FF {
		return nil, errors.Errorf("i2creg: invalid device address %#x", addr)
	}
	return &Dev{c: i2c.Dev{Bus: b, Addr: addr}, addrWidth: w, order: opts.Order}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("i2creg.Dev{%s}", &d.c)
}

// Addr returns the device address.
func (d *Dev) Addr() uint16 {
	return d.c.Addr
}

func (d *Dev) regBytes(reg uint16, extra int) []byte {
	buf := make([]byte, d.addrWidth, d.addrWidth+extra)
	if d.addrWidth == 1 {
		buf[0] = byte(reg)
	} else {
		bits.PutScalar(buf, d.order, reg)
	}
	return buf
}

// ReadBlock reads n consecutive bytes starting at register reg.
func (d *Dev) ReadBlock(reg uint16, n int) ([]byte, error) {
	r := make([]byte, n)
	if err := d.c.Tx(d.regBytes(reg, 0), r); err != nil {
		return nil, errors.Wrapf(err, "i2creg: read %d bytes at %#x", n, reg)
	}
	return r, nil
}

// WriteBlock writes data to consecutive registers starting at reg, in one
// transaction.
func (d *Dev) WriteBlock(reg uint16, data []byte) error {
	w := append(d.regBytes(reg, len(data)), data...)
	if err := d.c.Tx(w, nil); err != nil {
		return errors.Wrapf(err, "i2creg: write %d bytes at %#x", len(data), reg)
	}
	return nil
}

// Read reads register reg as a V.
func Read[V constraints.Unsigned](d *Dev, reg uint16) (V, error) {
	b, err := d.ReadBlock(reg, bits.ByteSize[V]())
	if err != nil {
		return 0, err
	}
	return bits.Scalar[V](b, d.order), nil
}

// ReadLast reads a V without sending a register address, so it returns the
// register following the last one accessed on devices that auto-increment.
func ReadLast[V constraints.Unsigned](d *Dev) (V, error) {
	r := make([]byte, bits.ByteSize[V]())
	if err := d.c.Tx(nil, r); err != nil {
		return 0, errors.Wrap(err, "i2creg: read last register")
	}
	return bits.Scalar[V](r, d.order), nil
}

// Write writes v to register reg.
func Write[V constraints.Unsigned](d *Dev, reg uint16, v V) error {
	buf := make([]byte, bits.ByteSize[V]())
	bits.PutScalar(buf, d.order, v)
	return d.WriteBlock(reg, buf)
}

// Update replaces the bits of register reg selected by mask with those of
// value, keeping the other ones. It returns the value written.
func Update[V constraints.Unsigned](d *Dev, reg uint16, mask, value V) (V, error) {
	old, err := Read[V](d, reg)
	if err != nil {
		return 0, errors.WithMessage(err, "i2creg: update")
	}
	v := old&^mask | value&mask
	if v == old {
		return v, nil
	}
	return v, Write(d, reg, v)
}

// SetBit sets or clears a single bit of register reg.
func SetBit[V constraints.Unsigned](d *Dev, reg uint16, bit uint, on bool) error {
	mask := bits.SetBit(V(0), bit)
	value := V(0)
	if on {
		value = mask
	}
	_, err := Update(d, reg, mask, value)
	return err
}
