package bits

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Endianness is a byte order. The zero value is Big, the network order.
type Endianness int

const (
	Big Endianness = iota
	Little
	// Native is the byte order of the host.
	Native
)

func (e Endianness) String() string {
	switch e {
	case Little:
		return "little"
	case Big:
		return "big"
	case Native:
		return "native"
	default:
		return fmt.Sprintf("Endianness(%d)", int(e))
	}
}

// Resolve maps Native to Little or Big.
func (e Endianness) Resolve() Endianness {
	if e != Native {
		return e
	}
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return Little
	}
	return Big
}

// Order returns the binary.ByteOrder matching e.
func Order(e Endianness) binary.ByteOrder {
	if e.Resolve() == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ByteSwap reverses the bytes of v.
func ByteSwap[T constraints.Unsigned](v T) T {
	var r T
	for i := 0; i < ByteSize[T](); i++ {
		r = r<<BitsPerByte | v&0xFF
		v >>= BitsPerByte
	}
	return r
}

// Convert converts v, laid out in memory with order from, to order to.
func Convert[T constraints.Unsigned](to, from Endianness, v T) T {
	if to.Resolve() == from.Resolve() {
		return v
	}
	return ByteSwap(v)
}

// PutScalar encodes v into dst with the given order and returns the number of
// bytes written. It panics if dst is too short.
func PutScalar[T constraints.Unsigned](dst []byte, e Endianness, v T) int {
	n := ByteSize[T]()
	_ = dst[n-1]
	big := e.Resolve() == Big
	for i := 0; i < n; i++ {
		b := byte(v >> (uint(i) * BitsPerByte))
		if big {
			dst[n-1-i] = b
		} else {
			dst[i] = b
		}
	}
	return n
}

// Scalar decodes a T from the first bytes of src with the given order. It
// panics if src is too short.
func Scalar[T constraints.Unsigned](src []byte, e Endianness) T {
	n := ByteSize[T]()
	_ = src[n-1]
	big := e.Resolve() == Big
	var v T
	for i := 0; i < n; i++ {
		var b byte
		if big {
			b = src[n-1-i]
		} else {
			b = src[i]
		}
		v |= T(b) << (uint(i) * BitsPerByte)
	}
	return v
}
