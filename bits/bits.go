// Package bits provides generic single bit and bit field helpers plus
// endianness conversion used by the pixel buffer and register code.
package bits

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// BitsPerByte is the number of bits in a byte.
const BitsPerByte = 8

// Size returns the width of T in bits.
func Size[T constraints.Integer]() int {
	var v T
	return int(unsafe.Sizeof(v)) * BitsPerByte
}

// ByteSize returns the width of T in bytes.
func ByteSize[T constraints.Integer]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// CheckBit reports whether bit i of v is set.
func CheckBit[T constraints.Integer](v T, i uint) bool {
	return v&(T(1)<<i) != 0
}

// SetBit returns v with bit i set.
func SetBit[T constraints.Integer](v T, i uint) T {
	return v | T(1)<<i
}

// ClearBit returns v with bit i cleared.
func ClearBit[T constraints.Integer](v T, i uint) T {
	return v &^ (T(1) << i)
}

// ToggleBit returns v with bit i inverted.
func ToggleBit[T constraints.Integer](v T, i uint) T {
	return v ^ T(1)<<i
}

// AllBitsSet returns a T with every bit set.
func AllBitsSet[T constraints.Integer]() T {
	var v T
	return ^v
}

// AllBitsCleared returns a T with every bit cleared.
func AllBitsCleared[T constraints.Integer]() T {
	return 0
}

// Mask returns a value with the low width bits set.
func Mask[T constraints.Integer](width uint) T {
	if int(width) >= Size[T]() {
		return AllBitsSet[T]()
	}
	return T(1)<<width - 1
}

// Field extracts width bits of v starting at bit shift.
func Field[T constraints.Unsigned](v T, shift, width uint) T {
	return v >> shift & Mask[T](width)
}

// SetField returns v with width bits at shift replaced by the low bits of x.
func SetField[T constraints.Unsigned](v T, shift, width uint, x T) T {
	m := Mask[T](width) << shift
	return v&^m | x<<shift&m
}
