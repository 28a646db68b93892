// Package tensor addresses the elements of a fixed-shape N-dimensional array
// that is stored as one linear buffer.
//
// A Dimension is a single axis with a fixed size and iteration direction. An
// Indexer is an ordered list of axes forming a little-endian mixed-radix
// number: axis 0 varies fastest, the last axis varies slowest.
//
//	x := tensor.NewDimension("x", 8, tensor.Forward)
//	y := tensor.NewDimension("y", 4, tensor.Forward)
//	idx := tensor.New(x, y)
//
//	idx.SetPosition(22)   // x = 22 % 8 = 6, y = 22 / 8 = 2
//	_ = idx.Position()    // 6 + 2*8 = 22
//
// # Directions
//
// A Backward dimension stores its position mirrored: Position returns the
// direction-independent (forward) position, DirectionalPosition returns the
// stored one. For a Backward dimension of size 4, forward position 0 is stored
// as 3.
//
// # End sentinel
//
// Every dimension accepts its size as a "one past the end" position, and the
// indexer accepts Size() as a global position. Decomposing Size() leaves every
// axis at 0 except the outermost one, which is parked on its own end
// sentinel. A Backward dimension parks at directional position -1.
//
// # Nesting
//
// *Indexer implements Axis, so an indexer can be one dimension of another
// indexer:
//
//	pixel := tensor.New(sub, tensor.New(column, row))
//
// # Preconditions
//
// Out of range positions are a caller error. They are only checked when the
// package is built with the tensordebug build tag, in which case a violation
// panics. Regular builds do no checking and produce wrapped results.
//
// Values in this package are not safe for concurrent use.
package tensor
