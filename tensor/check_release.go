//go:build !tensordebug

package tensor

// debug enables precondition checks. Build with -tags tensordebug to turn them on.
const debug = false
