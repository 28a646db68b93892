//go:build tensordebug

package tensor

const debug = true
