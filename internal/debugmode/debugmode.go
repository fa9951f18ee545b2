// Package debugmode holds the process-wide debug flag that gates the
// grounder's extra invariant assertions and verbose logging.
package debugmode

import "sync/atomic"

var enabled atomic.Bool

// Enabled reports whether debug mode is currently on.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns debug mode on or off. Safe to call concurrently; takes
// effect for any grounding run started after the call returns.
func SetEnabled(v bool) {
	enabled.Store(v)
}
