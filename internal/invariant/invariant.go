// Package invariant provides lightweight contract assertions used to enforce
// the structural invariants of the OIT and the stack-machine memory model.
//
// Every function here panics on violation. These are programming-error
// checks, not user-facing errors: a violated invariant means a bug in this
// module, not a malformed document.
package invariant

import "fmt"

// Check panics with a formatted message if condition is false.
func Check(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("INVARIANT VIOLATION: "+format, args...))
	}
}

// NotNegative panics if value is negative.
func NotNegative(value int64, name string) {
	if value < 0 {
		panic(fmt.Sprintf("INVARIANT VIOLATION: %s must not be negative, got %d", name, value))
	}
}
