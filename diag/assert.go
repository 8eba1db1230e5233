package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Assert stops processing when an internal invariant does not hold. A
// failure is a bug in the engine, not bad input, so it panics with an error
// that carries the stack.
func Assert(condition bool, format string, args ...interface{}) {
	if !condition {
		Fatalf(format, args...)
	}
}

// Fatalf panics with a stack-carrying error.
func Fatalf(format string, args ...interface{}) {
	panic(errors.WithStack(fmt.Errorf(format, args...)))
}

// Recover converts a panic raised by Fatalf back into an error. Use it at
// the outer edge only, e.g.
//
//	defer diag.Recover(&err)
func Recover(err *error) {
	e := recover()
	if e == nil {
		return
	}
	if e2, ok := e.(error); ok {
		*err = e2
		return
	}
	*err = fmt.Errorf("%v", e)
}
